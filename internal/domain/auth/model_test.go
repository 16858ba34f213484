package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"synexpos/internal/core/apperror"
)

func TestUser_LockoutCycle(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	u := NewUser("kamal", "hash", "Kamal", RoleCashier)

	for range 2 {
		u.RecordFailedLogin(now, 3, 15*time.Minute)
	}
	assert.NoError(t, u.CanLogin(now))

	u.RecordFailedLogin(now, 3, 15*time.Minute)
	assert.True(t, u.IsLocked(now))
	assert.True(t, apperror.Is(u.CanLogin(now), apperror.CodeForbidden))
	assert.False(t, u.IsLocked(now.Add(16*time.Minute)))

	u.RecordSuccessfulLogin(now.Add(16 * time.Minute))
	assert.Zero(t, u.FailedLoginAttempts)
	assert.Nil(t, u.LockedUntil)
	assert.NotNil(t, u.LastLoginAt)
}

func TestUser_Validate(t *testing.T) {
	assert.NoError(t, NewUser("a", "h", "", RoleManager).Validate())
	assert.Error(t, NewUser(" ", "h", "", RoleManager).Validate())
	assert.Error(t, NewUser("a", "h", "", RoleOnlineCustomer).Validate())

	u := NewUser("a", "h", "", RoleCashier)
	u.IsActive = false
	assert.True(t, apperror.Is(u.CanLogin(time.Now()), apperror.CodeForbidden))
}
