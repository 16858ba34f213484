package memory

import (
	"context"
	"strings"

	"synexpos/internal/core/apperror"
	"synexpos/internal/domain/auth"
)

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	store *Store
}

var _ auth.UserRepository = (*UserRepo)(nil)

func NewUserRepo(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) Create(ctx context.Context, u *auth.User) error {
	return r.store.view(ctx, func(st *state) error {
		for _, existing := range st.users {
			if strings.EqualFold(existing.Username, u.Username) {
				return apperror.NewDuplicate("user", "username", u.Username)
			}
		}
		u.ID = st.nextID()
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*auth.User, error) {
	var out *auth.User
	err := r.store.view(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return apperror.NewNotFound("user", id)
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	var out *auth.User
	err := r.store.view(ctx, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Username, username) {
				out = &u
				return nil
			}
		}
		return apperror.NewNotFound("user", username)
	})
	return out, err
}

func (r *UserRepo) Update(ctx context.Context, u *auth.User) error {
	return r.store.view(ctx, func(st *state) error {
		if _, ok := st.users[u.ID]; !ok {
			return apperror.NewNotFound("user", u.ID)
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) Exists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if apperror.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}
