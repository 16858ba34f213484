// Package printer renders bills as text receipts.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"synexpos/internal/domain/documents/bill"
	"synexpos/internal/domain/sale"
	"synexpos/pkg/logger"
)

const (
	rule      = "====================================="
	thinRule  = "-------------------------------------"
	nameWidth = 20
)

// Config describes the receipt header and where copies are kept.
type Config struct {
	StoreName string
	Location  string
	// Dir receives one file per bill. Empty disables file copies.
	Dir string
}

// DefaultConfig returns the outlet header.
func DefaultConfig() Config {
	return Config{
		StoreName: "SYNEX OUTLET STORE",
		Location:  "Colombo, Sri Lanka",
		Dir:       "receipts",
	}
}

// ReceiptPrinter writes the receipt to a console writer and keeps a file
// copy named BILL_<serial>_<yyyy-MM-dd>.txt.
type ReceiptPrinter struct {
	cfg Config
	out io.Writer
	mu  sync.Mutex
}

var _ sale.Printer = (*ReceiptPrinter)(nil)

// New creates a printer writing to out. A nil out means os.Stdout.
func New(cfg Config, out io.Writer) *ReceiptPrinter {
	if out == nil {
		out = os.Stdout
	}
	return &ReceiptPrinter{cfg: cfg, out: out}
}

// Print writes the receipt to the console and to the receipt directory.
func (p *ReceiptPrinter) Print(ctx context.Context, b *bill.Bill) error {
	text := p.Format(b)

	p.mu.Lock()
	_, err := io.WriteString(p.out, text)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}

	if p.cfg.Dir == "" {
		return nil
	}
	path, err := p.save(b, text)
	if err != nil {
		return err
	}
	logger.Debug(ctx, "receipt saved", "serial_number", b.SerialNumber(), "path", path)
	return nil
}

// FileName is the receipt file name of a bill.
func FileName(b *bill.Bill) string {
	return fmt.Sprintf("BILL_%s_%s.txt", b.SerialNumber(), b.DateTime().Format("2006-01-02"))
}

func (p *ReceiptPrinter) save(b *bill.Bill, text string) (string, error) {
	if err := os.MkdirAll(p.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create receipt dir: %w", err)
	}
	path := filepath.Join(p.cfg.Dir, FileName(b))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("save receipt: %w", err)
	}
	return path, nil
}

// Format renders the receipt text.
func (p *ReceiptPrinter) Format(b *bill.Bill) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(rule + "\n")
	sb.WriteString(center(p.cfg.StoreName) + "\n")
	if p.cfg.Location != "" {
		sb.WriteString(center(p.cfg.Location) + "\n")
	}
	sb.WriteString(rule + "\n\n")

	fmt.Fprintf(&sb, "Bill Serial No: %s\n", b.SerialNumber())
	fmt.Fprintf(&sb, "Date: %s\n", b.DateTime().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Transaction Type: %s\n", b.TransactionType().DisplayName())
	if name := b.CustomerName(); name != "" {
		fmt.Fprintf(&sb, "Customer: %s\n", name)
	}

	sb.WriteString("\n" + thinRule + "\n")
	fmt.Fprintf(&sb, "%-20s %5s %10s %12s\n", "Item", "Qty", "Price", "Total")
	sb.WriteString(thinRule + "\n")
	for _, bi := range b.Items() {
		fmt.Fprintf(&sb, "%-20s %5d %10s %12s\n",
			truncate(bi.ItemName(), nameWidth),
			bi.Quantity(),
			bi.UnitPrice().String(),
			bi.TotalPrice().String(),
		)
	}
	sb.WriteString(thinRule + "\n")

	amountLine(&sb, "Subtotal:", b.Subtotal().String())
	if !b.Discount().IsZero() {
		amountLine(&sb, "Discount:", b.Discount().String())
	}
	amountLine(&sb, "TOTAL:", b.Total().String())
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Payment Method: %s\n", b.PaymentMethod().DisplayName())
	if cash, ok := b.CashTendered(); ok {
		change, _ := b.Change()
		amountLine(&sb, "Cash Tendered:", cash.String())
		amountLine(&sb, "Change:", change.String())
	}

	sb.WriteString("\n" + rule + "\n")
	sb.WriteString(center("Thank you for shopping with us!") + "\n")
	sb.WriteString(rule + "\n\n")
	return sb.String()
}

func amountLine(sb *strings.Builder, label, amount string) {
	fmt.Fprintf(sb, "%-36s %12s\n", label, amount)
}

func center(s string) string {
	pad := (len(rule) - len(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
