package tables

import (
	"sort"
	"strings"
	"sync"

	"github.com/icevibe/pos-terminal/pkg/backend"
)

// TableSale is the newest sale seen for one table, annotated with the
// terminal-local paid flag.
type TableSale struct {
	Sale backend.Sale
	Paid bool
}

// LatestByTable folds a sale list down to one entry per table, keeping
// the sale with the latest timestamp. Sales without a table number are
// skipped; they were takeaway or bar orders.
func LatestByTable(sales []backend.Sale) map[string]backend.Sale {
	latest := make(map[string]backend.Sale)
	for _, sale := range sales {
		table := strings.TrimSpace(sale.TableNumber)
		if table == "" {
			continue
		}
		current, ok := latest[table]
		if !ok || sale.SoldAt.After(current.SoldAt) {
			latest[table] = sale
		}
	}
	return latest
}

// Board tracks which tables the staff marked as paid. The flag lives on
// this terminal only: the venue backend has no settlement endpoint, so
// marking a table paid records nothing remotely and is lost on restart.
type Board struct {
	mu   sync.RWMutex
	paid map[string]struct{}
}

func NewBoard() *Board {
	return &Board{paid: make(map[string]struct{})}
}

// MarkPaid flags a table as settled on this terminal.
func (b *Board) MarkPaid(table string) {
	table = strings.TrimSpace(table)
	if table == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paid[table] = struct{}{}
}

// ClearPaid removes the local paid flag, typically when a fresh order
// lands on the table.
func (b *Board) ClearPaid(table string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.paid, strings.TrimSpace(table))
}

// IsPaid reports whether the table carries the local paid flag.
func (b *Board) IsPaid(table string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.paid[strings.TrimSpace(table)]
	return ok
}

// Active reconciles the sale history into the current table view: one
// entry per table with its newest sale, sorted by table number, each
// annotated with the local paid flag.
func (b *Board) Active(sales []backend.Sale) []TableSale {
	latest := LatestByTable(sales)

	numbers := make([]string, 0, len(latest))
	for table := range latest {
		numbers = append(numbers, table)
	}
	sort.Strings(numbers)

	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]TableSale, 0, len(numbers))
	for _, table := range numbers {
		_, paid := b.paid[table]
		out = append(out, TableSale{Sale: latest[table], Paid: paid})
	}
	return out
}
