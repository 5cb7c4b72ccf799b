package order

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/icevibe/pos-terminal/pkg/errors"
	"github.com/icevibe/pos-terminal/pkg/money"
)

// UnboundedStock is the sentinel used when a product has no stock figure;
// the venue treats those products as effectively unlimited.
const UnboundedStock = 999

// Product is the slice of a catalog entry a cart line captures at add time.
// Catalog refreshes never rebind these values; the guest pays the price
// that was on the board when the item went on the order.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Stock int
}

func effectiveStock(p Product) int {
	if p.Stock <= 0 {
		return UnboundedStock
	}
	return p.Stock
}

// Line is one cart line. Lines are addressed by generated IDs, never by
// position, so concurrent edits from two terminal views cannot cross wires.
type Line struct {
	ID       uuid.UUID
	Product  Product
	Quantity int
	Notes    string
}

// Subtotal returns quantity times the captured unit price.
func (l Line) Subtotal() decimal.Decimal {
	return money.LineSubtotal(l.Product.Price, l.Quantity)
}

// Session owns one table's in-progress order: the bound table number and
// the cart lines, in insertion order. All mutation goes through its
// methods; the mutex keeps each operation atomic under concurrent handlers.
type Session struct {
	mu sync.Mutex

	id         uuid.UUID
	table      string
	sellerID   int64
	sellerName string
	lines      []Line
	createdAt  time.Time
}

// NewSession starts an order session bound to a table.
func NewSession(table string, sellerID int64, sellerName string) (*Session, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "table number is required")
	}
	return &Session{
		id:         uuid.New(),
		table:      table,
		sellerID:   sellerID,
		sellerName: sellerName,
		createdAt:  time.Now(),
	}, nil
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) SellerID() int64 { return s.sellerID }

func (s *Session) SellerName() string { return s.sellerName }

// Table returns the currently bound table number.
func (s *Session) Table() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// SetTable rebinds the session to another table. The cart is kept: the
// venue moves guests between tables mid-order.
func (s *Session) SetTable(table string) error {
	table = strings.TrimSpace(table)
	if table == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "table number is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = table
	return nil
}

// AddItem puts a product on the order. A line with the same product and
// identical notes is merged by incrementing its quantity; otherwise a new
// line is appended. Quantity is clamped to [1, stock].
func (s *Session) AddItem(p Product, quantity int, notes string) (Line, error) {
	if p.ID == 0 {
		return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}
	if quantity < 1 {
		return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Product.ID == p.ID && s.lines[i].Notes == notes {
			s.lines[i].Quantity = clamp(s.lines[i].Quantity+quantity, 1, effectiveStock(s.lines[i].Product))
			return s.lines[i], nil
		}
	}

	line := Line{
		ID:       uuid.New(),
		Product:  p,
		Quantity: clamp(quantity, 1, effectiveStock(p)),
		Notes:    notes,
	}
	s.lines = append(s.lines, line)
	return line, nil
}

// ChangeQuantity applies a delta to a line, clamped to [1, stock].
func (s *Session) ChangeQuantity(lineID uuid.UUID, delta int) (Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines[i].Quantity = clamp(s.lines[i].Quantity+delta, 1, effectiveStock(s.lines[i].Product))
			return s.lines[i], nil
		}
	}
	return Line{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
}

// RemoveItem deletes a line. An empty cart afterwards is fine.
func (s *Session) RemoveItem(lineID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
}

// Clear empties the cart. The table binding survives so the seller can
// start a fresh round for the same table.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Items returns a copy of the cart lines in insertion order.
func (s *Session) Items() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Totals derives subtotal, tax, and total from the current cart. Pure
// with respect to session state; callable at any time.
func (s *Session) Totals() money.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalsOf(s.lines)
}

func totalsOf(lines []Line) money.Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
	}
	return money.ComputeTotals(subtotal, decimal.Zero)
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
