package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/icevibe/pos-terminal/pkg/errors"
)

// SubmissionLine is one finalized cart line, decoupled from the live session.
type SubmissionLine struct {
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	Notes       string
}

// Submission is an immutable snapshot of a session taken at checkout time.
// Later edits to the session never leak into a submission already built.
type Submission struct {
	SellerID     int64
	SellerName   string
	TableNumber  string
	CustomerName string
	WhatsApp     string
	Observations string
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	Discount     decimal.Decimal
	Total        decimal.Decimal
	Lines        []SubmissionLine
	TakenAt      time.Time
}

// CheckoutInput carries the optional guest fields collected at checkout.
type CheckoutInput struct {
	CustomerName string
	WhatsApp     string
	Observations string
}

// BuildSubmission freezes the current cart into a Submission. It fails
// when the cart is empty or no table is bound; it never mutates the cart,
// so a failed backend submission leaves the order intact for retry.
func (s *Session) BuildSubmission(in CheckoutInput) (*Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if strings.TrimSpace(s.table) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "table number is required")
	}

	lines := make([]SubmissionLine, 0, len(s.lines))
	for _, line := range s.lines {
		lines = append(lines, SubmissionLine{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.Product.Price,
			Subtotal:    line.Subtotal(),
			Notes:       line.Notes,
		})
	}

	totals := totalsOf(s.lines)
	return &Submission{
		SellerID:     s.sellerID,
		SellerName:   s.sellerName,
		TableNumber:  s.table,
		CustomerName: strings.TrimSpace(in.CustomerName),
		WhatsApp:     strings.TrimSpace(in.WhatsApp),
		Observations: strings.TrimSpace(in.Observations),
		Subtotal:     totals.Subtotal,
		Tax:          totals.Tax,
		Discount:     totals.Discount,
		Total:        totals.Total,
		Lines:        lines,
		TakenAt:      time.Now(),
	}, nil
}
