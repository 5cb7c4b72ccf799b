package whatsapp

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/icevibe/pos-terminal/internal/order"
	pkgerrors "github.com/icevibe/pos-terminal/pkg/errors"
)

func submission() *order.Submission {
	return &order.Submission{
		TableNumber:  "5",
		CustomerName: "Ana",
		WhatsApp:     "+57 300 123-4567",
		Subtotal:     decimal.NewFromInt(20000),
		Tax:          decimal.NewFromInt(3000),
		Total:        decimal.NewFromInt(23000),
		Lines: []order.SubmissionLine{
			{ProductName: "Coctel", Quantity: 2, Subtotal: decimal.NewFromInt(20000), Notes: "doble"},
		},
	}
}

func TestOrderMessage(t *testing.T) {
	t.Parallel()

	msg := OrderMessage(submission())

	for _, want := range []string{
		"Mesa: 5",
		"Cliente: Ana",
		"2x Coctel - $20.000 (doble)",
		"*Total: $23.000*",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildLinkStripsFormatting(t *testing.T) {
	t.Parallel()

	link, err := BuildLink("+57 (300) 123-4567", "hola")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.HasPrefix(link, "https://wa.me/573001234567?text=") {
		t.Fatalf("link = %s", link)
	}
}

func TestBuildLinkRejectsShortNumbers(t *testing.T) {
	t.Parallel()

	_, err := BuildLink("123 456", "hola")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want VALIDATION_ERROR", err)
	}
}

func TestOrderLinkEncodesMessage(t *testing.T) {
	t.Parallel()

	link, err := OrderLink(submission())
	if err != nil {
		t.Fatalf("order link: %v", err)
	}
	if !strings.Contains(link, "text=%2ANuevo+pedido%2A") {
		t.Fatalf("link = %s", link)
	}
}

func TestOrderLinkRequiresNumber(t *testing.T) {
	t.Parallel()

	sub := submission()
	sub.WhatsApp = ""
	if _, err := OrderLink(sub); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error")
	}
}
