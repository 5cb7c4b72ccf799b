package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/icevibe/pos-terminal/internal/order"
	pkgerrors "github.com/icevibe/pos-terminal/pkg/errors"
	"github.com/icevibe/pos-terminal/pkg/money"
)

// OrderMessage renders a submitted order as the plain-text receipt the
// staff forwards to the guest over WhatsApp.
func OrderMessage(sub *order.Submission) string {
	var b strings.Builder

	b.WriteString("*Nuevo pedido*\n")
	fmt.Fprintf(&b, "Mesa: %s\n", sub.TableNumber)
	if sub.CustomerName != "" {
		fmt.Fprintf(&b, "Cliente: %s\n", sub.CustomerName)
	}
	b.WriteString("\n")

	for _, line := range sub.Lines {
		fmt.Fprintf(&b, "%dx %s - %s", line.Quantity, line.ProductName, money.FormatCOP(line.Subtotal))
		if line.Notes != "" {
			fmt.Fprintf(&b, " (%s)", line.Notes)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", money.FormatCOP(sub.Subtotal))
	fmt.Fprintf(&b, "Impuestos: %s\n", money.FormatCOP(sub.Tax))
	fmt.Fprintf(&b, "*Total: %s*", money.FormatCOP(sub.Total))
	if sub.Observations != "" {
		fmt.Fprintf(&b, "\n\nObservaciones: %s", sub.Observations)
	}
	return b.String()
}

// BuildLink returns a wa.me URL for the phone and message. The phone is
// reduced to its digits and must keep at least ten of them; shorter
// numbers cannot be a dialable mobile line.
func BuildLink(phone, message string) (string, error) {
	digits := digitsOf(phone)
	if len(digits) < 10 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "whatsapp number needs at least 10 digits")
	}
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(message), nil
}

// OrderLink is the one-call form used after a submission: receipt text
// plus link for the captured guest number.
func OrderLink(sub *order.Submission) (string, error) {
	if sub.WhatsApp == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "no whatsapp number captured")
	}
	return BuildLink(sub.WhatsApp, OrderMessage(sub))
}

func digitsOf(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
