package sales

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/icevibe/pos-terminal/internal/order"
	"github.com/icevibe/pos-terminal/pkg/backend"
	pkgerrors "github.com/icevibe/pos-terminal/pkg/errors"
)

type stubRecorder struct {
	payload backend.SalePayload
	saleID  int64
	err     error
}

func (s *stubRecorder) CreateSale(_ context.Context, payload backend.SalePayload) (int64, error) {
	s.payload = payload
	if s.err != nil {
		return 0, s.err
	}
	return s.saleID, nil
}

func (s *stubRecorder) Sales(context.Context) ([]backend.Sale, error) { return nil, nil }

func (s *stubRecorder) SaleDetail(context.Context, int64) (*backend.SaleDetail, error) {
	return nil, nil
}

func sessionWithCart(t *testing.T) *order.Session {
	t.Helper()
	session, err := order.NewSession("5", 7, "Laura")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	_, err = session.AddItem(order.Product{
		ID:    4,
		Name:  "Coctel",
		Price: decimal.NewFromInt(10000),
		Stock: 10,
	}, 2, "doble")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	return session
}

func TestSubmitClearsCartAndBuildsPayload(t *testing.T) {
	t.Parallel()

	recorder := &stubRecorder{saleID: 41}
	svc := NewService(recorder, nil, nil)
	session := sessionWithCart(t)

	result, err := svc.Submit(context.Background(), session, order.CheckoutInput{CustomerName: "Ana"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.SaleID != 41 {
		t.Fatalf("sale id = %d, want 41", result.SaleID)
	}
	if len(session.Items()) != 0 {
		t.Fatal("cart must be cleared after an accepted sale")
	}

	p := recorder.payload
	if p.UserID != 7 || p.TableNumber != "5" || p.CustomerName != "Ana" {
		t.Fatalf("payload header = %+v", p)
	}
	if p.Subtotal != 20000 || p.Tax != 3000 || p.Total != 23000 {
		t.Fatalf("payload amounts = %v/%v/%v", p.Subtotal, p.Tax, p.Total)
	}
	if len(p.Lines) != 1 || p.Lines[0].Quantity != 2 || p.Lines[0].Notes != "doble" {
		t.Fatalf("payload lines = %+v", p.Lines)
	}
}

func TestSubmitFailureKeepsCart(t *testing.T) {
	t.Parallel()

	recorder := &stubRecorder{err: pkgerrors.New(pkgerrors.CodeSubmission, "stock insuficiente")}
	svc := NewService(recorder, nil, nil)
	session := sessionWithCart(t)

	_, err := svc.Submit(context.Background(), session, order.CheckoutInput{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeSubmission {
		t.Fatalf("err = %v, want SUBMISSION_ERROR", err)
	}
	if len(session.Items()) != 1 {
		t.Fatal("cart must survive a failed submission")
	}
}

func TestSubmitEmptyCartNeverReachesBackend(t *testing.T) {
	t.Parallel()

	recorder := &stubRecorder{saleID: 1}
	svc := NewService(recorder, nil, nil)
	session, err := order.NewSession("2", 1, "Dani")
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	_, err = svc.Submit(context.Background(), session, order.CheckoutInput{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want VALIDATION_ERROR", err)
	}
	if recorder.payload.TableNumber != "" {
		t.Fatal("backend must not be called for an empty cart")
	}
}
