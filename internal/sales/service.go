package sales

import (
	"context"
	"time"

	"github.com/icevibe/pos-terminal/internal/order"
	"github.com/icevibe/pos-terminal/pkg/backend"
	pkgerrors "github.com/icevibe/pos-terminal/pkg/errors"
	"github.com/icevibe/pos-terminal/pkg/logger"
	"github.com/icevibe/pos-terminal/pkg/metrics"
)

// Recorder is the slice of the backend client the sales service needs.
type Recorder interface {
	CreateSale(ctx context.Context, payload backend.SalePayload) (int64, error)
	Sales(ctx context.Context) ([]backend.Sale, error)
	SaleDetail(ctx context.Context, saleID int64) (*backend.SaleDetail, error)
}

// Service turns finished order sessions into recorded sales.
type Service struct {
	recorder Recorder
	logger   *logger.Logger
	metrics  *metrics.POSMetrics
}

func NewService(recorder Recorder, logg *logger.Logger, m *metrics.POSMetrics) *Service {
	return &Service{recorder: recorder, logger: logg, metrics: m}
}

// Result is what a successful submission reports back to the terminal.
type Result struct {
	SaleID     int64
	Submission *order.Submission
}

// Submit snapshots the session, posts the sale, and clears the cart only
// after the backend accepted it. On any failure the cart stays untouched
// so the seller can retry without re-entering the order.
func (s *Service) Submit(ctx context.Context, session *order.Session, in order.CheckoutInput) (*Result, error) {
	submission, err := session.BuildSubmission(in)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	saleID, err := s.recorder.CreateSale(ctx, toPayload(submission))
	if err != nil {
		s.metrics.ObserveSubmit(time.Since(started), "failure")
		s.metrics.IncSubmitFailure(failureCode(err))
		return nil, err
	}
	s.metrics.ObserveSubmit(time.Since(started), "success")
	s.metrics.IncSubmitSuccess()

	session.Clear()
	if s.logger != nil {
		fctx := s.logger.WithFields(ctx, map[string]any{
			"sale_id":      saleID,
			"table_number": submission.TableNumber,
			"total":        submission.Total.String(),
		})
		s.logger.Info(fctx, "sale submitted")
	}

	return &Result{SaleID: saleID, Submission: submission}, nil
}

// List returns the recorded sales, newest first.
func (s *Service) List(ctx context.Context) ([]backend.Sale, error) {
	return s.recorder.Sales(ctx)
}

// Detail fetches one sale with its line items.
func (s *Service) Detail(ctx context.Context, saleID int64) (*backend.SaleDetail, error) {
	return s.recorder.SaleDetail(ctx, saleID)
}

func toPayload(sub *order.Submission) backend.SalePayload {
	lines := make([]backend.SaleLine, 0, len(sub.Lines))
	for _, line := range sub.Lines {
		lines = append(lines, backend.SaleLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.InexactFloat64(),
			Subtotal:  line.Subtotal.InexactFloat64(),
			Notes:     line.Notes,
		})
	}
	return backend.SalePayload{
		UserID:         sub.SellerID,
		Subtotal:       sub.Subtotal.InexactFloat64(),
		Tax:            sub.Tax.InexactFloat64(),
		Discount:       sub.Discount.InexactFloat64(),
		Total:          sub.Total.InexactFloat64(),
		TableNumber:    sub.TableNumber,
		WhatsAppNumber: sub.WhatsApp,
		CustomerName:   sub.CustomerName,
		Observations:   sub.Observations,
		Lines:          lines,
	}
}

func failureCode(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return string(typed.Code())
	}
	return "unknown"
}
