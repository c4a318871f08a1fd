package api

import (
	"context"
	"net/http"
	"time"

	"github.com/guttosm/stockdash/internal/dashboard"
	"github.com/guttosm/stockdash/internal/domain/dto"
	"github.com/guttosm/stockdash/internal/domain/models"
	"github.com/guttosm/stockdash/internal/service"
)

// ServiceBackend feeds the server-rendered dashboard straight from the stock
// service. Pages served by this process never go back through the HTTP
// stack, so they are not counted by the per-client rate limiter.
//
// Service failures are reported as the same *dashboard.StatusError the HTTP
// client would produce for the matching endpoint.
type ServiceBackend struct {
	svc     service.StockService
	timeout time.Duration
}

// NewServiceBackend wraps svc. A positive timeout bounds every call.
func NewServiceBackend(svc service.StockService, timeout time.Duration) *ServiceBackend {
	return &ServiceBackend{svc: svc, timeout: timeout}
}

func (b *ServiceBackend) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.timeout)
}

func (b *ServiceBackend) StockData(ctx context.Context, q models.QueryParams) (models.PriceSeries, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	bars, _, err := b.svc.GetStockData(ctx, q)
	if err != nil {
		return nil, &dashboard.StatusError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	if bars == nil {
		bars = models.PriceSeries{}
	}
	return bars, nil
}

func (b *ServiceBackend) TestYahoo(ctx context.Context, symbol string, period models.Period) (*dto.YahooTestResult, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	res := b.svc.TestYahoo(ctx, symbol, period)
	return &res, nil
}

func (b *ServiceBackend) CheckYahooResponse(ctx context.Context, symbol string) (*dto.YahooAccessReport, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	rep, err := b.svc.CheckYahooResponse(ctx, symbol)
	if err != nil {
		return nil, &dashboard.StatusError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return rep, nil
}

var _ dashboard.Backend = (*ServiceBackend)(nil)
