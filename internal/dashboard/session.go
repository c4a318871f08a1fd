package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/guttosm/stockdash/internal/domain/models"
	"github.com/guttosm/stockdash/internal/logger"
)

// Session owns the current view of one dashboard and serialises refreshes.
//
// A new Refresh cancels the load still in flight and bumps the generation;
// a load that finishes under an older generation is dropped, so the view
// always ends on the most recent trigger.
//
// Session is meant for long-lived clients that re-trigger loads on one view,
// such as --mode dashboard or an embedding program. The served web pages are
// stateless per request and call Controller directly.
type Session struct {
	ctrl    *Controller
	timeout time.Duration

	mu     sync.Mutex
	view   ViewState
	gen    uint64
	cancel context.CancelFunc
}

// NewSession starts from NewViewState. timeout bounds each load; zero disables it.
func NewSession(ctrl *Controller, timeout time.Duration) *Session {
	return &Session{ctrl: ctrl, timeout: timeout, view: NewViewState()}
}

// View returns a snapshot of the current state.
func (s *Session) View() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Refresh loads params and returns the resulting view. applied is false when
// a newer Refresh superseded this one; the returned view is then whatever is
// current.
func (s *Session) Refresh(ctx context.Context, params models.QueryParams) (view ViewState, applied bool) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen

	var (
		lctx   context.Context
		cancel context.CancelFunc
	)
	if s.timeout > 0 {
		lctx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		lctx, cancel = context.WithCancel(ctx)
	}
	s.cancel = cancel
	s.view = s.ctrl.Begin(s.view, params)
	pending := s.view
	s.mu.Unlock()

	result := s.ctrl.Complete(lctx, pending)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		logger.Component("dashboard").Debug().Uint64("generation", gen).Uint64("current", s.gen).Msg("discarding stale load")
		return s.view, false
	}
	// keep a status banner set by diagnostics while the load ran
	result.Status = s.view.Status
	s.view = result
	s.cancel = nil
	return s.view, true
}

// TestYahoo runs the live provider test and updates only the status banner.
func (s *Session) TestYahoo(ctx context.Context) ViewState {
	out := s.ctrl.TestYahoo(ctx, s.View())
	return s.setStatus(out.Status)
}

// CheckDirectAccess checks the quote page and updates only the status banner.
func (s *Session) CheckDirectAccess(ctx context.Context) ViewState {
	out := s.ctrl.CheckDirectAccess(ctx, s.View())
	return s.setStatus(out.Status)
}

func (s *Session) setStatus(b *Banner) ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Status = b
	return s.view
}

// Close cancels any load in flight.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
