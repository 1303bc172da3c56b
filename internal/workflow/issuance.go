// Package workflow orchestrates order issuance.
//
// Submit is the only path that composes shift-window admission with id
// assignment. The window is re-evaluated inside Submit even when the caller
// already checked it when offering the capture action: shift status is
// time-dependent and can flip between the two moments.
package workflow

import (
	"log/slog"
	"time"

	"github.com/portotpc/mantemos/internal/ledger"
	"github.com/portotpc/mantemos/internal/model"
	"github.com/portotpc/mantemos/internal/settings"
	"github.com/portotpc/mantemos/internal/shift"
)

// Issuance runs the admission check → capture projection → ledger append
// sequence for new service orders.
type Issuance struct {
	ledger   *ledger.Ledger
	settings *settings.Store
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures an Issuance workflow.
type Option func(*Issuance)

// WithClock overrides the admission-check clock (for deterministic tests).
func WithClock(now func() time.Time) Option {
	return func(w *Issuance) { w.now = now }
}

// WithLogger overrides the workflow's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Issuance) { w.logger = logger }
}

// NewIssuance creates the issuance workflow over the given stores.
func NewIssuance(l *ledger.Ledger, s *settings.Store, opts ...Option) *Issuance {
	w := &Issuance{
		ledger:   l,
		settings: s,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// InShift reports whether the technician is currently inside their shift
// window. The UI checks this when offering the capture action; Submit checks
// it again when the action completes.
func (w *Issuance) InShift(tech model.Technician) bool {
	return shift.InWindow(w.now(), tech.ShiftStart, tech.ShiftEnd)
}

// Submit issues a new order for the technician from the raw form inputs.
//
// Rejects with a SHIFT_CLOSED error, performing no write at all, when the
// technician is outside their shift window.
//
// Inputs are projected against the schema active right now: the order's data
// gets exactly one entry per current field, keyed by the field's label. A
// field missing from the inputs yields an empty value rather than an error;
// capture is permissive, required-ness is a form concern. Input keys that
// match no current field are dropped.
func (w *Issuance) Submit(tech model.Technician, inputs map[string]string) (model.ServiceOrder, error) {
	if !w.InShift(tech) {
		w.logger.Info("issuance rejected, shift closed",
			"tech", tech.ID, "window", tech.ShiftStart+"-"+tech.ShiftEnd)
		return model.ServiceOrder{}, NewShiftClosedError(tech.ShiftStart, tech.ShiftEnd)
	}

	data := make(map[string]string)
	for _, f := range w.settings.Fields() {
		data[f.Label] = inputs[f.Label]
	}

	order := w.ledger.Issue(tech, data)
	w.logger.Info("order issued", "id", order.ID, "tech", tech.ID)
	return order, nil
}
