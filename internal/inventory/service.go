package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/erazemk/inventura/internal/db"
	"github.com/erazemk/inventura/internal/model"
	"github.com/erazemk/inventura/internal/store"
)

// Config holds the scan behaviour knobs.
type Config struct {
	// RequireDoubleScanReturn gates returns behind a second confirming scan.
	RequireDoubleScanReturn bool
	// ReturnWindow is how long the confirmation stays armed.
	ReturnWindow time.Duration
}

// DefaultConfig returns the production scan configuration.
func DefaultConfig() Config {
	return Config{
		RequireDoubleScanReturn: true,
		ReturnWindow:            DefaultReturnWindow,
	}
}

// Service owns the scan state machine: what a scanned code means for the
// persisted item, the double-scan return confirmation, quantity bookkeeping
// and the operator-visible scan status. Mutating operations are linearized by
// a single mutex so two concurrent scans of the same code cannot both observe
// the same state.
type Service struct {
	db     *db.DB
	cfg    Config
	gate   returnGate
	events *eventHub
	tracer trace.Tracer
	now    func() time.Time

	opMu sync.Mutex // linearizes mutating operations

	statusMu sync.RWMutex
	status   model.ScanStatus
}

// NewService creates an inventory service over the given database.
func NewService(d *db.DB, cfg Config) *Service {
	if cfg.ReturnWindow <= 0 {
		cfg.ReturnWindow = DefaultReturnWindow
	}
	return &Service{
		db:     d,
		cfg:    cfg,
		gate:   returnGate{window: cfg.ReturnWindow},
		events: newEventHub(),
		tracer: otel.Tracer("inventura/inventory"),
		now:    time.Now,
		status: model.ScanStatus{Message: "scan a code to begin", ItemStatus: model.ScanUnknown},
	}
}

// Status returns the snapshot of the last scan-affecting operation.
func (s *Service) Status() model.ScanStatus {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// Events subscribes to feedback events. The cancel function must be called on
// teardown.
func (s *Service) Events() (<-chan model.Event, func()) {
	return s.events.Subscribe()
}

// Scan processes one decoded code from the scanner. Unknown codes are created
// and immediately taken; available items are taken; checked-out items go
// through the return-confirmation gate. The returned status mirrors what
// Status() reports afterwards.
func (s *Service) Scan(ctx context.Context, code string) (model.ScanStatus, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return s.fail("", fmt.Errorf("empty code"))
	}

	ctx, span := s.tracer.Start(ctx, "inventory.scan",
		trace.WithAttributes(attribute.String("item.code", code)),
	)
	defer span.End()

	s.setStatus(model.ScanStatus{
		RawCode:    code,
		Message:    fmt.Sprintf("scanned %s", code),
		ItemStatus: model.ScanUnknown,
		Processing: true,
	})

	s.opMu.Lock()
	defer s.opMu.Unlock()

	now := s.now()
	ts := now.UnixMilli()

	item, err := store.GetItemByCode(ctx, s.db, code)
	if err != nil {
		return s.fail(code, err)
	}

	switch {
	case item == nil:
		// First sighting: create and take in one logical operation.
		created, err := store.CreateItem(ctx, s.db, code, ts)
		if err != nil {
			return s.fail(code, err)
		}
		if err := store.UpdateStatus(ctx, s.db, code, model.StatusCheckedOut,
			created.TakenCount+1, ts, model.ActionTake); err != nil {
			return s.fail(code, err)
		}
		s.gate.reset()
		span.SetAttributes(attribute.String("scan.outcome", "created_and_taken"))
		s.events.emit(model.Event{Kind: model.EventTaken, Code: code})
		return s.ok(code, model.ScanCheckedOut, fmt.Sprintf("%s: added and taken", code)), nil

	case item.Status == model.StatusAvailable:
		if err := store.UpdateStatus(ctx, s.db, code, model.StatusCheckedOut,
			item.TakenCount+1, ts, model.ActionTake); err != nil {
			return s.fail(code, err)
		}
		s.gate.reset()
		span.SetAttributes(attribute.String("scan.outcome", "taken"))
		s.events.emit(model.Event{Kind: model.EventTaken, Code: code})
		return s.ok(code, model.ScanCheckedOut,
			fmt.Sprintf("%s: taken (count %d)", code, item.TakenCount+1)), nil

	default:
		// Already checked out: a scan means "return", gated by confirmation.
		if s.cfg.RequireDoubleScanReturn {
			if s.gate.requestReturn(code, now) == Pending {
				span.SetAttributes(attribute.String("scan.outcome", "return_pending"))
				s.events.emit(model.Event{Kind: model.EventReturnPending, Code: code})
				return s.ok(code, model.ScanCheckedOut,
					fmt.Sprintf("%s: scan again to confirm return", code)), nil
			}
		}
		if err := store.UpdateStatus(ctx, s.db, code, model.StatusAvailable,
			item.TakenCount, ts, model.ActionReturn); err != nil {
			return s.fail(code, err)
		}
		span.SetAttributes(attribute.String("scan.outcome", "returned"))
		s.events.emit(model.Event{Kind: model.EventReturned, Code: code})
		return s.ok(code, model.ScanAvailable, fmt.Sprintf("%s: returned", code)), nil
	}
}

// Return performs an explicit (non-scan) return. It never requires
// confirmation: the operator asked for it directly.
func (s *Service) Return(ctx context.Context, code string) (model.ScanStatus, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.return",
		trace.WithAttributes(attribute.String("item.code", code)),
	)
	defer span.End()

	s.opMu.Lock()
	defer s.opMu.Unlock()

	item, err := store.GetItemByCode(ctx, s.db, code)
	if err != nil {
		return s.fail(code, err)
	}
	if item == nil {
		return s.setStatusReturn(model.ScanStatus{
			RawCode:    code,
			Message:    fmt.Sprintf("%s: not found", code),
			ItemStatus: model.ScanUnknown,
		}), nil
	}
	if item.Status != model.StatusCheckedOut {
		return s.ok(code, model.ScanAvailable, fmt.Sprintf("%s: already available", code)), nil
	}

	ts := s.now().UnixMilli()
	if err := store.UpdateStatus(ctx, s.db, code, model.StatusAvailable,
		item.TakenCount, ts, model.ActionReturn); err != nil {
		return s.fail(code, err)
	}
	s.gate.reset()
	s.events.emit(model.Event{Kind: model.EventReturned, Code: code})
	return s.ok(code, model.ScanAvailable, fmt.Sprintf("%s: returned", code)), nil
}

// ErrNothingScanned is returned by ReturnLast when no code has been scanned
// yet, so callers can tell a client-state problem from a store failure.
var ErrNothingScanned = errors.New("nothing scanned yet")

// ReturnLast explicitly returns the most recently scanned code.
func (s *Service) ReturnLast(ctx context.Context) (model.ScanStatus, error) {
	code := s.Status().RawCode
	if code == "" {
		return s.Status(), ErrNothingScanned
	}
	return s.Return(ctx, code)
}

// SetQuantity overwrites an item's quantity, clamping negatives to zero.
func (s *Service) SetQuantity(ctx context.Context, code string, quantity int) error {
	if quantity < 0 {
		quantity = 0
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if err := store.SetQuantity(ctx, s.db, code, quantity); err != nil {
		s.failQuiet(code, err)
		return err
	}
	return nil
}

// IncQuantity adds one to an item's quantity.
func (s *Service) IncQuantity(ctx context.Context, code string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if err := store.AddQuantity(ctx, s.db, code, 1); err != nil {
		s.failQuiet(code, err)
		return err
	}
	return nil
}

// DecQuantity subtracts one from an item's quantity. At zero it is a no-op,
// not an error.
func (s *Service) DecQuantity(ctx context.Context, code string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if err := store.AddQuantity(ctx, s.db, code, -1); err != nil {
		s.failQuiet(code, err)
		return err
	}
	return nil
}

// ResetTakenCount zeroes the taken counter of one item.
func (s *Service) ResetTakenCount(ctx context.Context, code string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if err := store.ResetTakenCount(ctx, s.db, code); err != nil {
		s.failQuiet(code, err)
		return err
	}
	return nil
}

// ResetAllTakenCounts zeroes every item's taken counter.
func (s *Service) ResetAllTakenCounts(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if err := store.ResetAllTakenCounts(ctx, s.db); err != nil {
		s.failQuiet("", err)
		return err
	}
	s.setStatusMessage("all taken counters reset")
	return nil
}

// DeleteItem removes an item, optionally cascading its log entries. If the
// deleted code is the one currently shown in the scan status, the status is
// cleared.
func (s *Service) DeleteItem(ctx context.Context, code string, cascadeLogs bool) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if err := store.DeleteItem(ctx, s.db, code, cascadeLogs); err != nil {
		s.failQuiet(code, err)
		return err
	}

	s.statusMu.Lock()
	if s.status.RawCode == code {
		s.status = model.ScanStatus{Message: "scan a code to begin", ItemStatus: model.ScanUnknown}
	}
	s.statusMu.Unlock()
	return nil
}

func (s *Service) setStatus(st model.ScanStatus) {
	s.statusMu.Lock()
	s.status = st
	s.statusMu.Unlock()
}

func (s *Service) setStatusReturn(st model.ScanStatus) model.ScanStatus {
	s.setStatus(st)
	return st
}

func (s *Service) setStatusMessage(msg string) {
	s.statusMu.Lock()
	s.status.Message = msg
	s.status.Processing = false
	s.statusMu.Unlock()
}

func (s *Service) ok(code, itemStatus, msg string) model.ScanStatus {
	return s.setStatusReturn(model.ScanStatus{
		RawCode:    code,
		Message:    msg,
		ItemStatus: itemStatus,
	})
}

// fail records an operation failure in the visible status. Nothing is retried:
// a failed scan requires the operator to rescan.
func (s *Service) fail(code string, err error) (model.ScanStatus, error) {
	st := model.ScanStatus{
		RawCode:    code,
		Message:    fmt.Sprintf("error: %v", err),
		ItemStatus: model.ScanError,
	}
	s.setStatus(st)
	return st, err
}

func (s *Service) failQuiet(code string, err error) {
	_, _ = s.fail(code, err)
}
