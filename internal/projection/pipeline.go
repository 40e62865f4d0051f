package projection

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/erazemk/inventura/internal/db"
	"github.com/erazemk/inventura/internal/model"
	"github.com/erazemk/inventura/internal/store"
)

// DefaultDebounce is the quiet period that absorbs write bursts (a first scan
// is a create immediately followed by a take) into a single publish.
const DefaultDebounce = 24 * time.Millisecond

// Config holds the fixed pipeline policy. These are configuration choices, not
// runtime toggles.
type Config struct {
	// SortByTime orders same-status rows by recency instead of code. The
	// default (false) sorts by code, which minimizes row reordering while
	// the operator scrolls.
	SortByTime bool
	// LeanTimestamps uses the short day.month layout.
	LeanTimestamps bool
	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration
}

// Pipeline turns the store's change stream into a display-ready list: map to
// rows, sort, drop value-equal snapshots, coalesce bursts, debounce, then
// broadcast. A single goroutine performs all publishing, so subscribers never
// observe an older list after a newer one.
type Pipeline struct {
	db  *db.DB
	cfg Config

	mu      sync.Mutex
	current []model.ListRow
	subs    map[chan []model.ListRow]struct{}
}

// New creates a pipeline. Call Run to start it.
func New(d *db.DB, cfg Config) *Pipeline {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	return &Pipeline{
		db:   d,
		cfg:  cfg,
		subs: make(map[chan []model.ListRow]struct{}),
	}
}

// Run subscribes to store change notifications and republishes until ctx is
// cancelled. It performs an initial load so subscribers see the current state
// without waiting for a write.
func (p *Pipeline) Run(ctx context.Context) {
	changes, cancel := p.db.Watcher().Subscribe()
	defer cancel()

	p.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			// Debounce: restart the quiet period on every further change,
			// so a burst of writes settles into one refresh of the final
			// state. Intermediate states are skipped, never reordered.
			timer := time.NewTimer(p.cfg.Debounce)
			for waiting := true; waiting; {
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-changes:
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(p.cfg.Debounce)
				case <-timer.C:
					waiting = false
				}
			}
			p.refresh(ctx)
		}
	}
}

// Current returns the latest published list.
func (p *Pipeline) Current() []model.ListRow {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.current)
}

// Subscribe registers a list subscriber. Each subscriber holds at most one
// pending snapshot: if it cannot keep up, older pending snapshots are replaced
// by newer ones. The cancel function must be called on teardown.
func (p *Pipeline) Subscribe() (<-chan []model.ListRow, func()) {
	ch := make(chan []model.ListRow, 1)

	p.mu.Lock()
	p.subs[ch] = struct{}{}
	if p.current != nil {
		ch <- slices.Clone(p.current)
	}
	p.mu.Unlock()

	cancel := func() {
		p.mu.Lock()
		delete(p.subs, ch)
		p.mu.Unlock()
	}
	return ch, cancel
}

// PatchQuantity speculatively rewrites one row's quantity in the published
// list, ahead of the authoritative store round-trip. The next authoritative
// emission recomputes everything from the store and replaces the patch; since
// the service wrote the same value, the replacement is invisible.
func (p *Pipeline) PatchQuantity(code string, quantity int) {
	p.patch(func(rows []model.ListRow) []model.ListRow {
		for i := range rows {
			if rows[i].Code == code {
				rows[i].Quantity = quantity
			}
		}
		return rows
	})
}

// PatchDelete speculatively drops one row from the published list.
func (p *Pipeline) PatchDelete(code string) {
	p.patch(func(rows []model.ListRow) []model.ListRow {
		return slices.DeleteFunc(rows, func(r model.ListRow) bool {
			return r.Code == code
		})
	})
}

func (p *Pipeline) patch(apply func([]model.ListRow) []model.ListRow) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.publishLocked(apply(slices.Clone(p.current)))
}

// refresh re-queries the store, maps and sorts, and publishes the result.
func (p *Pipeline) refresh(ctx context.Context) {
	items, err := store.ListItems(ctx, p.db)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("refreshing item list", "error", err)
		return
	}

	rows := p.mapRows(items)
	p.sortRows(rows)

	p.mu.Lock()
	p.publishLocked(rows)
	p.mu.Unlock()
}

// mapRows projects items into display rows. Formatting happens once per batch,
// not per subscriber.
func (p *Pipeline) mapRows(items []model.Item) []model.ListRow {
	rows := make([]model.ListRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.ListRow{
			Code:           item.Code,
			Name:           item.Name,
			Status:         item.Status,
			TakenCount:     item.TakenCount,
			Quantity:       item.Quantity,
			LastActionTS:   item.LastActionTS,
			LastActionText: formatActionTime(item.LastActionTS, p.cfg.LeanTimestamps),
		})
	}
	return rows
}

// sortRows puts checked-out items first, then orders by the configured
// secondary key.
func (p *Pipeline) sortRows(rows []model.ListRow) {
	slices.SortStableFunc(rows, func(a, b model.ListRow) int {
		aOut := a.Status == model.StatusCheckedOut
		bOut := b.Status == model.StatusCheckedOut
		if aOut != bOut {
			if aOut {
				return -1
			}
			return 1
		}
		if p.cfg.SortByTime {
			if a.LastActionTS != b.LastActionTS {
				if a.LastActionTS > b.LastActionTS {
					return -1
				}
				return 1
			}
			return strings.Compare(a.Code, b.Code)
		}
		return strings.Compare(a.Code, b.Code)
	})
}

// publishLocked stores the snapshot and fans it out, suppressing value-equal
// republishing. Callers must hold p.mu.
func (p *Pipeline) publishLocked(rows []model.ListRow) {
	if slices.Equal(p.current, rows) {
		return
	}
	p.current = rows

	for ch := range p.subs {
		// Latest wins: replace any unread snapshot.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- slices.Clone(rows):
		default:
		}
	}
}
