package projection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/inventura/internal/db"
	"github.com/erazemk/inventura/internal/model"
	"github.com/erazemk/inventura/internal/store"
)

func waitForRows(t *testing.T, ch <-chan []model.ListRow) []model.ListRow {
	t.Helper()
	select {
	case rows := <-ch:
		return rows
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a list snapshot")
		return nil
	}
}

func TestPipelineInitialLoad(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	store.CreateItem(ctx, database, "B", 1000)
	store.CreateItem(ctx, database, "A", 2000)

	p := New(database, Config{Debounce: time.Millisecond})
	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	go p.Run(runCtx)

	ch, cancel := p.Subscribe()
	defer cancel()

	rows := waitForRows(t, ch)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Code)
	assert.Equal(t, "B", rows[1].Code)
}

func TestPipelineCoalescesBursts(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p := New(database, Config{Debounce: 20 * time.Millisecond})
	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	go p.Run(runCtx)

	ch, cancel := p.Subscribe()
	defer cancel()

	// A first scan is a create immediately followed by a take. The subscriber
	// should see the settled state, not the intermediate available one.
	store.CreateItem(ctx, database, "ITEM-001", 1000)
	store.UpdateStatus(ctx, database, "ITEM-001", model.StatusCheckedOut, 1, 1000, model.ActionTake)

	rows := waitForRows(t, ch)
	require.Len(t, rows, 1)
	assert.Equal(t, model.StatusCheckedOut, rows[0].Status)
	assert.Equal(t, 1, rows[0].TakenCount)

	// Exactly one publish for the burst: nothing else may arrive once the
	// settled snapshot has been read.
	time.Sleep(3 * p.cfg.Debounce)
	select {
	case extra := <-ch:
		t.Fatalf("expected a single publish for the burst, got a second: %+v", extra)
	default:
	}
}

func TestPipelineSuppressesEqualSnapshots(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	store.CreateItem(ctx, database, "ITEM-001", 1000)

	p := New(database, Config{Debounce: 5 * time.Millisecond})
	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	go p.Run(runCtx)

	ch, cancel := p.Subscribe()
	defer cancel()
	waitForRows(t, ch)

	// A write that leaves the visible list unchanged must not republish.
	store.SetQuantity(ctx, database, "ITEM-001", 0)

	select {
	case rows := <-ch:
		t.Fatalf("expected no publish for a value-equal snapshot, got %+v", rows)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPipelineSortCheckedOutFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	store.CreateItem(ctx, database, "A", 1000)
	store.CreateItem(ctx, database, "B", 1000)
	store.CreateItem(ctx, database, "C", 1000)
	store.UpdateStatus(ctx, database, "C", model.StatusCheckedOut, 1, 2000, model.ActionTake)

	p := New(database, Config{})
	p.refresh(ctx)

	rows := p.Current()
	require.Len(t, rows, 3)
	assert.Equal(t, "C", rows[0].Code)
	assert.Equal(t, "A", rows[1].Code)
	assert.Equal(t, "B", rows[2].Code)
}

func TestPipelineSortStableWithinStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	store.CreateItem(ctx, database, "B", 1000)
	store.CreateItem(ctx, database, "A", 1000)
	store.UpdateStatus(ctx, database, "B", model.StatusCheckedOut, 1, 2000, model.ActionTake)
	store.UpdateStatus(ctx, database, "A", model.StatusCheckedOut, 1, 3000, model.ActionTake)

	p := New(database, Config{})
	p.refresh(ctx)

	// Both checked out: code order wins regardless of timestamps.
	rows := p.Current()
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Code)
	assert.Equal(t, "B", rows[1].Code)
}

func TestPipelineSortByTime(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	store.CreateItem(ctx, database, "A", 1000)
	store.CreateItem(ctx, database, "B", 3000)
	store.CreateItem(ctx, database, "C", 2000)

	p := New(database, Config{SortByTime: true})
	p.refresh(ctx)

	rows := p.Current()
	require.Len(t, rows, 3)
	assert.Equal(t, "B", rows[0].Code)
	assert.Equal(t, "C", rows[1].Code)
	assert.Equal(t, "A", rows[2].Code)
}

func TestPipelinePatchQuantity(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	store.CreateItem(ctx, database, "ITEM-001", 1000)

	p := New(database, Config{})
	p.refresh(ctx)

	p.PatchQuantity("ITEM-001", 7)
	rows := p.Current()
	require.Len(t, rows, 1)
	assert.Equal(t, 7, rows[0].Quantity)

	// The next authoritative refresh replaces the patch wholesale.
	store.SetQuantity(ctx, database, "ITEM-001", 7)
	p.refresh(ctx)
	rows = p.Current()
	assert.Equal(t, 7, rows[0].Quantity)
}

func TestPipelinePatchDelete(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	store.CreateItem(ctx, database, "A", 1000)
	store.CreateItem(ctx, database, "B", 1000)

	p := New(database, Config{})
	p.refresh(ctx)

	p.PatchDelete("A")
	rows := p.Current()
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0].Code)
}

func TestPipelineSubscriberLatestWins(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p := New(database, Config{})
	ch, cancel := p.Subscribe()
	defer cancel()

	store.CreateItem(ctx, database, "A", 1000)
	p.refresh(ctx)
	store.CreateItem(ctx, database, "B", 2000)
	p.refresh(ctx)

	// The unread first snapshot was replaced by the newer one.
	rows := waitForRows(t, ch)
	require.Len(t, rows, 2)

	select {
	case rows := <-ch:
		t.Fatalf("expected a single pending snapshot, got a second: %+v", rows)
	default:
	}
}
