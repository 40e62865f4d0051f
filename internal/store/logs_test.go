package store

import (
	"context"
	"testing"

	"github.com/erazemk/inventura/internal/db"
	"github.com/erazemk/inventura/internal/model"
)

func TestLogsForCodeNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateItem(ctx, database, "ITEM-001", 1000)
	UpdateStatus(ctx, database, "ITEM-001", model.StatusCheckedOut, 1, 2000, model.ActionTake)
	UpdateStatus(ctx, database, "ITEM-001", model.StatusAvailable, 1, 3000, model.ActionReturn)

	logs, err := LogsForCode(ctx, database, "ITEM-001")
	if err != nil {
		t.Fatalf("LogsForCode: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(logs))
	}
	if logs[0].Action != model.ActionReturn || logs[2].Action != model.ActionCreate {
		t.Errorf("unexpected order: %q, %q, %q", logs[0].Action, logs[1].Action, logs[2].Action)
	}
}

func TestRecentLogsLimit(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateItem(ctx, database, "ITEM-001", 1000)
	CreateItem(ctx, database, "ITEM-002", 2000)
	UpdateStatus(ctx, database, "ITEM-001", model.StatusCheckedOut, 1, 3000, model.ActionTake)

	logs, err := RecentLogs(ctx, database, 2)
	if err != nil {
		t.Fatalf("RecentLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(logs))
	}
	if logs[0].Code != "ITEM-001" || logs[0].Action != model.ActionTake {
		t.Errorf("expected newest entry to be the take, got %+v", logs[0])
	}
}
