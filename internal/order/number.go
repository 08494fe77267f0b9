package order

import (
	"context"
	"fmt"
	"time"
)

// Sequencer hands out the per-day order sequence. Next must be atomic: two
// callers never receive the same value for the same day.
type Sequencer interface {
	Next(ctx context.Context, day string) (int64, error)
}

// DayKey is the local calendar day an order number belongs to.
func DayKey(t time.Time) string { return t.Local().Format("060102") }

// FormatNumber renders ORD + YYMMDD + a zero-padded sequence.
func FormatNumber(day string, seq int64) string {
	return fmt.Sprintf("ORD%s%04d", day, seq)
}

type repoSequencer struct{ repo Repository }

func (r repoSequencer) Next(ctx context.Context, day string) (int64, error) {
	return r.repo.NextOrderSequence(ctx, day)
}

// StoreSequencer draws order sequences from the store's own counters.
func StoreSequencer(repo Repository) Sequencer { return repoSequencer{repo: repo} }
