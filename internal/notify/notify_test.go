package notify

import (
	"context"
	"testing"
	"time"
)

func TestMemorySlotOverwritesAndExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	slot := NewMemorySlot(DefaultTTL)
	slot.now = func() time.Time { return now }

	if _, ok := slot.Current(ctx); ok {
		t.Fatal("empty slot returned a notice")
	}

	slot.Set(ctx, Notice{Severity: SeverityInfo, Message: "first"})
	slot.Set(ctx, Notice{Severity: SeverityError, Message: "second"})
	n, ok := slot.Current(ctx)
	if !ok || n.Message != "second" || n.Severity != SeverityError {
		t.Fatalf("Current = %+v, %v", n, ok)
	}

	now = now.Add(3999 * time.Millisecond)
	if _, ok := slot.Current(ctx); !ok {
		t.Fatal("notice expired early")
	}
	now = now.Add(time.Millisecond)
	if _, ok := slot.Current(ctx); ok {
		t.Fatal("notice outlived its ttl")
	}
}

func TestNewMemorySlotDefaultsTTL(t *testing.T) {
	if s := NewMemorySlot(0); s.ttl != DefaultTTL {
		t.Fatalf("ttl = %s", s.ttl)
	}
}
