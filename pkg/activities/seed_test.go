package activities

import (
	"context"
	"testing"
	"time"

	"github.com/reactivities/reactivities/pkg/api"
	"github.com/reactivities/reactivities/pkg/storage/memory"
)

func TestSeedPopulatesEmptyStore(t *testing.T) {
	store := memory.New(0)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	n, err := Seed(context.Background(), store, now)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != 10 {
		t.Errorf("seeded %d, want 10", n)
	}

	list, _ := store.ListActivities(context.Background())
	if len(list) != n {
		t.Fatalf("stored %d, want %d", len(list), n)
	}
	if list[0].Title != "Past Activity 1" {
		t.Errorf("first by date = %q, want %q", list[0].Title, "Past Activity 1")
	}
	for _, a := range list {
		if apiErr := api.ValidateActivity(&a); apiErr != nil {
			t.Errorf("seeded activity %q invalid: %v", a.Title, apiErr)
		}
	}
}

func TestSeedSkipsNonEmptyStore(t *testing.T) {
	store := memory.New(0)
	a := validActivity()
	a.ID = api.NewActivityID()
	store.CreateActivity(context.Background(), &a)

	n, err := Seed(context.Background(), store, time.Now())
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != 0 {
		t.Errorf("seeded %d into non-empty store, want 0", n)
	}
}
