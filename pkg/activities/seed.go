package activities

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reactivities/reactivities/pkg/api"
	"github.com/reactivities/reactivities/pkg/transport"
)

// Seed inserts a fixed set of sample activities when the store holds none.
// Dates are relative to now. It returns the number of activities inserted.
func Seed(ctx context.Context, store transport.ActivityStore, now time.Time) (int, error) {
	existing, err := store.ListActivities(ctx)
	if err != nil {
		return 0, fmt.Errorf("checking existing activities: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	samples := sampleActivities(now.UTC().Truncate(time.Second))
	for i := range samples {
		samples[i].ID = api.NewActivityID()
		if err := store.CreateActivity(ctx, &samples[i]); err != nil {
			return i, fmt.Errorf("seeding %q: %w", samples[i].Title, err)
		}
	}

	slog.Info("seeded activities", "count", len(samples))
	return len(samples), nil
}

func sampleActivities(now time.Time) []api.Activity {
	month := func(n int) time.Time { return now.AddDate(0, n, 0) }

	return []api.Activity{
		{Title: "Past Activity 1", Date: month(-2), Description: "Activity 2 months ago", Category: "drinks", City: "London", Venue: "Pub"},
		{Title: "Past Activity 2", Date: month(-1), Description: "Activity 1 month ago", Category: "culture", City: "Paris", Venue: "Louvre"},
		{Title: "Future Activity 1", Date: month(1), Description: "Activity 1 month in future", Category: "culture", City: "London", Venue: "Natural History Museum"},
		{Title: "Future Activity 2", Date: month(2), Description: "Activity 2 months in future", Category: "music", City: "London", Venue: "O2 Arena"},
		{Title: "Future Activity 3", Date: month(3), Description: "Activity 3 months in future", Category: "drinks", City: "London", Venue: "Another pub"},
		{Title: "Future Activity 4", Date: month(4), Description: "Activity 4 months in future", Category: "drinks", City: "London", Venue: "Yet another pub"},
		{Title: "Future Activity 5", Date: month(5), Description: "Activity 5 months in future", Category: "drinks", City: "London", Venue: "Just another pub"},
		{Title: "Future Activity 6", Date: month(6), Description: "Activity 6 months in future", Category: "music", City: "London", Venue: "Roundhouse Camden"},
		{Title: "Future Activity 7", Date: month(7), Description: "Activity 2 months ago", Category: "travel", City: "London", Venue: "Somewhere on the Thames"},
		{Title: "Future Activity 8", Date: month(8), Description: "Activity 8 months in future", Category: "film", City: "London", Venue: "Cinema"},
	}
}
