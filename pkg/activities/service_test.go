package activities

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reactivities/reactivities/pkg/api"
	"github.com/reactivities/reactivities/pkg/storage"
	"github.com/reactivities/reactivities/pkg/storage/memory"
	"github.com/reactivities/reactivities/pkg/transport"
)

// failingStore wraps a real store and fails selected writes.
type failingStore struct {
	transport.ActivityStore
	createErr, updateErr, deleteErr error
}

func (f *failingStore) CreateActivity(ctx context.Context, a *api.Activity) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.ActivityStore.CreateActivity(ctx, a)
}

func (f *failingStore) UpdateActivity(ctx context.Context, a *api.Activity) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.ActivityStore.UpdateActivity(ctx, a)
}

func (f *failingStore) DeleteActivity(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.ActivityStore.DeleteActivity(ctx, id)
}

func newMediator(t *testing.T, store transport.ActivityStore) *transport.Mediator {
	t.Helper()
	svc, err := New(store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m := transport.NewMediator()
	svc.Register(m)
	return m
}

func validActivity() api.Activity {
	return api.Activity{
		Title:       "Past Activity 1",
		Date:        time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC),
		Description: "Activity 2 months ago",
		Category:    "drinks",
		City:        "London",
		Venue:       "Pub",
	}
}

func requireAPIError(t *testing.T, err error, want api.ErrorType) *api.APIError {
	t.Helper()
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.APIError, got %T: %v", err, err)
	}
	if apiErr.Type != want {
		t.Fatalf("error type = %q, want %q (%v)", apiErr.Type, want, apiErr)
	}
	return apiErr
}

func TestNewRejectsNilStore(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil store")
	}
}

func TestCreateAssignsIDAndLists(t *testing.T) {
	store := memory.New(0)
	m := newMediator(t, store)
	ctx := context.Background()

	if _, err := m.Send(ctx, Create{Activity: validActivity()}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := m.Send(ctx, List{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	list := got.([]api.Activity)
	if len(list) != 1 {
		t.Fatalf("len(list) = %d, want 1", len(list))
	}
	if !api.ValidateActivityID(list[0].ID) {
		t.Errorf("assigned ID %q is not a UUID", list[0].ID)
	}
}

func TestCreateKeepsClientID(t *testing.T) {
	m := newMediator(t, memory.New(0))
	a := validActivity()
	a.ID = api.NewActivityID()

	if _, err := m.Send(context.Background(), Create{Activity: a}); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := m.Send(context.Background(), Details{ID: a.ID})
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if got.(*api.Activity).Title != a.Title {
		t.Errorf("details = %+v", got)
	}
}

func TestCreateValidationOrder(t *testing.T) {
	m := newMediator(t, memory.New(0))

	_, err := m.Send(context.Background(), Create{Activity: api.Activity{Title: "only a title"}})
	apiErr := requireAPIError(t, err, api.ErrorTypeValidation)

	want := []string{"date", "description", "category", "city", "venue"}
	if len(apiErr.Fields) != len(want) {
		t.Fatalf("fields = %+v, want keys %v", apiErr.Fields, want)
	}
	for i, f := range apiErr.Fields {
		if f.Field != want[i] {
			t.Errorf("fields[%d] = %q, want %q", i, f.Field, want[i])
		}
	}
}

func TestStoreFailuresBecomeBadRequestStrings(t *testing.T) {
	boom := errors.New("disk full")
	base := memory.New(0)
	existing := validActivity()
	existing.ID = api.NewActivityID()
	if err := base.CreateActivity(context.Background(), &existing); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		store *failingStore
		req   transport.Request
		want  string
	}{
		{"create", &failingStore{ActivityStore: base, createErr: boom}, Create{Activity: validActivity()}, "Failed to create activity"},
		{"duplicate create", &failingStore{ActivityStore: base}, Create{Activity: existing}, "Failed to create activity"},
		{"edit", &failingStore{ActivityStore: base, updateErr: boom}, Edit{Activity: existing}, "Failed to update the activity"},
		{"delete", &failingStore{ActivityStore: base, deleteErr: boom}, Delete{ID: existing.ID}, "Failed to delete the activity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newMediator(t, tt.store).Send(context.Background(), tt.req)
			apiErr := requireAPIError(t, err, api.ErrorTypeInvalidRequest)
			if apiErr.Message != tt.want {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.want)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	m := newMediator(t, memory.New(0))
	missing := api.NewActivityID()
	edit := validActivity()
	edit.ID = missing

	for _, req := range []transport.Request{Details{ID: missing}, Edit{Activity: edit}, Delete{ID: missing}} {
		t.Run(req.RequestKind(), func(t *testing.T) {
			_, err := m.Send(context.Background(), req)
			requireAPIError(t, err, api.ErrorTypeNotFound)
		})
	}
}

func TestMalformedIDIsFieldError(t *testing.T) {
	m := newMediator(t, memory.New(0))
	edit := validActivity()
	edit.ID = "abc"

	for _, req := range []transport.Request{Details{ID: "abc"}, Edit{Activity: edit}, Delete{ID: "abc"}} {
		t.Run(req.RequestKind(), func(t *testing.T) {
			_, err := m.Send(context.Background(), req)
			apiErr := requireAPIError(t, err, api.ErrorTypeValidation)
			msgs := apiErr.Fields.Messages()
			if !apiErr.Fields.Has("id") || len(msgs) == 0 || msgs[0] != "The value 'abc' is not valid." {
				t.Errorf("fields = %+v", apiErr.Fields)
			}
		})
	}
}

func TestEditMapsFieldsAndIsRepeatable(t *testing.T) {
	store := memory.New(0)
	m := newMediator(t, store)
	ctx := context.Background()

	a := validActivity()
	a.ID = api.NewActivityID()
	if err := store.CreateActivity(ctx, &a); err != nil {
		t.Fatal(err)
	}

	edited := a
	edited.Title = "Renamed"
	edited.Venue = "Another pub"
	for i := 0; i < 2; i++ {
		if _, err := m.Send(ctx, Edit{Activity: edited}); err != nil {
			t.Fatalf("edit #%d: %v", i+1, err)
		}
	}

	got, _ := store.GetActivity(ctx, a.ID)
	if got.Title != "Renamed" || got.Venue != "Another pub" || got.City != a.City {
		t.Errorf("stored = %+v", got)
	}
}

func TestDeleteRemoves(t *testing.T) {
	store := memory.New(0)
	m := newMediator(t, store)
	ctx := context.Background()

	a := validActivity()
	a.ID = api.NewActivityID()
	store.CreateActivity(ctx, &a)

	if _, err := m.Send(ctx, Delete{ID: a.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetActivity(ctx, a.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestApplyEditKeepsID(t *testing.T) {
	dst := validActivity()
	dst.ID = "keep"
	src := api.Activity{ID: "other", Title: "t", Category: "c"}

	applyEdit(&dst, src)

	if dst.ID != "keep" || dst.Title != "t" || dst.Category != "c" || dst.City != "" {
		t.Errorf("applyEdit result = %+v", dst)
	}
}
