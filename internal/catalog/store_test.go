package catalog

import (
	"context"
	"errors"
	"testing"
)

func fptr(v float64) *float64 { return &v }

func seedStore(t *testing.T) (*Store, *mockDynamo) {
	t.Helper()
	mock := newMockDynamo()
	s := NewStore(mock, "services")
	return s, mock
}

func TestStore_CreateAssignsIDAndTimestamp(t *testing.T) {
	s, _ := seedStore(t)

	svc, err := s.Create(context.Background(), Service{Name: "Wash & Fold", PricePerItem: fptr(2.50), IsActive: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if svc.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if svc.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be set")
	}

	got, err := s.Get(context.Background(), svc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Name != "Wash & Fold" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestStore_ListActive_FiltersAndSortsByName(t *testing.T) {
	s, _ := seedStore(t)
	ctx := context.Background()

	for _, svc := range []Service{
		{Name: "Ironing", PricePerItem: fptr(3.00), IsActive: true},
		{Name: "Dry Cleaning", PricePerPound: fptr(1.50), IsActive: true},
		{Name: "Alterations", IsActive: false},
		{Name: "Wash & Fold", PricePerItem: fptr(2.50), IsActive: true},
	} {
		if _, err := s.Create(ctx, svc); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	active, err := s.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("expected 3 active services, got %d", len(active))
	}
	want := []string{"Dry Cleaning", "Ironing", "Wash & Fold"}
	for i, name := range want {
		if active[i].Name != name {
			t.Fatalf("sort mismatch at %d: got %s want %s", i, active[i].Name, name)
		}
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 services, got %d", len(all))
	}
}

func TestStore_ArchiveHidesFromActiveButKeepsRecord(t *testing.T) {
	s, _ := seedStore(t)
	ctx := context.Background()

	svc, err := s.Create(ctx, Service{Name: "Wash & Fold", PricePerItem: fptr(2.50), IsActive: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Archive(ctx, svc.ID); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	active, err := s.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("archived service still offered: %+v", active)
	}

	// historical order lines can still resolve the service
	got, err := s.Get(ctx, svc.ID)
	if err != nil || got == nil {
		t.Fatalf("archived service should remain readable: %v %+v", err, got)
	}
	if got.IsActive {
		t.Fatalf("expected isActive=false")
	}
}

func TestStore_Update(t *testing.T) {
	s, _ := seedStore(t)
	ctx := context.Background()

	svc, err := s.Create(ctx, Service{Name: "Wash & Fold", PricePerItem: fptr(2.50), IsActive: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newName := "Wash, Dry & Fold"
	newPrice := 2.75
	if err := s.Update(ctx, svc.ID, Patch{Name: &newName, PricePerItem: &newPrice}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := s.Get(ctx, svc.ID)
	if got.Name != newName {
		t.Fatalf("name not updated: %q", got.Name)
	}
	if got.PricePerItem == nil || *got.PricePerItem != newPrice {
		t.Fatalf("price not updated: %+v", got.PricePerItem)
	}
}

func TestStore_Update_MissingService(t *testing.T) {
	s, _ := seedStore(t)

	name := "Ghost"
	err := s.Update(context.Background(), "missing", Patch{Name: &name})
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestStore_Update_EmptyPatchIsNoop(t *testing.T) {
	s, _ := seedStore(t)

	if err := s.Update(context.Background(), "whatever", Patch{}); err != nil {
		t.Fatalf("empty patch should not touch the store: %v", err)
	}
}
