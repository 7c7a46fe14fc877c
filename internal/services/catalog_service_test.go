package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lichtwerk/api/internal/domain"
)

type memoryDesignRepo struct {
	mu      sync.Mutex
	designs map[string]domain.Design
	listErr error
	findErr error
}

func newMemoryDesignRepo() *memoryDesignRepo {
	return &memoryDesignRepo{designs: map[string]domain.Design{}}
}

func (r *memoryDesignRepo) Upsert(ctx context.Context, design domain.Design) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.designs[design.ID] = design
	return nil
}

func (r *memoryDesignRepo) FindByID(ctx context.Context, designID string) (domain.Design, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return domain.Design{}, r.findErr
	}
	design, ok := r.designs[designID]
	if !ok {
		return domain.Design{}, notFoundErr{}
	}
	return design, nil
}

func (r *memoryDesignRepo) ListAll(ctx context.Context) ([]domain.Design, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	designs := make([]domain.Design, 0, len(r.designs))
	for _, design := range r.designs {
		designs = append(designs, design)
	}
	return designs, nil
}

func TestListDesignsMergesStoredOverStatic(t *testing.T) {
	repo := newMemoryDesignRepo()
	repo.designs["schriftzug-klassik"] = domain.Design{
		ID: "schriftzug-klassik", Name: "Schriftzug Klassik v2",
		RefWidthCm: 400, RefHeightCm: 200, RefLEDLength: 14,
	}
	svc, err := NewCatalogService(CatalogServiceDeps{Designs: repo, Now: fixedClock})
	if err != nil {
		t.Fatalf("NewCatalogService: %v", err)
	}

	designs, err := svc.ListDesigns(context.Background())
	if err != nil {
		t.Fatalf("ListDesigns: %v", err)
	}
	byID := map[string]domain.Design{}
	for _, design := range designs {
		byID[design.ID] = design
	}
	if got := byID["schriftzug-klassik"]; got.RefLEDLength != 14 {
		t.Fatalf("stored design must win: %+v", got)
	}
	if _, ok := byID["logo-rund"]; !ok {
		t.Fatal("static designs missing from the merged catalog")
	}
}

func TestListDesignsDegradesToStatic(t *testing.T) {
	repo := newMemoryDesignRepo()
	repo.listErr = errors.New("firestore down")
	svc, err := NewCatalogService(CatalogServiceDeps{Designs: repo, Now: fixedClock})
	if err != nil {
		t.Fatalf("NewCatalogService: %v", err)
	}

	designs, err := svc.ListDesigns(context.Background())
	if err != nil {
		t.Fatalf("ListDesigns must not fail on repository errors: %v", err)
	}
	if len(designs) != len(staticDesigns) {
		t.Fatalf("designs = %d, want static catalog of %d", len(designs), len(staticDesigns))
	}
}

func TestGetDesignFallsBackToStatic(t *testing.T) {
	svc, err := NewCatalogService(CatalogServiceDeps{Designs: newMemoryDesignRepo(), Now: fixedClock})
	if err != nil {
		t.Fatalf("NewCatalogService: %v", err)
	}

	design, err := svc.GetDesign(context.Background(), "logo-rund")
	if err != nil {
		t.Fatalf("GetDesign: %v", err)
	}
	if design.Name != "Logo Rund" {
		t.Fatalf("design = %+v", design)
	}

	if _, err := svc.GetDesign(context.Background(), "missing"); !errors.Is(err, ErrDesignNotFound) {
		t.Fatalf("err = %v, want ErrDesignNotFound", err)
	}
}

func TestReplaceSyncedDesignsSkipsInvalid(t *testing.T) {
	repo := newMemoryDesignRepo()
	svc, err := NewCatalogService(CatalogServiceDeps{Designs: repo, Now: fixedClock})
	if err != nil {
		t.Fatalf("NewCatalogService: %v", err)
	}

	err = svc.ReplaceSyncedDesigns(context.Background(), []domain.Design{
		{ID: "good", Name: "Good", RefWidthCm: 100, RefHeightCm: 50, RefLEDLength: 5},
		{ID: "bad", Name: "Bad", RefWidthCm: 0, RefHeightCm: 50, RefLEDLength: 5},
	})
	if err != nil {
		t.Fatalf("ReplaceSyncedDesigns: %v", err)
	}
	if _, ok := repo.designs["good"]; !ok {
		t.Fatal("valid design not stored")
	}
	if _, ok := repo.designs["bad"]; ok {
		t.Fatal("invalid design must be skipped")
	}
	if got := repo.designs["good"].UpdatedAt; !got.Equal(fixedTime) {
		t.Fatalf("UpdatedAt = %v, want stamped %v", got, fixedTime)
	}
}
