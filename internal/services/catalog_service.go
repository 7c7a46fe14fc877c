package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/lichtwerk/api/internal/domain"
	"github.com/lichtwerk/api/internal/repositories"
)

// ErrDesignNotFound signals an unknown design ID.
var ErrDesignNotFound = errors.New("catalog: design not found")

// staticDesigns is the built-in catalog the storefront falls back to when
// the design repository is empty or unreachable. Synced board designs are
// layered over it by ID.
var staticDesigns = []domain.Design{
	{ID: "schriftzug-klassik", Name: "Schriftzug Klassik", RefWidthCm: 400, RefHeightCm: 200, RefLEDLength: 12, ElementCount: 5, AssetPath: "designs/schriftzug-klassik.svg"},
	{ID: "logo-rund", Name: "Logo Rund", RefWidthCm: 120, RefHeightCm: 120, RefLEDLength: 6, ElementCount: 1, AssetPath: "designs/logo-rund.svg"},
	{ID: "ladenschild-breit", Name: "Ladenschild Breit", RefWidthCm: 300, RefHeightCm: 60, RefLEDLength: 9, ElementCount: 3, AssetPath: "designs/ladenschild-breit.svg"},
	{ID: "neon-schrift", Name: "Neon Schrift", RefWidthCm: 200, RefHeightCm: 80, RefLEDLength: 10, ElementCount: 4, AssetPath: "designs/neon-schrift.svg"},
}

// CatalogService serves the design catalog. The repository is optional;
// without one the service works purely off the static catalog, which keeps
// the configurator usable with Firestore down.
type CatalogService struct {
	repo   repositories.DesignRepository
	logger EventLogger
	now    func() time.Time
}

// CatalogServiceDeps bundles the dependencies for NewCatalogService.
type CatalogServiceDeps struct {
	Designs repositories.DesignRepository
	Logger  EventLogger
	Now     func() time.Time
}

// NewCatalogService returns the catalog service.
func NewCatalogService(deps CatalogServiceDeps) (*CatalogService, error) {
	logger := deps.Logger
	if logger == nil {
		logger = noopEventLogger
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &CatalogService{repo: deps.Designs, logger: logger, now: now}, nil
}

var (
	_ DesignCatalog = (*CatalogService)(nil)
	_ CatalogWriter = (*CatalogService)(nil)
)

// ListDesigns returns the merged catalog sorted by name. Repository
// failures degrade to the static catalog; the storefront never sees an
// empty configurator because the database is down.
func (s *CatalogService) ListDesigns(ctx context.Context) ([]domain.Design, error) {
	merged := make(map[string]domain.Design, len(staticDesigns))
	for _, design := range staticDesigns {
		merged[design.ID] = design
	}

	if s.repo != nil {
		stored, err := s.repo.ListAll(ctx)
		if err != nil {
			s.logger(ctx, "catalog.list.degraded", map[string]any{"error": err.Error()})
		} else {
			for _, design := range stored {
				merged[design.ID] = design
			}
		}
	}

	designs := make([]domain.Design, 0, len(merged))
	for _, design := range merged {
		designs = append(designs, design)
	}
	sort.Slice(designs, func(i, j int) bool { return designs[i].Name < designs[j].Name })
	return designs, nil
}

// GetDesign resolves a single design by ID, preferring the stored version.
func (s *CatalogService) GetDesign(ctx context.Context, designID string) (domain.Design, error) {
	designID = strings.TrimSpace(designID)
	if designID == "" {
		return domain.Design{}, ErrDesignNotFound
	}

	if s.repo != nil {
		design, err := s.repo.FindByID(ctx, designID)
		if err == nil {
			return design, nil
		}
		if !repositories.IsNotFound(err) {
			s.logger(ctx, "catalog.get.degraded", map[string]any{
				"designId": designID,
				"error":    err.Error(),
			})
		}
	}

	for _, design := range staticDesigns {
		if design.ID == designID {
			return design, nil
		}
	}
	return domain.Design{}, ErrDesignNotFound
}

// ReplaceSyncedDesigns upserts the designs captured from board rows during
// a price sync. Invalid designs are skipped, not fatal; a single bad board
// row must not abort the batch.
func (s *CatalogService) ReplaceSyncedDesigns(ctx context.Context, designs []domain.Design) error {
	if s.repo == nil {
		return nil
	}

	now := s.now().UTC()
	var firstErr error
	stored := 0
	for _, design := range designs {
		if !design.Valid() {
			continue
		}
		design.UpdatedAt = now
		if err := s.repo.Upsert(ctx, design); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		stored++
	}

	s.logger(ctx, "catalog.sync.stored", map[string]any{
		"received": len(designs),
		"stored":   stored,
	})
	return firstErr
}
