package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/lichtwerk/api/internal/domain"
	pfirestore "github.com/lichtwerk/api/internal/platform/firestore"
	"github.com/lichtwerk/api/internal/repositories"
)

const designsCollection = "designs"

type designDocument struct {
	Name         string    `firestore:"name"`
	RefWidthCm   float64   `firestore:"refWidthCm"`
	RefHeightCm  float64   `firestore:"refHeightCm"`
	RefLEDLength float64   `firestore:"refLedLength"`
	ElementCount int       `firestore:"elementCount"`
	AssetPath    string    `firestore:"assetPath"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

func encodeDesignDocument(design domain.Design) designDocument {
	return designDocument{
		Name:         design.Name,
		RefWidthCm:   design.RefWidthCm,
		RefHeightCm:  design.RefHeightCm,
		RefLEDLength: design.RefLEDLength,
		ElementCount: design.ElementCount,
		AssetPath:    design.AssetPath,
		UpdatedAt:    design.UpdatedAt.UTC(),
	}
}

func decodeDesignDocument(id string, doc designDocument) domain.Design {
	return domain.Design{
		ID:           id,
		Name:         doc.Name,
		RefWidthCm:   doc.RefWidthCm,
		RefHeightCm:  doc.RefHeightCm,
		RefLEDLength: doc.RefLEDLength,
		ElementCount: doc.ElementCount,
		AssetPath:    doc.AssetPath,
		UpdatedAt:    doc.UpdatedAt,
	}
}

// DesignRepository persists the sign design catalog in Firestore.
type DesignRepository struct {
	base *pfirestore.BaseRepository[designDocument]
}

var _ repositories.DesignRepository = (*DesignRepository)(nil)

// NewDesignRepository constructs a Firestore-backed design repository.
func NewDesignRepository(provider *pfirestore.Provider) (*DesignRepository, error) {
	if provider == nil {
		return nil, errors.New("design repository: firestore provider is required")
	}
	base := pfirestore.NewBaseRepository[designDocument](provider, designsCollection, nil, nil)
	return &DesignRepository{base: base}, nil
}

// Upsert stores the design, replacing any previous version. Designs synced
// from the price board overwrite by board item ID.
func (r *DesignRepository) Upsert(ctx context.Context, design domain.Design) error {
	if r == nil || r.base == nil {
		return errors.New("design repository not initialised")
	}
	designID := strings.TrimSpace(design.ID)
	if designID == "" {
		return errors.New("design repository: design id is required")
	}
	if !design.Valid() {
		return errors.New("design repository: design has non-positive reference dimensions")
	}
	if _, err := r.base.Set(ctx, designID, encodeDesignDocument(design)); err != nil {
		return err
	}
	return nil
}

// FindByID fetches a single design.
func (r *DesignRepository) FindByID(ctx context.Context, designID string) (domain.Design, error) {
	if r == nil || r.base == nil {
		return domain.Design{}, errors.New("design repository not initialised")
	}
	designID = strings.TrimSpace(designID)
	if designID == "" {
		return domain.Design{}, errors.New("design repository: design id is required")
	}
	doc, err := r.base.Get(ctx, designID)
	if err != nil {
		return domain.Design{}, err
	}
	return decodeDesignDocument(doc.ID, doc.Data), nil
}

// ListAll returns every catalog design ordered by name. The catalog is
// small, a few dozen templates at most, so no pagination is offered.
func (r *DesignRepository) ListAll(ctx context.Context) ([]domain.Design, error) {
	if r == nil || r.base == nil {
		return nil, errors.New("design repository not initialised")
	}
	docs, err := r.base.Query(ctx, func(query firestore.Query) firestore.Query {
		return query.OrderBy("name", firestore.Asc)
	})
	if err != nil {
		return nil, err
	}
	designs := make([]domain.Design, 0, len(docs))
	for _, doc := range docs {
		designs = append(designs, decodeDesignDocument(doc.ID, doc.Data))
	}
	return designs, nil
}
