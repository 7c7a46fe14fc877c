package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/lichtwerk/api/internal/domain"
	pfirestore "github.com/lichtwerk/api/internal/platform/firestore"
	"github.com/lichtwerk/api/internal/platform/pagination"
	"github.com/lichtwerk/api/internal/repositories"
)

const ordersCollection = "orders"

type signDocument struct {
	ID            string  `firestore:"id"`
	DesignID      string  `firestore:"designId"`
	WidthCm       float64 `firestore:"widthCm"`
	HeightCm      float64 `firestore:"heightCm"`
	Waterproof    bool    `firestore:"waterproof"`
	MultiPart     bool    `firestore:"multiPart"`
	UVPrint       bool    `firestore:"uvPrint"`
	HangingSystem bool    `firestore:"hangingSystem"`
	Express       bool    `firestore:"express"`
	Enabled       bool    `firestore:"enabled"`
}

type orderDocument struct {
	Status       string         `firestore:"status"`
	Signs        []signDocument `firestore:"signs"`
	PostalCode   string         `firestore:"postalCode"`
	Pickup       bool           `firestore:"pickup"`
	Installation bool           `firestore:"installation"`
	Confirmed    bool           `firestore:"confirmed"`
	CreatedAt    time.Time      `firestore:"createdAt"`
	UpdatedAt    time.Time      `firestore:"updatedAt"`
}

func encodeOrderDocument(order domain.Order) orderDocument {
	signs := make([]signDocument, 0, len(order.Signs))
	for _, sign := range order.Signs {
		signs = append(signs, signDocument{
			ID:            sign.ID,
			DesignID:      sign.DesignID,
			WidthCm:       sign.WidthCm,
			HeightCm:      sign.HeightCm,
			Waterproof:    sign.Waterproof,
			MultiPart:     sign.MultiPart,
			UVPrint:       sign.UVPrint,
			HangingSystem: sign.HangingSystem,
			Express:       sign.Express,
			Enabled:       sign.Enabled,
		})
	}
	return orderDocument{
		Status:       string(order.Status),
		Signs:        signs,
		PostalCode:   order.PostalCode,
		Pickup:       order.Shipping.Pickup,
		Installation: order.Shipping.Installation,
		Confirmed:    order.Confirmed,
		CreatedAt:    order.CreatedAt.UTC(),
		UpdatedAt:    order.UpdatedAt.UTC(),
	}
}

func decodeOrderDocument(id string, doc orderDocument) domain.Order {
	signs := make([]domain.SignConfiguration, 0, len(doc.Signs))
	for _, sign := range doc.Signs {
		signs = append(signs, domain.SignConfiguration{
			ID:            sign.ID,
			DesignID:      sign.DesignID,
			WidthCm:       sign.WidthCm,
			HeightCm:      sign.HeightCm,
			Waterproof:    sign.Waterproof,
			MultiPart:     sign.MultiPart,
			UVPrint:       sign.UVPrint,
			HangingSystem: sign.HangingSystem,
			Express:       sign.Express,
			Enabled:       sign.Enabled,
		})
	}
	return domain.Order{
		ID:         id,
		Status:     domain.OrderStatus(doc.Status),
		Signs:      signs,
		PostalCode: doc.PostalCode,
		Shipping: domain.ShippingSelection{
			Pickup:       doc.Pickup,
			Installation: doc.Installation,
		},
		Confirmed: doc.Confirmed,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

// OrderRepository persists orders in Firestore.
type OrderRepository struct {
	provider *pfirestore.Provider
	base     *pfirestore.BaseRepository[orderDocument]
}

var _ repositories.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository constructs a Firestore-backed order repository.
func NewOrderRepository(provider *pfirestore.Provider) (*OrderRepository, error) {
	if provider == nil {
		return nil, errors.New("order repository: firestore provider is required")
	}
	base := pfirestore.NewBaseRepository[orderDocument](provider, ordersCollection, nil, nil)
	return &OrderRepository{provider: provider, base: base}, nil
}

// Insert stores a new order document. The ID must be unique.
func (r *OrderRepository) Insert(ctx context.Context, order domain.Order) error {
	if r == nil || r.base == nil {
		return errors.New("order repository not initialised")
	}
	orderID := strings.TrimSpace(order.ID)
	if orderID == "" {
		return errors.New("order repository: order id is required")
	}
	docRef, err := r.base.DocumentRef(ctx, orderID)
	if err != nil {
		return err
	}
	if _, err := docRef.Create(ctx, encodeOrderDocument(order)); err != nil {
		return pfirestore.WrapError("orders.insert", err)
	}
	return nil
}

// Update replaces the persisted order state with the provided snapshot.
// The write runs in a transaction that re-reads the stored document, so a
// concurrent submit cannot be overwritten with stale state.
func (r *OrderRepository) Update(ctx context.Context, order domain.Order) error {
	if r == nil || r.base == nil || r.provider == nil {
		return errors.New("order repository not initialised")
	}
	orderID := strings.TrimSpace(order.ID)
	if orderID == "" {
		return errors.New("order repository: order id is required")
	}

	docRef, err := r.base.DocumentRef(ctx, orderID)
	if err != nil {
		return err
	}
	payload, err := r.base.Encode(ctx, encodeOrderDocument(order))
	if err != nil {
		return pfirestore.WrapError("orders.update", err)
	}

	return r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			return pfirestore.WrapError("orders.update", err)
		}
		stored, err := r.base.Decode(ctx, snap)
		if err != nil {
			return pfirestore.WrapError("orders.update", err)
		}
		if stored.Data.Status == string(domain.OrderSubmitted) {
			return pfirestore.ConflictError("orders.update", errors.New("order already submitted"))
		}
		return tx.Set(docRef, payload)
	})
}

// FindByID fetches a single order.
func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (domain.Order, error) {
	if r == nil || r.base == nil {
		return domain.Order{}, errors.New("order repository not initialised")
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return domain.Order{}, errors.New("order repository: order id is required")
	}
	doc, err := r.base.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	return decodeOrderDocument(doc.ID, doc.Data), nil
}

// List returns orders ordered by most recent update, newest first. The
// cursor carries the boundary updatedAt and document ID.
func (r *OrderRepository) List(ctx context.Context, params pagination.Params) (repositories.OrderPage, error) {
	if r == nil || r.base == nil {
		return repositories.OrderPage{}, errors.New("order repository not initialised")
	}

	limit := params.PageSize
	if limit <= 0 {
		limit = 20
	}

	var startAfter []any
	if len(params.Cursor.StartAfter) > 0 {
		boundaryAt, boundaryID, err := decodeOrderCursor(params.Cursor)
		if err != nil {
			return repositories.OrderPage{}, err
		}
		startAfter = []any{boundaryAt, boundaryID}
	}

	docs, err := r.base.Query(ctx, func(query firestore.Query) firestore.Query {
		q := query.
			OrderBy("updatedAt", firestore.Desc).
			OrderBy(firestore.DocumentID, firestore.Asc).
			Limit(limit + 1)
		if startAfter != nil {
			q = q.StartAfter(startAfter...)
		}
		return q
	})
	if err != nil {
		return repositories.OrderPage{}, err
	}

	page := repositories.OrderPage{
		Orders: make([]domain.Order, 0, min(len(docs), limit)),
	}
	for i, doc := range docs {
		if i == limit {
			boundary := docs[limit-1]
			token, err := encodeOrderCursor(boundary.Data.UpdatedAt, boundary.ID)
			if err != nil {
				return repositories.OrderPage{}, pfirestore.WrapError("orders.list", err)
			}
			page.NextPageToken = token
			break
		}
		page.Orders = append(page.Orders, decodeOrderDocument(doc.ID, doc.Data))
	}
	return page, nil
}

func encodeOrderCursor(updatedAt time.Time, docID string) (string, error) {
	return pagination.EncodeToken(pagination.Cursor{
		StartAfter: []any{updatedAt.UTC().Format(time.RFC3339Nano), docID},
	})
}

// decodeOrderCursor rebuilds the typed boundary values from a decoded page
// token. JSON turns the boundary timestamp into a string, so it must be
// parsed back into a time.Time before Firestore can compare it against the
// updatedAt order field.
func decodeOrderCursor(cursor pagination.Cursor) (time.Time, string, error) {
	if len(cursor.StartAfter) != 2 {
		return time.Time{}, "", fmt.Errorf("%w: unexpected cursor shape", pagination.ErrInvalidPageToken)
	}
	rawAt, ok := cursor.StartAfter[0].(string)
	if !ok {
		return time.Time{}, "", fmt.Errorf("%w: boundary timestamp missing", pagination.ErrInvalidPageToken)
	}
	boundaryAt, err := time.Parse(time.RFC3339Nano, rawAt)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", pagination.ErrInvalidPageToken, err)
	}
	boundaryID, ok := cursor.StartAfter[1].(string)
	if !ok || boundaryID == "" {
		return time.Time{}, "", fmt.Errorf("%w: boundary document id missing", pagination.ErrInvalidPageToken)
	}
	return boundaryAt, boundaryID, nil
}
