package repositories

import (
	"context"
	"errors"

	"github.com/lichtwerk/api/internal/domain"
	"github.com/lichtwerk/api/internal/platform/pagination"
)

// RepositoryError wraps low-level persistence failures with categorisation
// used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// IsNotFound reports whether the error chain carries a not-found category.
func IsNotFound(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}

// IsConflict reports whether the error chain carries a conflict category.
func IsConflict(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsConflict()
}

// IsUnavailable reports whether the error chain carries an availability
// category.
func IsUnavailable(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsUnavailable()
}

// OrderPage is one page of an order listing with its continuation token.
type OrderPage struct {
	Orders        []domain.Order
	NextPageToken string
}

// OrderRepository persists customer orders across configuration sessions.
type OrderRepository interface {
	Insert(ctx context.Context, order domain.Order) error
	Update(ctx context.Context, order domain.Order) error
	FindByID(ctx context.Context, orderID string) (domain.Order, error)
	List(ctx context.Context, params pagination.Params) (OrderPage, error)
}

// DesignRepository persists the sign design catalog. Designs synced from
// the price board are replaced wholesale; manual designs survive syncs.
type DesignRepository interface {
	Upsert(ctx context.Context, design domain.Design) error
	FindByID(ctx context.Context, designID string) (domain.Design, error)
	ListAll(ctx context.Context) ([]domain.Design, error)
}

// HealthRepository collects dependency health for the readiness endpoint.
type HealthRepository interface {
	Collect(ctx context.Context) (domain.SystemHealthReport, error)
}
