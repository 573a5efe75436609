package port

import (
	"context"
	"errors"

	"github.com/bibbank/loan-decision-service/internal/domain/event"
	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

var (
	ErrApplicationNotFound = errors.New("loan application not found")
	ErrVersionConflict     = errors.New("optimistic locking conflict on loan application")
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// ListFilter narrows a listing. A zero Status or empty UserID means no filter.
type ListFilter struct {
	Status valueobject.ApprovalStatus
	UserID string
	Limit  int
	Offset int
}

// Normalize applies the default and maximum page size and clamps a negative offset.
func (f ListFilter) Normalize() ListFilter {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultListLimit
	case f.Limit > MaxListLimit:
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// ApplicationRepository persists and retrieves loan applications.
type ApplicationRepository interface {
	// Save inserts a new application or updates an existing one, failing with
	// ErrVersionConflict when the stored version moved on.
	Save(ctx context.Context, app model.LoanApplication) error

	// FindByID returns ErrApplicationNotFound when no application has the id.
	FindByID(ctx context.Context, id string) (model.LoanApplication, error)

	// List returns one page ordered by creation time, newest first, plus the
	// total number of applications matching the filter.
	List(ctx context.Context, filter ListFilter) ([]model.LoanApplication, int, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
