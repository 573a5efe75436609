// Package memory is an in-process ApplicationRepository used when no
// database is configured and in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
)

// ApplicationRepository keeps snapshots in a map. It follows the same
// optimistic-locking rules as the PostgreSQL repository.
type ApplicationRepository struct {
	mu   sync.RWMutex
	apps map[string]model.LoanApplicationSnapshot
}

var _ port.ApplicationRepository = (*ApplicationRepository)(nil)

func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{apps: make(map[string]model.LoanApplicationSnapshot)}
}

func (r *ApplicationRepository) Save(_ context.Context, app model.LoanApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := app.Snapshot()
	if stored, ok := r.apps[snap.ID]; ok {
		if stored.Version != snap.Version {
			return port.ErrVersionConflict
		}
		snap.Version = stored.Version + 1
		snap.CreatedAt = stored.CreatedAt
	}
	r.apps[snap.ID] = snap
	return nil
}

func (r *ApplicationRepository) FindByID(_ context.Context, id string) (model.LoanApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.apps[id]
	if !ok {
		return model.LoanApplication{}, port.ErrApplicationNotFound
	}
	return model.ReconstructLoanApplication(snap), nil
}

func (r *ApplicationRepository) List(_ context.Context, filter port.ListFilter) ([]model.LoanApplication, int, error) {
	filter = filter.Normalize()

	r.mu.RLock()
	matched := make([]model.LoanApplicationSnapshot, 0, len(r.apps))
	for _, snap := range r.apps {
		if !filter.Status.IsZero() && !snap.ApprovalStatus.Equal(filter.Status) {
			continue
		}
		if filter.UserID != "" && snap.UserID != filter.UserID {
			continue
		}
		matched = append(matched, snap)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	start := min(filter.Offset, total)
	end := min(start+filter.Limit, total)

	page := make([]model.LoanApplication, 0, end-start)
	for _, snap := range matched[start:end] {
		page = append(page, model.ReconstructLoanApplication(snap))
	}
	return page, total, nil
}
