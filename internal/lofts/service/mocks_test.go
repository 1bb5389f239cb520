package service

import (
	"context"
	"time"

	loftserrors "loftalgerie/internal/lofts/errors"
	mongotx "loftalgerie/pkg/db/mongo"
	"loftalgerie/pkg/events"
	"loftalgerie/pkg/model"
)

// ────────────────────────────────────────────────
// Mock repositories for testing
// ────────────────────────────────────────────────

type mockLoftRepository struct {
	createFunc         func(ctx context.Context, loft *model.Loft) error
	findByIDFunc       func(ctx context.Context, id string) (*model.Loft, error)
	findAllFunc        func(ctx context.Context, scope model.Scope, limit int, offset int64) ([]*model.Loft, error)
	countFunc          func(ctx context.Context, scope model.Scope) (int64, error)
	findIDsByOwnerFunc func(ctx context.Context, ownerID string) ([]string, error)
	updateFunc         func(ctx context.Context, id string, loft *model.Loft) error
	deleteFunc         func(ctx context.Context, id string) error
	reassignFunc       func(ctx context.Context, ids []string, from, to string) (int64, error)
}

func (m *mockLoftRepository) Create(ctx context.Context, loft *model.Loft) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, loft)
	}
	loft.ID = "507f1f77bcf86cd799439099"
	return nil
}

func (m *mockLoftRepository) FindByID(ctx context.Context, id string) (*model.Loft, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, loftserrors.ErrLoftNotFound
}

func (m *mockLoftRepository) FindAll(ctx context.Context, scope model.Scope, limit int, offset int64) ([]*model.Loft, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, scope, limit, offset)
	}
	return []*model.Loft{}, nil
}

func (m *mockLoftRepository) Count(ctx context.Context, scope model.Scope) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, scope)
	}
	return 0, nil
}

func (m *mockLoftRepository) Search(ctx context.Context, scope model.Scope, search model.LoftSearch, limit int, offset int64) ([]*model.Loft, error) {
	return m.FindAll(ctx, scope, limit, offset)
}

func (m *mockLoftRepository) CountSearch(ctx context.Context, scope model.Scope, search model.LoftSearch) (int64, error) {
	return m.Count(ctx, scope)
}

func (m *mockLoftRepository) FindIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	if m.findIDsByOwnerFunc != nil {
		return m.findIDsByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockLoftRepository) Update(ctx context.Context, id string, loft *model.Loft) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, loft)
	}
	return nil
}

func (m *mockLoftRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockLoftRepository) ReassignOwner(ctx context.Context, ids []string, from, to string) (int64, error) {
	if m.reassignFunc != nil {
		return m.reassignFunc(ctx, ids, from, to)
	}
	return int64(len(ids)), nil
}

func (m *mockLoftRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockOwnerRepository struct {
	owners map[string]*model.Owner
}

func (m *mockOwnerRepository) Create(ctx context.Context, owner *model.Owner) error {
	owner.ID = "507f1f77bcf86cd799439088"
	return nil
}

func (m *mockOwnerRepository) FindByID(ctx context.Context, id string) (*model.Owner, error) {
	if o, ok := m.owners[id]; ok {
		return o, nil
	}
	return nil, loftserrors.ErrOwnerNotFound
}

func (m *mockOwnerRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Owner, error) {
	var out []*model.Owner
	for _, o := range m.owners {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOwnerRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.owners)), nil
}

func (m *mockOwnerRepository) Update(ctx context.Context, id string, owner *model.Owner) error {
	return nil
}

func (m *mockOwnerRepository) Delete(ctx context.Context, id string) error {
	return nil
}

type mockBookingLookup struct {
	active int64
	err    error
}

func (m *mockBookingLookup) CountActive(ctx context.Context, loftID string, now time.Time) (int64, error) {
	return m.active, m.err
}

type recordingPublisher struct {
	events []events.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.events = append(p.events, event)
	return p.err
}
