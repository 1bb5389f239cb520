package service

import (
	"context"
	"fmt"
	"time"

	bookingserrors "loftalgerie/internal/bookings/errors"
	mongotx "loftalgerie/pkg/db/mongo"
	apperrors "loftalgerie/pkg/errors"
	"loftalgerie/pkg/events"
	"loftalgerie/pkg/model"
)

type mockBookingRepository struct {
	createFunc          func(ctx context.Context, booking *model.Booking) error
	findByIDFunc        func(ctx context.Context, id string) (*model.Booking, error)
	findAllFunc         func(ctx context.Context, scope model.Scope, limit int, offset int64) ([]*model.Booking, error)
	findOverlappingFunc func(ctx context.Context, loftID string, checkIn, checkOut time.Time, excludeID string) ([]*model.Booking, error)
	updateFunc          func(ctx context.Context, id string, booking *model.Booking) error
	updateStatusFunc    func(ctx context.Context, id, from, status, paymentStatus string) error
	deleteFunc          func(ctx context.Context, id string) error

	references map[string]string
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "507f1f77bcf86cd799439050"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindAll(ctx context.Context, scope model.Scope, limit int, offset int64) ([]*model.Booking, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, scope, limit, offset)
	}
	return nil, nil
}

func (m *mockBookingRepository) Count(ctx context.Context, scope model.Scope) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) FindByLoft(ctx context.Context, scope model.Scope, loftID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, error) {
	return m.FindAll(ctx, scope, limit, offset)
}

func (m *mockBookingRepository) CountByLoft(ctx context.Context, scope model.Scope, loftID string, from, to *time.Time) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) FindOverlapping(ctx context.Context, loftID string, checkIn, checkOut time.Time, excludeID string) ([]*model.Booking, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, loftID, checkIn, checkOut, excludeID)
	}
	return nil, nil
}

func (m *mockBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, booking)
	}
	return nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id, from, status, paymentStatus string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, from, status, paymentStatus)
	}
	return nil
}

func (m *mockBookingRepository) SetReference(ctx context.Context, id, reference string) error {
	if m.references == nil {
		m.references = map[string]string{}
	}
	m.references[id] = reference
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepository struct {
	held     map[string]bool
	released []string
}

func (m *mockLockRepository) Acquire(ctx context.Context, lock *model.BookingLock) error {
	if m.held[lock.ID] {
		return fmt.Errorf("%w: %s", bookingserrors.ErrSlotLocked, lock.ID)
	}
	if m.held == nil {
		m.held = map[string]bool{}
	}
	m.held[lock.ID] = true
	return nil
}

func (m *mockLockRepository) Release(ctx context.Context, lockID string) error {
	delete(m.held, lockID)
	m.released = append(m.released, lockID)
	return nil
}

type mockLoftReader struct {
	lofts  map[string]*model.Loft
	owners map[string]*model.Owner
}

func (m *mockLoftReader) GetLoft(ctx context.Context, id string) (*model.Loft, error) {
	if l, ok := m.lofts[id]; ok {
		return l, nil
	}
	return nil, apperrors.NotFoundWithID("Loft", id)
}

func (m *mockLoftReader) GetOwner(ctx context.Context, id string) (*model.Owner, error) {
	if o, ok := m.owners[id]; ok {
		return o, nil
	}
	return nil, apperrors.NotFoundWithID("Owner", id)
}

type recordingPublisher struct {
	events []events.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.events = append(p.events, event)
	return p.err
}
