package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "loftalgerie/internal/bookings/errors"
	"loftalgerie/internal/bookings/repository"
	"loftalgerie/internal/bookings/validator"
	"loftalgerie/internal/permissions"
	"loftalgerie/pkg/auth"
	"loftalgerie/pkg/clock"
	"loftalgerie/pkg/config"
	apperrors "loftalgerie/pkg/errors"
	"loftalgerie/pkg/events"
	"loftalgerie/pkg/locale"
	"loftalgerie/pkg/model"
	"loftalgerie/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// LoftReader is the subset of the lofts service the bookings service reads.
type LoftReader interface {
	GetLoft(ctx context.Context, id string) (*model.Loft, error)
	GetOwner(ctx context.Context, id string) (*model.Owner, error)
}

// ReferenceSealer turns a (booking, loft) pair into an opaque token and back.
type ReferenceSealer interface {
	Seal(first, second string) (string, error)
	Open(token string) (string, string, error)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByReference(ctx context.Context, reference string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Search(ctx context.Context, loftID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
	Availability(ctx context.Context, loftID string, from, to time.Time) (*model.Availability, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) error
	UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
}

var statusTransitions = map[string][]string{
	model.BookingStatusPending:   {model.BookingStatusConfirmed, model.BookingStatusCancelled},
	model.BookingStatusConfirmed: {model.BookingStatusCompleted, model.BookingStatusCancelled},
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	lofts     LoftReader
	sealer    ReferenceSealer
	validator *validator.BookingValidator
	publisher events.Publisher
	clock     clock.Clock
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	lofts LoftReader,
	sealer ReferenceSealer,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	clk clock.Clock,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		lofts:     lofts,
		sealer:    sealer,
		validator: validator,
		publisher: publisher,
		clock:     clk,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	p, err := auth.Require(ctx)
	if err != nil {
		return err
	}
	if !permissions.CanCreateBooking(p) {
		return apperrors.Forbidden("Not allowed to create bookings")
	}
	if p.Role == model.RoleClient || booking.ClientID == "" {
		booking.ClientID = p.UserID
	}

	booking.ID = ""
	booking.Reference = ""
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	loft, err := s.lofts.GetLoft(ctx, booking.LoftID)
	if err != nil {
		return err
	}
	if loft.Status != model.LoftStatusAvailable {
		return apperrors.Conflict(fmt.Sprintf("Loft is not available for booking (status: %s)", loft.Status))
	}
	if err := s.price(booking, loft); err != nil {
		return err
	}

	lockID, err := s.acquireSlotLock(ctx, booking.LoftID, booking.CheckIn)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(context.WithoutCancel(ctx), lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyAvailability(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}

		reference, err := s.sealer.Seal(booking.ID, booking.LoftID)
		if err != nil {
			return apperrors.Internal("Failed to seal booking reference", err)
		}
		if err := s.repo.SetReference(sessCtx, booking.ID, reference); err != nil {
			return apperrors.Internal("Failed to store booking reference", err)
		}
		booking.Reference = reference
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"loft_id", booking.LoftID,
			"check_in", booking.CheckIn,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"loft_id", booking.LoftID,
		"check_in", booking.CheckIn,
		"nights", booking.Nights,
		"total_price", booking.TotalPrice,
	)

	event := events.New(ctx, events.BookingCreated, events.TableBookings, booking.ID, model.AuditInsert)
	event.NewValues = events.ToValues(booking)
	event.Data = map[string]string{
		"loft_id":    booking.LoftID,
		"loft_name":  loft.Name,
		"guest_name": booking.GuestName,
		"check_in":   booking.CheckIn.Format(time.DateOnly),
		"check_out":  booking.CheckOut.Format(time.DateOnly),
		"client_id":  booking.ClientID,
	}
	event.Recipients = []string{booking.ClientID}
	if ownerUserID := s.ownerUserID(ctx, loft.OwnerID); ownerUserID != "" {
		event.Data["owner_user_id"] = ownerUserID
		if ownerUserID != booking.ClientID {
			event.Recipients = append(event.Recipients, ownerUserID)
		}
	}
	s.publish(ctx, event)

	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.find(ctx, id, "Failed to retrieve booking")
	if err != nil {
		return nil, err
	}
	if !inScope(p, booking) {
		return nil, apperrors.NotFoundWithID("Booking", id)
	}
	return booking, nil
}

func (s *bookingService) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	if reference == "" {
		return nil, apperrors.InvalidInput("Booking reference cannot be empty")
	}

	bookingID, loftID, err := s.sealer.Open(reference)
	if err != nil {
		s.cfg.Log.Warn("Rejected booking reference", "error", err)
		return nil, apperrors.InvalidInput("Invalid booking reference")
	}

	booking, err := s.find(ctx, bookingID, "Failed to retrieve booking")
	if err != nil {
		return nil, err
	}
	if booking.LoftID != loftID || !inScope(p, booking) {
		return nil, apperrors.NotFound("Booking")
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, 0, err
	}
	scope := permissions.BookingScope(p)
	if scope.Deny {
		return []*model.Booking{}, 0, nil
	}

	return s.list(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.Count(ctx, scope) },
		func(ctx context.Context) ([]*model.Booking, error) { return s.repo.FindAll(ctx, scope, limit, offset) },
	)
}

func (s *bookingService) Search(ctx context.Context, loftID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, 0, err
	}
	if loftID == "" {
		return nil, 0, apperrors.InvalidInput("loft_id query parameter is required")
	}
	if from != nil && to != nil && !to.After(*from) {
		return nil, 0, apperrors.InvalidInput("'to' must be after 'from'")
	}

	scope := permissions.BookingScope(p)
	if scope.Deny {
		return []*model.Booking{}, 0, nil
	}

	bookings, count, err := s.list(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.CountByLoft(ctx, scope, loftID, from, to) },
		func(ctx context.Context) ([]*model.Booking, error) {
			return s.repo.FindByLoft(ctx, scope, loftID, from, to, limit, offset)
		},
	)
	if err != nil {
		return nil, 0, err
	}

	s.cfg.Log.Debug("Booking search completed",
		"loft_id", loftID,
		"count", len(bookings),
		"total_count", count,
	)
	return bookings, count, nil
}

func (s *bookingService) Availability(ctx context.Context, loftID string, from, to time.Time) (*model.Availability, error) {
	if _, err := auth.Require(ctx); err != nil {
		return nil, err
	}
	if loftID == "" {
		return nil, apperrors.InvalidInput("loft_id query parameter is required")
	}
	from, to = clock.Date(from), clock.Date(to)
	if !to.After(from) {
		return nil, apperrors.InvalidInput("'to' must be after 'from'")
	}

	booked, err := s.repo.FindOverlapping(ctx, loftID, from, to, "")
	if err != nil {
		s.cfg.Log.Error("Failed to check availability", "loft_id", loftID, "error", err)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	ranges := make([]model.DateRange, 0, len(booked))
	for _, b := range booked {
		ranges = append(ranges, model.DateRange{
			CheckIn:   b.CheckIn,
			CheckOut:  b.CheckOut,
			BookingID: b.ID,
		})
	}

	return &model.Availability{
		LoftID:       loftID,
		From:         from,
		To:           to,
		Available:    len(ranges) == 0,
		BookedRanges: ranges,
	}, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) error {
	p, err := auth.Require(ctx)
	if err != nil {
		return err
	}
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.find(ctx, id, "Failed to check booking existence")
	if err != nil {
		return err
	}
	if !inScope(p, existing) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if !permissions.CanEditBooking(p, existing) {
		return apperrors.Forbidden("Not allowed to edit this booking")
	}
	if !existing.Active() {
		return apperrors.Conflict(fmt.Sprintf("%s (status: %s)", bookingserrors.ErrNotEditable, existing.Status))
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeBookingUpdates(existing, updates)
	s.sanitize(merged)

	datesChanged := !merged.CheckIn.Equal(existing.CheckIn) || !merged.CheckOut.Equal(existing.CheckOut)
	if datesChanged {
		if err := s.validate(merged); err != nil {
			return err
		}
	} else if err := s.validator.ValidateFields(merged); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	if datesChanged || merged.GuestCount != existing.GuestCount {
		loft, err := s.lofts.GetLoft(ctx, merged.LoftID)
		if err != nil {
			return err
		}
		if err := s.price(merged, loft); err != nil {
			return err
		}
	}

	if datesChanged {
		lockID, err := s.acquireSlotLock(ctx, merged.LoftID, merged.CheckIn)
		if err != nil {
			return err
		}
		defer func() {
			if releaseErr := s.releaseSlotLock(context.WithoutCancel(ctx), lockID); releaseErr != nil {
				s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
			}
		}()
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if datesChanged {
			if err := s.verifyAvailability(sessCtx, merged); err != nil {
				return err
			}
		}
		if err := s.repo.Update(sessCtx, id, merged); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to update booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id, "dates_changed", datesChanged)

	event := events.New(ctx, events.BookingUpdated, events.TableBookings, id, model.AuditUpdate)
	event.OldValues = events.ToValues(existing)
	event.NewValues = events.ToValues(merged)
	s.publish(ctx, event)

	return nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.Booking, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		s.cfg.Log.Warn("Booking status validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid status update", map[string]any{"error": err.Error()})
	}

	existing, err := s.find(ctx, id, "Failed to check booking existence")
	if err != nil {
		return nil, err
	}
	if !inScope(p, existing) {
		return nil, apperrors.NotFoundWithID("Booking", id)
	}

	// Resending the current status only changes the payment status, which
	// terminal bookings still accept (refunds on cancelled stays).
	statusChanged := update.Status != existing.Status
	if statusChanged && !canTransition(existing.Status, update.Status) {
		return nil, apperrors.Conflict(fmt.Sprintf("%s: %s -> %s",
			bookingserrors.ErrInvalidTransition, existing.Status, update.Status))
	}
	if !permissions.CanChangeBookingStatus(p, existing, update.Status) {
		return nil, apperrors.Forbidden("Not allowed to change the status of this booking")
	}

	if err := s.repo.UpdateStatus(ctx, id, existing.Status, update.Status, update.PaymentStatus); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrStatusChanged) {
			s.cfg.Log.Info("Booking status changed concurrently", "id", id, "from", existing.Status, "to", update.Status)
			return nil, apperrors.Conflict(err.Error())
		}
		s.cfg.Log.Error("Failed to update booking status", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update booking status", err)
	}

	updated := *existing
	updated.Status = update.Status
	if update.PaymentStatus != "" {
		updated.PaymentStatus = update.PaymentStatus
	}
	updated.UpdatedAt = s.clock.Now()

	s.cfg.Log.Info("Booking status updated",
		"id", id,
		"from", existing.Status,
		"to", updated.Status,
		"payment_status", updated.PaymentStatus,
	)

	eventType := events.BookingUpdated
	if statusChanged {
		eventType = events.BookingStatusChanged
	}
	event := events.New(ctx, eventType, events.TableBookings, id, model.AuditUpdate)
	event.OldValues = events.ToValues(existing)
	event.NewValues = events.ToValues(&updated)
	if statusChanged {
		event.Recipients = []string{existing.ClientID}
		event.Data = map[string]string{
			"loft_id":         existing.LoftID,
			"previous_status": existing.Status,
			"status":          updated.Status,
			"check_in":        existing.CheckIn.Format(time.DateOnly),
		}
	}
	s.publish(ctx, event)

	return &updated, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	p, err := auth.Require(ctx)
	if err != nil {
		return err
	}
	if !permissions.CanDeleteBooking(p) {
		return apperrors.Forbidden("Only admins can delete bookings")
	}
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.find(ctx, id, "Failed to check booking existence")
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to delete booking", "id", id, "error", err)
		return apperrors.Internal("Failed to delete booking", err)
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id)

	event := events.New(ctx, events.BookingDeleted, events.TableBookings, id, model.AuditDelete)
	event.OldValues = events.ToValues(existing)
	s.publish(ctx, event)

	return nil
}

// --- Helpers ---

func (s *bookingService) find(ctx context.Context, id, internalMsg string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error(internalMsg, "id", id, "error", err)
		return nil, apperrors.Internal(internalMsg, err)
	}
	return booking, nil
}

func (s *bookingService) list(
	ctx context.Context,
	countFn func(context.Context) (int64, error),
	findFn func(context.Context) ([]*model.Booking, error),
) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = countFn(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = findFn(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", err)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, count, nil
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.GuestName = sanitizer.NormalizeName(b.GuestName)
	b.GuestEmail = sanitizer.NormalizeEmail(b.GuestEmail)
	b.SpecialRequests = sanitizer.NormalizeText(b.SpecialRequests)
	b.CheckIn = clock.Date(b.CheckIn)
	b.CheckOut = clock.Date(b.CheckOut)

	if phone := sanitizer.NormalizePhone(b.GuestPhone); phone != "" {
		b.GuestPhone = phone
		if country := locale.InferCountryFromPhone(phone); country != nil {
			b.GuestCountry = country.Code
		}
	}
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	b.Status = model.BookingStatusPending
	b.PaymentStatus = model.PaymentStatusPending
	b.Currency = s.cfg.DefaultCurrency
}

// price fills the stay totals from the loft's rates and enforces its capacity.
func (s *bookingService) price(b *model.Booking, loft *model.Loft) error {
	if b.GuestCount > loft.MaxGuests {
		return apperrors.Validation("Booking validation failed", map[string]any{
			"error": fmt.Sprintf("guest count (%d) exceeds loft capacity (%d)", b.GuestCount, loft.MaxGuests),
		})
	}
	b.OwnerID = loft.OwnerID
	b.Nights = validator.Nights(b.CheckIn, b.CheckOut)
	b.TotalPrice = int64(b.Nights)*loft.PricePerNight + loft.CleaningFee
	if b.Currency == "" {
		b.Currency = s.cfg.DefaultCurrency
	}
	return nil
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.GuestName != "" {
		merged.GuestName = updates.GuestName
	}
	if updates.GuestEmail != "" {
		merged.GuestEmail = updates.GuestEmail
	}
	if updates.GuestPhone != "" {
		merged.GuestPhone = updates.GuestPhone
	}
	if updates.GuestCount != nil {
		merged.GuestCount = *updates.GuestCount
	}
	if updates.CheckIn != nil {
		merged.CheckIn = *updates.CheckIn
	}
	if updates.CheckOut != nil {
		merged.CheckOut = *updates.CheckOut
	}
	if updates.SpecialRequests != nil {
		merged.SpecialRequests = *updates.SpecialRequests
	}

	return &merged
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking, s.clock.Now()); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "loft_id", booking.LoftID, "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) verifyAvailability(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindOverlapping(ctx, booking.LoftID, booking.CheckIn, booking.CheckOut, booking.ID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.ID == booking.ID {
			continue
		}
		if overlaps(b.CheckIn, b.CheckOut, booking.CheckIn, booking.CheckOut) {
			return apperrors.Conflict(fmt.Sprintf(
				"%s (%s - %s)",
				bookingserrors.ErrDatesOverlap,
				b.CheckIn.Format(time.DateOnly),
				b.CheckOut.Format(time.DateOnly),
			))
		}
	}
	return nil
}

func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

func canTransition(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func inScope(p *model.Principal, b *model.Booking) bool {
	return permissions.InScope(permissions.BookingScope(p), b.OwnerID, b.ClientID, "")
}

// ownerUserID resolves the partner account of a loft owner. Failures only
// cost the partner a notification.
func (s *bookingService) ownerUserID(ctx context.Context, ownerID string) string {
	if ownerID == "" {
		return ""
	}
	owner, err := s.lofts.GetOwner(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Warn("Failed to resolve owner for booking notification", "owner_id", ownerID, "error", err)
		return ""
	}
	return owner.UserID
}

func (s *bookingService) publish(ctx context.Context, event events.DomainEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish domain event",
			"type", event.Type,
			"record_id", event.RecordID,
			"error", err,
		)
	}
}

// acquireSlotLock holds the check-in slot of a loft for BookingLockTTL while
// the overlap check and write run.
func (s *bookingService) acquireSlotLock(ctx context.Context, loftID string, checkIn time.Time) (string, error) {
	now := s.clock.Now()
	lock := &model.BookingLock{
		ID:        repository.LockKey(loftID, checkIn),
		ExpiresAt: now.Add(s.cfg.BookingLockTTL),
		CreatedAt: now,
	}

	if err := s.lockRepo.Acquire(ctx, lock); err != nil {
		if errors.Is(err, bookingserrors.ErrSlotLocked) {
			s.cfg.Log.Info("Booking slot busy", "lock_id", lock.ID)
			return "", apperrors.Conflict(bookingserrors.ErrSlotLocked.Error() + ", please try again")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}
	return lock.ID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Release(ctx, lockID)
}
