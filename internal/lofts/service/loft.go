package service

import (
	"context"
	"errors"
	"sync"

	loftserrors "loftalgerie/internal/lofts/errors"
	"loftalgerie/internal/lofts/repository"
	"loftalgerie/internal/lofts/validator"
	"loftalgerie/internal/permissions"
	"loftalgerie/pkg/auth"
	"loftalgerie/pkg/clock"
	"loftalgerie/pkg/config"
	apperrors "loftalgerie/pkg/errors"
	"loftalgerie/pkg/events"
	"loftalgerie/pkg/model"
	"loftalgerie/pkg/sanitizer"
)

type LoftService interface {
	Create(ctx context.Context, loft *model.Loft) error
	GetByID(ctx context.Context, id string) (*model.Loft, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Loft, int64, error)
	Search(ctx context.Context, search model.LoftSearch, limit int, offset int64) ([]*model.Loft, int64, error)
	Update(ctx context.Context, id string, updates *model.LoftUpdate) error
	Delete(ctx context.Context, id string) error
}

type loftService struct {
	repo      repository.LoftRepository
	owners    repository.OwnerRepository
	bookings  repository.BookingLookup
	validator *validator.LoftValidator
	publisher events.Publisher
	clock     clock.Clock
	cfg       *config.Config
}

func NewLoftService(
	repo repository.LoftRepository,
	owners repository.OwnerRepository,
	bookings repository.BookingLookup,
	validator *validator.LoftValidator,
	publisher events.Publisher,
	clk clock.Clock,
	cfg *config.Config,
) LoftService {
	return &loftService{
		repo:      repo,
		owners:    owners,
		bookings:  bookings,
		validator: validator,
		publisher: publisher,
		clock:     clk,
		cfg:       cfg,
	}
}

func (s *loftService) Create(ctx context.Context, loft *model.Loft) error {
	p, err := auth.Require(ctx)
	if err != nil {
		return err
	}
	if !permissions.CanManageLofts(p) {
		return apperrors.Forbidden("Only admins and managers can create lofts")
	}

	s.sanitize(loft)
	s.applyDefaults(loft)
	loft.ID = ""

	if err := s.validator.Validate(loft); err != nil {
		s.cfg.Log.Warn("Loft validation failed",
			"name", loft.Name,
			"owner_id", loft.OwnerID,
			"error", err,
		)
		return apperrors.Validation("Loft validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.owners.FindByID(ctx, loft.OwnerID); err != nil {
		return s.mapOwnerError(err, loft.OwnerID)
	}

	if err := s.repo.Create(ctx, loft); err != nil {
		s.cfg.Log.Error("Failed to create loft",
			"name", loft.Name,
			"owner_id", loft.OwnerID,
			"error", err,
		)
		return apperrors.Internal("Failed to create loft", err)
	}

	s.cfg.Log.Info("Loft created successfully",
		"id", loft.ID,
		"name", loft.Name,
		"owner_id", loft.OwnerID,
	)

	event := events.New(ctx, events.LoftCreated, events.TableLofts, loft.ID, model.AuditInsert)
	event.NewValues = events.ToValues(loft)
	s.publish(ctx, event)

	return nil
}

func (s *loftService) GetByID(ctx context.Context, id string) (*model.Loft, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Loft ID cannot be empty")
	}

	loft, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLoftError(err, id, "Failed to retrieve loft")
	}

	if !permissions.InScope(permissions.LoftScope(p), loft.OwnerID, "", "") {
		return nil, apperrors.NotFoundWithID("Loft", id)
	}
	return loft, nil
}

func (s *loftService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Loft, int64, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, 0, err
	}
	scope := permissions.LoftScope(p)
	if scope.Deny {
		return []*model.Loft{}, 0, nil
	}

	return s.list(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.Count(ctx, scope) },
		func(ctx context.Context) ([]*model.Loft, error) { return s.repo.FindAll(ctx, scope, limit, offset) },
	)
}

func (s *loftService) Search(ctx context.Context, search model.LoftSearch, limit int, offset int64) ([]*model.Loft, int64, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, 0, err
	}
	if search.MinGuests < 0 || search.MaxPrice < 0 {
		return nil, 0, apperrors.InvalidInput("min_guests and max_price cannot be negative")
	}
	if search.Status != "" && !validLoftStatus(search.Status) {
		return nil, 0, apperrors.InvalidInput("Unknown loft status: " + search.Status)
	}
	search.City = sanitizer.NormalizeCity(search.City)

	scope := permissions.LoftScope(p)
	if scope.Deny {
		return []*model.Loft{}, 0, nil
	}

	lofts, count, err := s.list(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.CountSearch(ctx, scope, search) },
		func(ctx context.Context) ([]*model.Loft, error) {
			return s.repo.Search(ctx, scope, search, limit, offset)
		},
	)
	if err != nil {
		return nil, 0, err
	}

	s.cfg.Log.Debug("Loft search completed",
		"city", search.City,
		"status", search.Status,
		"results_count", len(lofts),
		"total_count", count,
	)
	return lofts, count, nil
}

func (s *loftService) Update(ctx context.Context, id string, updates *model.LoftUpdate) error {
	p, err := auth.Require(ctx)
	if err != nil {
		return err
	}
	if !permissions.CanManageLofts(p) {
		return apperrors.Forbidden("Only admins and managers can update lofts")
	}
	if id == "" {
		return apperrors.InvalidInput("Loft ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapLoftError(err, id, "Failed to check loft existence")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Loft update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeLoftUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Loft validation failed", "id", id, "error", err)
		return apperrors.Validation("Loft validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, loftserrors.ErrLoftNotFound) {
			return apperrors.NotFoundWithID("Loft", id)
		}
		s.cfg.Log.Error("Failed to update loft", "id", id, "error", err)
		return apperrors.Internal("Failed to update loft", err)
	}

	s.cfg.Log.Info("Loft updated successfully", "id", id, "name", merged.Name)

	event := events.New(ctx, events.LoftUpdated, events.TableLofts, id, model.AuditUpdate)
	event.OldValues = events.ToValues(existing)
	event.NewValues = events.ToValues(merged)
	s.publish(ctx, event)

	return nil
}

func (s *loftService) Delete(ctx context.Context, id string) error {
	p, err := auth.Require(ctx)
	if err != nil {
		return err
	}
	if !permissions.CanManageLofts(p) {
		return apperrors.Forbidden("Only admins and managers can delete lofts")
	}
	if id == "" {
		return apperrors.InvalidInput("Loft ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapLoftError(err, id, "Failed to check loft existence")
	}

	active, err := s.bookings.CountActive(ctx, id, s.clock.Now())
	if err != nil {
		s.cfg.Log.Error("Failed to check active bookings", "id", id, "error", err)
		return apperrors.Internal("Failed to check active bookings", err)
	}
	if active > 0 {
		s.cfg.Log.Warn("Refused to delete loft with active bookings",
			"id", id,
			"active_bookings", active,
		)
		return apperrors.Conflict(loftserrors.ErrActiveBookings.Error()).WithDetails(map[string]any{
			"active_bookings": active,
		})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapLoftError(err, id, "Failed to delete loft")
	}

	s.cfg.Log.Info("Loft deleted successfully", "id", id)

	event := events.New(ctx, events.LoftDeleted, events.TableLofts, id, model.AuditDelete)
	event.OldValues = events.ToValues(existing)
	s.publish(ctx, event)

	return nil
}

// list runs the count and the page query concurrently.
func (s *loftService) list(
	ctx context.Context,
	countFn func(context.Context) (int64, error),
	findFn func(context.Context) ([]*model.Loft, error),
) ([]*model.Loft, int64, error) {
	var count int64
	var lofts []*model.Loft
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = countFn(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count lofts", "error", err)
			errCount = apperrors.Internal("Failed to count lofts", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		lofts, err = findFn(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to list lofts", "error", err)
			errFind = apperrors.Internal("Failed to retrieve lofts", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	if lofts == nil {
		lofts = []*model.Loft{}
	}
	return lofts, count, nil
}

func (s *loftService) publish(ctx context.Context, event events.DomainEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish domain event",
			"type", event.Type,
			"record_id", event.RecordID,
			"error", err,
		)
	}
}

func (s *loftService) sanitize(loft *model.Loft) {
	loft.Name = sanitizer.NormalizeName(loft.Name)
	loft.Address = sanitizer.NormalizeAddress(loft.Address)
	loft.City = sanitizer.NormalizeCity(loft.City)
	loft.Description = sanitizer.NormalizeText(loft.Description)
	loft.Amenities = sanitizer.NormalizeAmenities(loft.Amenities)
}

func (s *loftService) applyDefaults(loft *model.Loft) {
	if loft.Status == "" {
		loft.Status = model.LoftStatusAvailable
	}
	switch {
	case loft.CompanyPercentage == 0 && loft.OwnerPercentage == 0:
		loft.CompanyPercentage = 100
	case loft.OwnerPercentage == 0:
		loft.OwnerPercentage = 100 - loft.CompanyPercentage
	case loft.CompanyPercentage == 0:
		loft.CompanyPercentage = 100 - loft.OwnerPercentage
	}
}

func (s *loftService) mergeLoftUpdates(existing *model.Loft, updates *model.LoftUpdate) *model.Loft {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Address != "" {
		merged.Address = updates.Address
	}
	if updates.City != "" {
		merged.City = updates.City
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.PricePerNight != nil {
		merged.PricePerNight = *updates.PricePerNight
	}
	if updates.CleaningFee != nil {
		merged.CleaningFee = *updates.CleaningFee
	}
	if updates.MaxGuests != nil {
		merged.MaxGuests = *updates.MaxGuests
	}
	if updates.Bedrooms != nil {
		merged.Bedrooms = *updates.Bedrooms
	}
	if updates.Amenities != nil {
		merged.Amenities = *updates.Amenities
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.CompanyPercentage != nil {
		merged.CompanyPercentage = *updates.CompanyPercentage
	}
	if updates.OwnerPercentage != nil {
		merged.OwnerPercentage = *updates.OwnerPercentage
	}

	return &merged
}

func (s *loftService) mapLoftError(err error, id, internalMsg string) error {
	if errors.Is(err, loftserrors.ErrLoftNotFound) {
		return apperrors.NotFoundWithID("Loft", id)
	}
	if errors.Is(err, loftserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid loft ID format")
	}
	s.cfg.Log.Error(internalMsg, "id", id, "error", err)
	return apperrors.Internal(internalMsg, err)
}

func (s *loftService) mapOwnerError(err error, id string) error {
	return mapOwnerError(s.cfg, err, id, "Failed to check owner existence")
}

func validLoftStatus(status string) bool {
	switch status {
	case model.LoftStatusAvailable, model.LoftStatusOccupied, model.LoftStatusMaintenance, model.LoftStatusArchived:
		return true
	}
	return false
}
