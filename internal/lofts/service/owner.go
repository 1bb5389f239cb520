package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	loftserrors "loftalgerie/internal/lofts/errors"
	"loftalgerie/internal/lofts/repository"
	"loftalgerie/internal/lofts/validator"
	"loftalgerie/internal/permissions"
	"loftalgerie/pkg/auth"
	"loftalgerie/pkg/config"
	apperrors "loftalgerie/pkg/errors"
	"loftalgerie/pkg/events"
	"loftalgerie/pkg/locale"
	"loftalgerie/pkg/model"
	"loftalgerie/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type OwnerService interface {
	Create(ctx context.Context, owner *model.Owner) error
	GetByID(ctx context.Context, id string) (*model.Owner, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Owner, int64, error)
	Update(ctx context.Context, id string, updates *model.OwnerUpdate) error
	Delete(ctx context.Context, id string) error
	ListLofts(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Loft, int64, error)
	Transfer(ctx context.Context, req *model.TransferRequest) (*model.TransferResult, error)
}

type ownerService struct {
	repo      repository.OwnerRepository
	lofts     repository.LoftRepository
	validator *validator.LoftValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewOwnerService(
	repo repository.OwnerRepository,
	lofts repository.LoftRepository,
	validator *validator.LoftValidator,
	publisher events.Publisher,
	cfg *config.Config,
) OwnerService {
	return &ownerService{
		repo:      repo,
		lofts:     lofts,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *ownerService) Create(ctx context.Context, owner *model.Owner) error {
	p, err := auth.Require(ctx)
	if err != nil {
		return err
	}
	if !permissions.CanManageLofts(p) {
		return apperrors.Forbidden("Only admins and managers can create owners")
	}

	rawPhone := owner.Phone
	s.sanitize(owner)
	owner.ID = ""
	if rawPhone != "" && owner.Phone == "" {
		return apperrors.Validation("Owner validation failed", map[string]any{
			"error": "phone must be a valid DZ or FR number",
		})
	}

	if err := s.validator.ValidateOwner(owner); err != nil {
		s.cfg.Log.Warn("Owner validation failed", "name", owner.Name, "error", err)
		return apperrors.Validation("Owner validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, owner); err != nil {
		s.cfg.Log.Error("Failed to create owner", "name", owner.Name, "error", err)
		return apperrors.Internal("Failed to create owner", err)
	}

	s.cfg.Log.Info("Owner created successfully",
		"id", owner.ID,
		"name", owner.Name,
		"timezone", locale.InferTimezoneFromPhone(owner.Phone),
	)

	event := events.New(ctx, events.OwnerCreated, events.TableOwners, owner.ID, model.AuditInsert)
	event.NewValues = events.ToValues(owner)
	s.publish(ctx, event)
	return nil
}

func (s *ownerService) GetByID(ctx context.Context, id string) (*model.Owner, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}
	if !permissions.CanReadOwners(p, id) {
		return nil, apperrors.NotFoundWithID("Owner", id)
	}

	owner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err, id, "Failed to retrieve owner")
	}
	return owner, nil
}

func (s *ownerService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Owner, int64, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, 0, err
	}

	if !permissions.CanReadOwners(p, "") {
		// Partners only ever see their own owner record.
		if !permissions.CanReadOwners(p, p.OwnerID) {
			return nil, 0, apperrors.Forbidden("Not allowed to list owners")
		}
		owner, err := s.repo.FindByID(ctx, p.OwnerID)
		if err != nil {
			return nil, 0, s.mapError(err, p.OwnerID, "Failed to retrieve owner")
		}
		return []*model.Owner{owner}, 1, nil
	}

	var count int64
	var owners []*model.Owner
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count owners", "error", err)
			errCount = apperrors.Internal("Failed to count owners", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		owners, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list owners", "limit", limit, "offset", offset, "error", err)
			errFind = apperrors.Internal("Failed to retrieve owners", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	if owners == nil {
		owners = []*model.Owner{}
	}
	return owners, count, nil
}

func (s *ownerService) Update(ctx context.Context, id string, updates *model.OwnerUpdate) error {
	p, err := auth.Require(ctx)
	if err != nil {
		return err
	}
	if !permissions.CanManageLofts(p) {
		return apperrors.Forbidden("Only admins and managers can update owners")
	}
	if id == "" {
		return apperrors.InvalidInput("Owner ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapError(err, id, "Failed to check owner existence")
	}

	if err := s.validator.ValidateOwnerUpdate(updates); err != nil {
		s.cfg.Log.Warn("Owner update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeOwnerUpdates(existing, updates)
	rawPhone := merged.Phone
	s.sanitize(merged)
	if rawPhone != "" && merged.Phone == "" {
		return apperrors.Validation("Owner validation failed", map[string]any{
			"error": "phone must be a valid DZ or FR number",
		})
	}
	if err := s.validator.ValidateOwner(merged); err != nil {
		s.cfg.Log.Warn("Owner validation failed", "id", id, "error", err)
		return apperrors.Validation("Owner validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		return s.mapError(err, id, "Failed to update owner")
	}

	s.cfg.Log.Info("Owner updated successfully", "id", id)

	event := events.New(ctx, events.OwnerUpdated, events.TableOwners, id, model.AuditUpdate)
	event.OldValues = events.ToValues(existing)
	event.NewValues = events.ToValues(merged)
	s.publish(ctx, event)
	return nil
}

func (s *ownerService) Delete(ctx context.Context, id string) error {
	p, err := auth.Require(ctx)
	if err != nil {
		return err
	}
	if !permissions.CanManageLofts(p) {
		return apperrors.Forbidden("Only admins and managers can delete owners")
	}
	if id == "" {
		return apperrors.InvalidInput("Owner ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapError(err, id, "Failed to check owner existence")
	}

	held, err := s.lofts.Count(ctx, model.Scope{OwnerID: id})
	if err != nil {
		s.cfg.Log.Error("Failed to count owner lofts", "id", id, "error", err)
		return apperrors.Internal("Failed to count owner lofts", err)
	}
	if held > 0 {
		s.cfg.Log.Warn("Refused to delete owner holding lofts", "id", id, "lofts", held)
		return apperrors.Conflict("Owner still holds lofts; transfer them first").WithDetails(map[string]any{
			"lofts": held,
		})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError(err, id, "Failed to delete owner")
	}

	s.cfg.Log.Info("Owner deleted successfully", "id", id)

	event := events.New(ctx, events.OwnerDeleted, events.TableOwners, id, model.AuditDelete)
	event.OldValues = events.ToValues(existing)
	s.publish(ctx, event)
	return nil
}

func (s *ownerService) ListLofts(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Loft, int64, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, 0, err
	}
	if ownerID == "" {
		return nil, 0, apperrors.InvalidInput("Owner ID cannot be empty")
	}
	if !permissions.CanReadOwners(p, ownerID) {
		return nil, 0, apperrors.NotFoundWithID("Owner", ownerID)
	}

	if _, err := s.repo.FindByID(ctx, ownerID); err != nil {
		return nil, 0, s.mapError(err, ownerID, "Failed to retrieve owner")
	}

	scope := model.Scope{OwnerID: ownerID}
	var count int64
	var lofts []*model.Loft
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.lofts.Count(ctx, scope)
		if err != nil {
			errCount = apperrors.Internal("Failed to count owner lofts", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		lofts, err = s.lofts.FindAll(ctx, scope, limit, offset)
		if err != nil {
			errFind = apperrors.Internal("Failed to retrieve owner lofts", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		s.cfg.Log.Error("Failed to count owner lofts", "owner_id", ownerID, "error", errCount)
		return nil, 0, errCount
	}
	if errFind != nil {
		s.cfg.Log.Error("Failed to list owner lofts", "owner_id", ownerID, "error", errFind)
		return nil, 0, errFind
	}
	if lofts == nil {
		lofts = []*model.Loft{}
	}
	return lofts, count, nil
}

// Transfer moves lofts between owners in one transaction and then notifies
// the receiving owner once per loft. Notification failures are counted in the
// result and never undo the transfer.
func (s *ownerService) Transfer(ctx context.Context, req *model.TransferRequest) (*model.TransferResult, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	if !permissions.CanManageLofts(p) {
		return nil, apperrors.Forbidden("Only admins and managers can transfer lofts")
	}

	req.LoftIDs = sanitizer.NormalizeIDs(req.LoftIDs)
	if err := s.validator.ValidateTransfer(req); err != nil {
		s.cfg.Log.Warn("Transfer validation failed",
			"from_owner_id", req.FromOwnerID,
			"to_owner_id", req.ToOwnerID,
			"error", err,
		)
		return nil, apperrors.Validation("Transfer validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.FindByID(ctx, req.FromOwnerID); err != nil {
		return nil, s.mapError(err, req.FromOwnerID, "Failed to retrieve source owner")
	}
	target, err := s.repo.FindByID(ctx, req.ToOwnerID)
	if err != nil {
		return nil, s.mapError(err, req.ToOwnerID, "Failed to retrieve target owner")
	}

	var moved []string
	err = s.lofts.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		ids := req.LoftIDs
		if len(ids) == 0 {
			held, err := s.lofts.FindIDsByOwner(sessCtx, req.FromOwnerID)
			if err != nil {
				return apperrors.Internal("Failed to list source owner lofts", err)
			}
			ids = held
		}
		if len(ids) == 0 {
			return nil
		}

		modified, err := s.lofts.ReassignOwner(sessCtx, ids, req.FromOwnerID, req.ToOwnerID)
		if err != nil {
			return apperrors.Internal("Failed to transfer lofts", err)
		}
		if modified != int64(len(ids)) {
			return apperrors.Conflict(fmt.Sprintf(
				"%d of %d lofts do not belong to owner %s",
				int64(len(ids))-modified, len(ids), req.FromOwnerID,
			))
		}
		moved = ids
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to transfer lofts",
			"from_owner_id", req.FromOwnerID,
			"to_owner_id", req.ToOwnerID,
			"error", err,
		)
		return nil, err
	}

	result := &model.TransferResult{
		Transferred: len(moved),
		LoftIDs:     moved,
	}
	if result.LoftIDs == nil {
		result.LoftIDs = []string{}
	}

	for _, loftID := range moved {
		event := events.New(ctx, events.LoftTransferred, events.TableLofts, loftID, model.AuditUpdate)
		event.OldValues = map[string]any{"owner_id": req.FromOwnerID}
		event.NewValues = map[string]any{"owner_id": req.ToOwnerID}
		event.Data = map[string]string{
			"from_owner_id": req.FromOwnerID,
			"to_owner_id":   req.ToOwnerID,
		}
		if target.UserID != "" {
			event.Recipients = []string{target.UserID}
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			result.NotificationFailures++
			s.cfg.Log.Warn("Failed to publish transfer event",
				"loft_id", loftID,
				"to_owner_id", req.ToOwnerID,
				"error", err,
			)
		}
	}

	s.cfg.Log.Info("Lofts transferred successfully",
		"from_owner_id", req.FromOwnerID,
		"to_owner_id", req.ToOwnerID,
		"transferred", result.Transferred,
		"notification_failures", result.NotificationFailures,
	)
	return result, nil
}

func (s *ownerService) publish(ctx context.Context, event events.DomainEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish domain event",
			"type", event.Type,
			"record_id", event.RecordID,
			"error", err,
		)
	}
}

func (s *ownerService) sanitize(owner *model.Owner) {
	owner.Name = sanitizer.NormalizeName(owner.Name)
	owner.Email = sanitizer.NormalizeEmail(owner.Email)
	owner.Phone = sanitizer.NormalizePhone(owner.Phone)
	if owner.OwnershipType == "" {
		owner.OwnershipType = model.OwnershipThirdParty
	}
}

func (s *ownerService) mergeOwnerUpdates(existing *model.Owner, updates *model.OwnerUpdate) *model.Owner {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Email != "" {
		merged.Email = updates.Email
	}
	if updates.Phone != "" {
		merged.Phone = updates.Phone
	}
	if updates.OwnershipType != "" {
		merged.OwnershipType = updates.OwnershipType
	}
	if updates.UserID != nil {
		merged.UserID = *updates.UserID
	}
	if updates.CommissionRate != nil {
		merged.CommissionRate = *updates.CommissionRate
	}

	return &merged
}

func (s *ownerService) mapError(err error, id, internalMsg string) error {
	return mapOwnerError(s.cfg, err, id, internalMsg)
}

func mapOwnerError(cfg *config.Config, err error, id, internalMsg string) error {
	if errors.Is(err, loftserrors.ErrOwnerNotFound) {
		return apperrors.NotFoundWithID("Owner", id)
	}
	if errors.Is(err, loftserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid owner ID format")
	}
	cfg.Log.Error(internalMsg, "owner_id", id, "error", err)
	return apperrors.Internal(internalMsg, err)
}
