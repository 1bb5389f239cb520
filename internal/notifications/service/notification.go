package service

import (
	"context"
	"errors"
	"sync"

	notificationserrors "loftalgerie/internal/notifications/errors"
	"loftalgerie/internal/notifications/repository"
	"loftalgerie/internal/notifications/validator"
	"loftalgerie/internal/permissions"
	"loftalgerie/pkg/auth"
	"loftalgerie/pkg/cache"
	"loftalgerie/pkg/clock"
	"loftalgerie/pkg/config"
	apperrors "loftalgerie/pkg/errors"
	"loftalgerie/pkg/model"
	"loftalgerie/pkg/sanitizer"
)

type NotificationService interface {
	List(ctx context.Context, unreadOnly bool, limit int, offset int64) ([]*model.Notification, int64, error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
	Broadcast(ctx context.Context, broadcast *model.Broadcast) (int, error)
	// Deliver stores notifications produced by the event consumer. It does not
	// consult the caller's principal.
	Deliver(ctx context.Context, notifications []*model.Notification) error
}

type notificationService struct {
	repo      repository.NotificationRepository
	counters  cache.CounterStore
	validator *validator.NotificationValidator
	clock     clock.Clock
	cfg       *config.Config
}

func NewNotificationService(
	repo repository.NotificationRepository,
	counters cache.CounterStore,
	validator *validator.NotificationValidator,
	clk clock.Clock,
	cfg *config.Config,
) NotificationService {
	return &notificationService{
		repo:      repo,
		counters:  counters,
		validator: validator,
		clock:     clk,
		cfg:       cfg,
	}
}

func (s *notificationService) List(ctx context.Context, unreadOnly bool, limit int, offset int64) ([]*model.Notification, int64, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, 0, err
	}

	var count int64
	var notifications []*model.Notification
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByUser(ctx, p.UserID, unreadOnly)
		if err != nil {
			s.cfg.Log.Error("Failed to count notifications", "user_id", p.UserID, "error", err)
			errCount = apperrors.Internal("Failed to count notifications", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		notifications, err = s.repo.FindByUser(ctx, p.UserID, unreadOnly, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list notifications", "user_id", p.UserID, "error", err)
			errFind = apperrors.Internal("Failed to retrieve notifications", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	if notifications == nil {
		notifications = []*model.Notification{}
	}
	return notifications, count, nil
}

// UnreadCount serves the cached counter and falls back to the database on a
// miss or a cache error. A miss repopulates the counter unless a delivery or
// read touched it while the database was counting.
func (s *notificationService) UnreadCount(ctx context.Context) (int64, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return 0, err
	}

	cached, ok, err := s.counters.Get(ctx, p.UserID)
	if err != nil {
		s.cfg.Log.Warn("Unread counter unavailable, counting from database", "user_id", p.UserID, "error", err)
	} else if ok {
		return cached, nil
	}

	var version int64
	if err == nil {
		if version, err = s.counters.Version(ctx, p.UserID); err != nil {
			s.cfg.Log.Warn("Unread counter version unavailable, not repopulating", "user_id", p.UserID, "error", err)
		}
	}

	count, dbErr := s.repo.CountByUser(ctx, p.UserID, true)
	if dbErr != nil {
		s.cfg.Log.Error("Failed to count unread notifications", "user_id", p.UserID, "error", dbErr)
		return 0, apperrors.Internal("Failed to count unread notifications", dbErr)
	}

	if err == nil {
		filled, fillErr := s.counters.Fill(ctx, p.UserID, count, version)
		if fillErr != nil {
			s.cfg.Log.Warn("Failed to repopulate unread counter", "user_id", p.UserID, "error", fillErr)
		} else if !filled {
			s.cfg.Log.Debug("Unread counter changed during recount, leaving it missing", "user_id", p.UserID)
		}
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	p, err := auth.Require(ctx)
	if err != nil {
		return err
	}
	if id == "" {
		return apperrors.InvalidInput("Notification ID cannot be empty")
	}

	wasUnread, err := s.repo.MarkRead(ctx, id, p.UserID, s.clock.Now())
	if err != nil {
		return s.mapError(err, id, "Failed to mark notification read")
	}

	if wasUnread {
		s.adjustCounter(ctx, p.UserID, -1)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context) (int64, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return 0, err
	}

	updated, err := s.repo.MarkAllRead(ctx, p.UserID, s.clock.Now())
	if err != nil {
		s.cfg.Log.Error("Failed to mark all notifications read", "user_id", p.UserID, "error", err)
		return 0, apperrors.Internal("Failed to mark notifications read", err)
	}

	s.invalidateCounter(ctx, p.UserID)
	s.cfg.Log.Info("Notifications marked read", "user_id", p.UserID, "count", updated)
	return updated, nil
}

func (s *notificationService) Delete(ctx context.Context, id string) error {
	p, err := auth.Require(ctx)
	if err != nil {
		return err
	}
	if id == "" {
		return apperrors.InvalidInput("Notification ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id, p.UserID); err != nil {
		return s.mapError(err, id, "Failed to delete notification")
	}

	s.invalidateCounter(ctx, p.UserID)
	return nil
}

func (s *notificationService) Broadcast(ctx context.Context, broadcast *model.Broadcast) (int, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return 0, err
	}
	if !permissions.CanBroadcast(p) {
		return 0, apperrors.Forbidden("Not allowed to broadcast notifications")
	}

	broadcast.UserIDs = sanitizer.NormalizeIDs(broadcast.UserIDs)
	broadcast.Title = sanitizer.NormalizeName(broadcast.Title)
	broadcast.Message = sanitizer.NormalizeText(broadcast.Message)
	broadcast.Link = sanitizer.NormalizeLink(broadcast.Link)
	if broadcast.Type == "" {
		broadcast.Type = model.NotificationInfo
	}

	if err := s.validator.ValidateBroadcast(broadcast); err != nil {
		s.cfg.Log.Warn("Broadcast validation failed", "error", err)
		return 0, apperrors.Validation("Broadcast validation failed", map[string]any{"error": err.Error()})
	}

	notifications := make([]*model.Notification, 0, len(broadcast.UserIDs))
	for _, userID := range broadcast.UserIDs {
		notifications = append(notifications, &model.Notification{
			UserID:  userID,
			Title:   broadcast.Title,
			Message: broadcast.Message,
			Type:    broadcast.Type,
			Link:    broadcast.Link,
		})
	}

	if err := s.Deliver(ctx, notifications); err != nil {
		return 0, apperrors.Internal("Failed to broadcast notifications", err)
	}

	s.cfg.Log.Info("Broadcast delivered", "sender", p.UserID, "recipients", len(notifications))
	return len(notifications), nil
}

func (s *notificationService) Deliver(ctx context.Context, notifications []*model.Notification) error {
	valid := make([]*model.Notification, 0, len(notifications))
	for _, n := range notifications {
		n.IsRead = false
		n.ReadAt = nil
		if n.CreatedAt.IsZero() {
			n.CreatedAt = s.clock.Now()
		}
		if err := s.validator.Validate(n); err != nil {
			s.cfg.Log.Warn("Skipping invalid notification", "user_id", n.UserID, "title", n.Title, "error", err)
			continue
		}
		valid = append(valid, n)
	}
	if len(valid) == 0 {
		return nil
	}

	stored, err := s.repo.CreateMany(ctx, valid)
	if err != nil {
		s.cfg.Log.Error("Failed to store notifications", "count", len(valid), "error", err)
		return err
	}
	if skipped := len(valid) - len(stored); skipped > 0 {
		s.cfg.Log.Info("Skipped notifications already delivered", "count", skipped)
	}

	for _, n := range stored {
		s.adjustCounter(ctx, n.UserID, 1)
	}
	return nil
}

func (s *notificationService) mapError(err error, id, msg string) error {
	if errors.Is(err, notificationserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Notification", id)
	}
	if errors.Is(err, notificationserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid notification ID format")
	}
	s.cfg.Log.Error(msg, "id", id, "error", err)
	return apperrors.Internal(msg, err)
}

func (s *notificationService) adjustCounter(ctx context.Context, userID string, delta int64) {
	if err := s.counters.Incr(ctx, userID, delta); err != nil {
		s.cfg.Log.Warn("Failed to adjust unread counter, invalidating", "user_id", userID, "error", err)
		s.invalidateCounter(ctx, userID)
	}
}

func (s *notificationService) invalidateCounter(ctx context.Context, userID string) {
	if err := s.counters.Delete(ctx, userID); err != nil {
		s.cfg.Log.Warn("Failed to invalidate unread counter", "user_id", userID, "error", err)
	}
}
