package service

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	auditerrors "loftalgerie/internal/audit/errors"
	"loftalgerie/internal/audit/export"
	"loftalgerie/internal/audit/repository"
	"loftalgerie/internal/permissions"
	"loftalgerie/pkg/auth"
	"loftalgerie/pkg/clock"
	"loftalgerie/pkg/config"
	apperrors "loftalgerie/pkg/errors"
	"loftalgerie/pkg/events"
	"loftalgerie/pkg/model"
	"loftalgerie/pkg/storage"

	"github.com/google/uuid"
)

// ExportFile is a rendered export ready to be written to a response.
type ExportFile struct {
	Format      export.Format
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
	Truncated   bool
}

type ArchiveResult struct {
	Key       string `json:"key"`
	Bucket    string `json:"bucket"`
	Rows      int    `json:"rows"`
	Truncated bool   `json:"truncated"`
}

type AuditService interface {
	// Record stores the audit entry for a domain event. Events without a
	// table or action are ignored, as are redeliveries.
	Record(ctx context.Context, event events.DomainEvent) error
	GetByID(ctx context.Context, id string) (*model.AuditLog, error)
	List(ctx context.Context, filter model.AuditFilter, limit int, offset int64) ([]*model.AuditLog, int64, error)
	History(ctx context.Context, table, recordID string) ([]*model.AuditLog, error)
	Export(ctx context.Context, filter model.AuditFilter, format export.Format) (*ExportFile, error)
	Archive(ctx context.Context, filter model.AuditFilter, format export.Format) (*ArchiveResult, error)
}

type auditService struct {
	repo     repository.AuditRepository
	archiver storage.Archiver
	clock    clock.Clock
	cfg      *config.Config
}

// NewAuditService accepts a nil archiver, in which case Archive reports the
// archive as unavailable.
func NewAuditService(
	repo repository.AuditRepository,
	archiver storage.Archiver,
	clk clock.Clock,
	cfg *config.Config,
) AuditService {
	return &auditService{
		repo:     repo,
		archiver: archiver,
		clock:    clk,
		cfg:      cfg,
	}
}

func (s *auditService) Record(ctx context.Context, event events.DomainEvent) error {
	if event.Table == "" || event.Action == "" {
		return nil
	}

	log := &model.AuditLog{
		TableName:     event.Table,
		RecordID:      event.RecordID,
		Action:        event.Action,
		UserID:        event.ActorID,
		UserEmail:     event.ActorEmail,
		OldValues:     event.OldValues,
		NewValues:     event.NewValues,
		ChangedFields: ChangedFields(event.OldValues, event.NewValues),
		Timestamp:     event.OccurredAt,
		IPAddress:     event.IPAddress,
		UserAgent:     event.UserAgent,
		EventID:       event.ID,
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = s.clock.Now()
	}

	if err := s.repo.Insert(ctx, log); err != nil {
		if errors.Is(err, auditerrors.ErrDuplicateEvent) {
			s.cfg.Log.Debug("Audit event already recorded", "event_id", event.ID)
			return nil
		}
		s.cfg.Log.Error("Failed to record audit log", "event_id", event.ID, "table", event.Table, "error", err)
		return err
	}
	return nil
}

func (s *auditService) GetByID(ctx context.Context, id string) (*model.AuditLog, error) {
	if err := s.authorize(ctx, permissions.CanReadAudit); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Audit log ID cannot be empty")
	}

	log, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, auditerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Audit log", id)
		}
		if errors.Is(err, auditerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid audit log ID format")
		}
		s.cfg.Log.Error("Failed to get audit log", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve audit log", err)
	}
	return log, nil
}

func (s *auditService) List(ctx context.Context, filter model.AuditFilter, limit int, offset int64) ([]*model.AuditLog, int64, error) {
	if err := s.authorize(ctx, permissions.CanReadAudit); err != nil {
		return nil, 0, err
	}
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	var count int64
	var logs []*model.AuditLog
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count audit logs", "error", err)
			errCount = apperrors.Internal("Failed to count audit logs", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		logs, err = s.repo.Find(ctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list audit logs", "error", err)
			errFind = apperrors.Internal("Failed to retrieve audit logs", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	if logs == nil {
		logs = []*model.AuditLog{}
	}
	return logs, count, nil
}

func (s *auditService) History(ctx context.Context, table, recordID string) ([]*model.AuditLog, error) {
	if err := s.authorize(ctx, permissions.CanReadAudit); err != nil {
		return nil, err
	}
	table = strings.ToLower(strings.TrimSpace(table))
	recordID = strings.TrimSpace(recordID)
	if table == "" || recordID == "" {
		return nil, apperrors.InvalidInput("Table and record ID are required")
	}

	logs, err := s.repo.History(ctx, table, recordID)
	if err != nil {
		s.cfg.Log.Error("Failed to load record history", "table", table, "record_id", recordID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve record history", err)
	}
	if logs == nil {
		logs = []*model.AuditLog{}
	}
	return logs, nil
}

func (s *auditService) Export(ctx context.Context, filter model.AuditFilter, format export.Format) (*ExportFile, error) {
	p, err := s.exporter(ctx)
	if err != nil {
		return nil, err
	}
	filter, err = normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	logs, truncated, err := s.collect(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	body, err := export.Render(format, logs, truncated, now)
	if err != nil {
		s.cfg.Log.Error("Failed to render audit export", "format", format, "error", err)
		return nil, apperrors.Internal("Failed to render audit export", err)
	}

	s.cfg.Log.Info("Audit logs exported",
		"user_id", p.UserID,
		"format", format,
		"rows", len(logs),
		"truncated", truncated,
	)

	return &ExportFile{
		Format:      format,
		Filename:    export.Filename(format, now),
		ContentType: format.ContentType(),
		Body:        body,
		Rows:        len(logs),
		Truncated:   truncated,
	}, nil
}

func (s *auditService) Archive(ctx context.Context, filter model.AuditFilter, format export.Format) (*ArchiveResult, error) {
	if _, err := s.exporter(ctx); err != nil {
		return nil, err
	}
	if s.archiver == nil {
		return nil, apperrors.Unavailable("Audit archive storage")
	}

	file, err := s.Export(ctx, filter, format)
	if err != nil {
		return nil, err
	}

	key, err := s.archiver.Put(ctx, uuid.NewString()+"."+format.Extension(), file.ContentType, file.Body)
	if err != nil {
		s.cfg.Log.Error("Failed to archive audit export", "bucket", s.archiver.Bucket(), "error", err)
		return nil, apperrors.Unavailable("Audit archive storage")
	}

	s.cfg.Log.Info("Audit export archived", "bucket", s.archiver.Bucket(), "key", key, "rows", file.Rows)
	return &ArchiveResult{
		Key:       key,
		Bucket:    s.archiver.Bucket(),
		Rows:      file.Rows,
		Truncated: file.Truncated,
	}, nil
}

// collect pages through matching logs until the export row cap is reached.
func (s *auditService) collect(ctx context.Context, filter model.AuditFilter) ([]*model.AuditLog, bool, error) {
	maxRows := s.cfg.AuditExportMaxRows
	batch := s.cfg.AuditExportBatchSize
	if batch > maxRows {
		batch = maxRows
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to count audit logs for export", "error", err)
		return nil, false, apperrors.Internal("Failed to count audit logs", err)
	}

	logs := make([]*model.AuditLog, 0)
	var offset int64
	for len(logs) < maxRows {
		limit := batch
		if remaining := maxRows - len(logs); remaining < limit {
			limit = remaining
		}

		page, err := s.repo.Find(ctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to read audit logs for export", "offset", offset, "error", err)
			return nil, false, apperrors.Internal("Failed to retrieve audit logs", err)
		}
		logs = append(logs, page...)
		offset += int64(len(page))

		if len(page) < limit {
			break
		}
	}

	return logs, total > int64(len(logs)), nil
}

func (s *auditService) authorize(ctx context.Context, allowed func(*model.Principal) bool) error {
	p, err := auth.Require(ctx)
	if err != nil {
		return err
	}
	if !allowed(p) {
		return apperrors.Forbidden("Not allowed to read audit logs")
	}
	return nil
}

func (s *auditService) exporter(ctx context.Context) (*model.Principal, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	if !permissions.CanExportAudit(p) {
		return nil, apperrors.Forbidden("Not allowed to export audit logs")
	}
	return p, nil
}

func normalizeFilter(f model.AuditFilter) (model.AuditFilter, error) {
	f.TableName = strings.ToLower(strings.TrimSpace(f.TableName))
	f.RecordID = strings.TrimSpace(f.RecordID)
	f.UserID = strings.TrimSpace(f.UserID)
	f.Action = strings.ToUpper(strings.TrimSpace(f.Action))

	switch f.Action {
	case "", model.AuditInsert, model.AuditUpdate, model.AuditDelete:
	default:
		return f, apperrors.InvalidInput("action must be INSERT, UPDATE or DELETE")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return f, apperrors.InvalidInput("from must not be after to")
	}
	return f, nil
}

// ChangedFields returns the sorted keys whose values differ between old and
// new, counting a key present on one side only as changed.
func ChangedFields(oldValues, newValues map[string]any) []string {
	var changed []string
	for key, oldValue := range oldValues {
		newValue, ok := newValues[key]
		if !ok || !reflect.DeepEqual(oldValue, newValue) {
			changed = append(changed, key)
		}
	}
	for key := range newValues {
		if _, ok := oldValues[key]; !ok {
			changed = append(changed, key)
		}
	}
	sort.Strings(changed)
	return changed
}
