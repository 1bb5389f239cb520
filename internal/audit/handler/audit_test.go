package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loftalgerie/internal/audit/export"
	"loftalgerie/internal/audit/service"
	apperrors "loftalgerie/pkg/errors"
	"loftalgerie/pkg/events"
	"loftalgerie/pkg/logger"
	"loftalgerie/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAuditService struct {
	gotFilter  model.AuditFilter
	gotFormat  export.Format
	gotTable   string
	gotRecord  string
	truncated  bool
	archiveErr error
}

func (m *mockAuditService) Record(ctx context.Context, event events.DomainEvent) error { return nil }

func (m *mockAuditService) GetByID(ctx context.Context, id string) (*model.AuditLog, error) {
	if id != "507f1f77bcf86cd799439080" {
		return nil, apperrors.NotFoundWithID("Audit log", id)
	}
	return &model.AuditLog{ID: id, TableName: "lofts", Action: model.AuditInsert}, nil
}

func (m *mockAuditService) List(ctx context.Context, filter model.AuditFilter, limit int, offset int64) ([]*model.AuditLog, int64, error) {
	m.gotFilter = filter
	return []*model.AuditLog{}, 0, nil
}

func (m *mockAuditService) History(ctx context.Context, table, recordID string) ([]*model.AuditLog, error) {
	m.gotTable, m.gotRecord = table, recordID
	return []*model.AuditLog{{ID: "a1"}, {ID: "a2"}}, nil
}

func (m *mockAuditService) Export(ctx context.Context, filter model.AuditFilter, format export.Format) (*service.ExportFile, error) {
	m.gotFilter, m.gotFormat = filter, format
	return &service.ExportFile{
		Format:      format,
		Filename:    "audit-logs-20260510T120000Z." + format.Extension(),
		ContentType: format.ContentType(),
		Body:        []byte("id,timestamp\n"),
		Rows:        0,
		Truncated:   m.truncated,
	}, nil
}

func (m *mockAuditService) Archive(ctx context.Context, filter model.AuditFilter, format export.Format) (*service.ArchiveResult, error) {
	if m.archiveErr != nil {
		return nil, m.archiveErr
	}
	return &service.ArchiveResult{Key: "audit/x." + format.Extension(), Bucket: "bucket", Rows: 4}, nil
}

func serve(svc *mockAuditService, method, target string) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewAuditHandler(svc, logger.Discard()).RegisterRoutes(router)

	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestList_ParsesFilter(t *testing.T) {
	svc := &mockAuditService{}
	w := serve(svc, http.MethodGet, "/api/v1/audit-logs?table=bookings&record_id=b1&action=UPDATE&user_id=u1&from=2026-05-01&to=2026-05-31T23:59:59Z")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bookings", svc.gotFilter.TableName)
	assert.Equal(t, "b1", svc.gotFilter.RecordID)
	assert.Equal(t, "UPDATE", svc.gotFilter.Action)
	assert.Equal(t, "u1", svc.gotFilter.UserID)
	require.NotNil(t, svc.gotFilter.From)
	require.NotNil(t, svc.gotFilter.To)
	assert.True(t, svc.gotFilter.From.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)))
}

func TestList_BadDate(t *testing.T) {
	w := serve(&mockAuditService{}, http.MethodGet, "/api/v1/audit-logs?from=yesterday")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetByID(t *testing.T) {
	w := serve(&mockAuditService{}, http.MethodGet, "/api/v1/audit-logs/id/507f1f77bcf86cd799439080")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(&mockAuditService{}, http.MethodGet, "/api/v1/audit-logs/id/507f1f77bcf86cd799439081")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistory(t *testing.T) {
	svc := &mockAuditService{}
	w := serve(svc, http.MethodGet, "/api/v1/audit-logs/history/bookings/b1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bookings", svc.gotTable)
	assert.Equal(t, "b1", svc.gotRecord)
	assert.Contains(t, w.Body.String(), `"a2"`)
}

func TestExport_Headers(t *testing.T) {
	svc := &mockAuditService{truncated: true}
	w := serve(svc, http.MethodGet, "/api/v1/audit-logs/export?format=xlsx&table=lofts")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.FormatXLSX, svc.gotFormat)
	assert.Equal(t, "lofts", svc.gotFilter.TableName)
	assert.Equal(t, export.FormatXLSX.ContentType(), w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=audit-logs-20260510T120000Z.xlsx", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "true", w.Header().Get(HeaderExportTruncated))
}

func TestExport_DefaultsToCSV(t *testing.T) {
	svc := &mockAuditService{}
	w := serve(svc, http.MethodGet, "/api/v1/audit-logs/export")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.FormatCSV, svc.gotFormat)
	assert.Empty(t, w.Header().Get(HeaderExportTruncated))
	assert.Equal(t, "id,timestamp\n", w.Body.String())
}

func TestExport_UnknownFormat(t *testing.T) {
	w := serve(&mockAuditService{}, http.MethodGet, "/api/v1/audit-logs/export?format=pdf")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestArchive(t *testing.T) {
	w := serve(&mockAuditService{}, http.MethodPost, "/api/v1/audit-logs/export/archive?format=json")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"key":"audit/x.json"`)
	assert.Contains(t, w.Body.String(), `"rows":4`)

	unavailable := &mockAuditService{archiveErr: apperrors.Unavailable("Audit archive storage")}
	w = serve(unavailable, http.MethodPost, "/api/v1/audit-logs/export/archive")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
