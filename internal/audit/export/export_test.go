package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"loftalgerie/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var stamp = time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)

func sampleLogs() []*model.AuditLog {
	return []*model.AuditLog{
		{
			ID:            "a1",
			TableName:     "bookings",
			RecordID:      "b1",
			Action:        model.AuditUpdate,
			UserID:        "user-manager",
			UserEmail:     "ops@loftalgerie.dz",
			IPAddress:     "41.100.1.2",
			OldValues:     map[string]any{"status": "pending"},
			NewValues:     map[string]any{"status": "confirmed"},
			ChangedFields: []string{"status", "updated_at"},
			Timestamp:     stamp,
			EventID:       "e1",
		},
		{
			ID:        "a2",
			TableName: "lofts",
			RecordID:  "l1",
			Action:    model.AuditInsert,
			Timestamp: stamp.Add(time.Minute),
			EventID:   "e2",
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{"json", FormatJSON, false},
		{" xlsx ", FormatXLSX, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "audit-logs-20260510T093000Z.xlsx", Filename(FormatXLSX, stamp))
}

func TestRenderCSV(t *testing.T) {
	data, err := Render(FormatCSV, sampleLogs(), false, stamp)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Columns, records[0])
	assert.Equal(t, "2026-05-10T09:30:00Z", records[1][1])
	assert.Equal(t, "status;updated_at", records[1][8])
	assert.JSONEq(t, `{"status":"pending"}`, records[1][9])
	assert.Equal(t, "", records[2][9])
}

func TestRenderJSON(t *testing.T) {
	data, err := Render(FormatJSON, sampleLogs(), true, stamp)
	require.NoError(t, err)

	var doc struct {
		ExportedAt time.Time        `json:"exported_at"`
		Count      int              `json:"count"`
		Truncated  bool             `json:"truncated"`
		Logs       []map[string]any `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 2, doc.Count)
	assert.True(t, doc.Truncated)
	assert.True(t, doc.ExportedAt.Equal(stamp))
	assert.Equal(t, "a1", doc.Logs[0]["id"])
}

func TestRenderJSON_EmptyIsArray(t *testing.T) {
	data, err := Render(FormatJSON, nil, false, stamp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"logs":[]`)
}

func TestRenderXLSX(t *testing.T) {
	data, err := Render(FormatXLSX, sampleLogs(), false, stamp)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "bookings", rows[1][2])

	styleID, err := f.GetCellStyle(SheetName, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	panes, err := f.GetPanes(SheetName)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
}
