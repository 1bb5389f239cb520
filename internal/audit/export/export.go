// Package export renders audit logs as downloadable files.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"loftalgerie/pkg/model"

	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"

	SheetName = "Audit Logs"
)

var Columns = []string{
	"id",
	"timestamp",
	"table_name",
	"record_id",
	"action",
	"user_id",
	"user_email",
	"ip_address",
	"changed_fields",
	"old_values",
	"new_values",
}

// ParseFormat defaults to CSV when raw is empty.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q, must be csv, json or xlsx", raw)
}

func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) Extension() string {
	return string(f)
}

// Filename builds audit-logs-<UTC stamp>.<ext>.
func Filename(f Format, at time.Time) string {
	return fmt.Sprintf("audit-logs-%s.%s", at.UTC().Format("20060102T150405Z"), f.Extension())
}

type jsonDocument struct {
	ExportedAt time.Time         `json:"exported_at"`
	Count      int               `json:"count"`
	Truncated  bool              `json:"truncated"`
	Logs       []*model.AuditLog `json:"logs"`
}

func Render(f Format, logs []*model.AuditLog, truncated bool, exportedAt time.Time) ([]byte, error) {
	switch f {
	case FormatCSV:
		return renderCSV(logs)
	case FormatJSON:
		if logs == nil {
			logs = []*model.AuditLog{}
		}
		return json.Marshal(jsonDocument{
			ExportedAt: exportedAt.UTC(),
			Count:      len(logs),
			Truncated:  truncated,
			Logs:       logs,
		})
	case FormatXLSX:
		return renderXLSX(logs)
	}
	return nil, fmt.Errorf("unsupported export format %q", f)
}

// Row flattens a log into the exported column order. Value maps are JSON
// encoded and changed fields joined with ';'.
func Row(l *model.AuditLog) []string {
	return []string{
		l.ID,
		l.Timestamp.UTC().Format(time.RFC3339),
		l.TableName,
		l.RecordID,
		l.Action,
		l.UserID,
		l.UserEmail,
		l.IPAddress,
		strings.Join(l.ChangedFields, ";"),
		encodeValues(l.OldValues),
		encodeValues(l.NewValues),
	}
}

func encodeValues(values map[string]any) string {
	if len(values) == 0 {
		return ""
	}
	data, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(data)
}

func renderCSV(logs []*model.AuditLog) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Columns); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, l := range logs {
		if err := w.Write(Row(l)); err != nil {
			return nil, fmt.Errorf("failed to write csv row %s: %w", l.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func renderXLSX(logs []*model.AuditLog) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range Columns {
		if err := setCell(f, col+1, 1, header); err != nil {
			return nil, err
		}
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, l := range logs {
		for col, value := range Row(l) {
			if value == "" {
				continue
			}
			if err := setCell(f, col+1, i+2, value); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(SheetName, "A", "H", 22); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(SheetName, "I", "K", 48); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header row: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}
