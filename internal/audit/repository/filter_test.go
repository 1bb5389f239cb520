package repository

import (
	"testing"
	"time"

	"loftalgerie/pkg/model"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildFilter_Empty(t *testing.T) {
	assert.Equal(t, bson.M{}, buildFilter(model.AuditFilter{}))
}

func TestBuildFilter_AllFields(t *testing.T) {
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)

	got := buildFilter(model.AuditFilter{
		TableName: "bookings",
		RecordID:  "b1",
		Action:    model.AuditUpdate,
		UserID:    "u1",
		From:      &from,
		To:        &to,
	})

	assert.Equal(t, bson.M{
		"table_name": "bookings",
		"record_id":  "b1",
		"action":     model.AuditUpdate,
		"user_id":    "u1",
		"timestamp":  bson.M{"$gte": from, "$lte": to},
	}, got)
}

func TestBuildFilter_OpenEndedWindow(t *testing.T) {
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.FixedZone("CET", 3600))

	got := buildFilter(model.AuditFilter{From: &from})
	assert.Equal(t, bson.M{"timestamp": bson.M{"$gte": from.UTC()}}, got)
}
