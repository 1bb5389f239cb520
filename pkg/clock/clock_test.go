package clock

import (
	"testing"
	"time"
)

func TestFixed(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	c := NewFixed(at)
	if !c.Now().Equal(at) || c.Now().Location() != time.UTC {
		t.Errorf("Now() = %v", c.Now())
	}
}

func TestDate(t *testing.T) {
	in := time.Date(2026, 10, 19, 23, 30, 0, 0, time.FixedZone("CET", 3600))
	want := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	if got := Date(in); !got.Equal(want) {
		t.Errorf("Date(%v) = %v, want %v", in, got, want)
	}

	late := time.Date(2026, 10, 20, 0, 30, 0, 0, time.FixedZone("CET", 3600))
	if got := Date(late); !got.Equal(want) {
		t.Errorf("Date(%v) = %v, want %v", late, got, want)
	}
}
