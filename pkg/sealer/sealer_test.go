package sealer

import (
	"errors"
	"testing"
)

func TestSealOpen(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	token, err := s.Seal("booking-1", "loft-2")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	first, second, err := s.Open(token)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if first != "booking-1" || second != "loft-2" {
		t.Errorf("got (%q, %q)", first, second)
	}
}

func TestOpen_Tampered(t *testing.T) {
	s, _ := New(DevelopmentKey)
	token, _ := s.Seal("a", "b")

	tampered := []byte(token)
	if tampered[len(tampered)-1] == 'A' {
		tampered[len(tampered)-1] = 'B'
	} else {
		tampered[len(tampered)-1] = 'A'
	}

	tests := []string{string(tampered), "", "!!!", "c2hvcnQ"}
	for _, tok := range tests {
		if _, _, err := s.Open(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Open(%q) err = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestOpen_WrongKey(t *testing.T) {
	a, _ := New(DevelopmentKey)
	b, _ := New("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=")

	token, _ := a.Seal("x", "y")
	if _, _, err := b.Open(token); err == nil {
		t.Error("expected error opening token sealed with another key")
	}
}

func TestNew_BadKey(t *testing.T) {
	if _, err := New("not base64!"); err == nil {
		t.Error("expected error for invalid key")
	}
	if _, err := New("c2hvcnQ="); err == nil {
		t.Error("expected error for short key")
	}
}
