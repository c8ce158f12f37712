package auth

import (
	"testing"

	"github.com/alexedwards/argon2id"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("123456")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "123456" {
		t.Fatalf("hash must not equal password")
	}

	ok, err := Verify("123456", hash)
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}

	ok, err = Verify("654321", hash)
	if err != nil || ok {
		t.Fatalf("expected mismatch, got ok=%v err=%v", ok, err)
	}

	if _, err := Verify("123456", "not-a-hash"); err == nil {
		t.Fatalf("expected error for malformed hash")
	}
}

func TestVerifyEmptyHash(t *testing.T) {
	ok, err := Verify("123456", "")
	if err != nil || ok {
		t.Fatalf("expected ok=false err=nil, got ok=%v err=%v", ok, err)
	}
}

func TestNeedsRehash(t *testing.T) {
	current, err := Hash("123456")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	weak := PasswordParams
	weak.Iterations = 1
	weak.Memory = 16 * 1024
	old, err := argon2id.CreateHash("123456", &weak)
	if err != nil {
		t.Fatalf("weak hash: %v", err)
	}

	tests := []struct {
		name string
		hash string
		want bool
	}{
		{"current params", current, false},
		{"weaker params", old, true},
		{"malformed", "not-a-hash", true},
	}
	for _, tt := range tests {
		if got := NeedsRehash(tt.hash); got != tt.want {
			t.Errorf("%s: NeedsRehash = %v, want %v", tt.name, got, tt.want)
		}
	}

	if ok, err := Verify("123456", old); err != nil || !ok {
		t.Fatalf("old hash must still verify, got ok=%v err=%v", ok, err)
	}
}

func TestNewSessionToken(t *testing.T) {
	raw, hashed, err := NewSessionToken()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if raw == "" || hashed == "" || raw == hashed {
		t.Fatalf("unexpected token pair %q %q", raw, hashed)
	}
	if HashToken(raw) != hashed {
		t.Fatalf("hash mismatch")
	}

	other, _, _ := NewSessionToken()
	if other == raw {
		t.Fatalf("tokens must be unique")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := BearerToken(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BearerToken(%q) = %q, %v", tt.header, got, ok)
		}
	}
}
