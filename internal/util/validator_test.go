package util

import "testing"

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		ok    bool
	}{
		{"joao@industriaabc.com", true},
		{"", false},
		{"   ", false},
		{"sem-arroba", false},
		{"Nome <nome@empresa.com>", false},
	}
	for _, tc := range cases {
		err := ValidateEmail(tc.email)
		if (err == nil) != tc.ok {
			t.Fatalf("ValidateEmail(%q): expected ok=%v got err=%v", tc.email, tc.ok, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("12345"); err == nil {
		t.Fatalf("expected error for short password")
	}
	if err := ValidatePassword("123456"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidatePassword(""); err == nil || err.Error() != "Senha é obrigatória" {
		t.Fatalf("expected required message, got %v", err)
	}
}

func TestTrimPtr(t *testing.T) {
	blank := "   "
	if TrimPtr(&blank) != nil {
		t.Fatalf("expected nil for blank string")
	}
	value := "  Mesa 15 "
	got := TrimPtr(&value)
	if got == nil || *got != "Mesa 15" {
		t.Fatalf("unexpected trim result: %v", got)
	}
	if TrimPtr(nil) != nil {
		t.Fatalf("expected nil passthrough")
	}
}
