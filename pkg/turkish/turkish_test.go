package turkish

import "testing"

func TestLower(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Demir Kılıç", "demir kılıç"},
		{"İKSİR", "iksir"},
		{"ISSIZ", "ıssız"},
		{"ALTIN", "altın"},
		{"Ahmet", "ahmet"},
	}

	for _, tt := range tests {
		if got := Lower(tt.in); got != tt.expected {
			t.Errorf("Lower(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal("Demir Kılıç", "demir kılıç") {
		t.Error("expected Turkish case-insensitive match")
	}
	if !Equal("Şifa İksiri", "şifa iksiri") {
		t.Error("expected dotted capital İ to fold to i")
	}
	if Equal("kılıç", "kilic") {
		t.Error("distinct letters must not match")
	}
}

func TestContains(t *testing.T) {
	if !Contains("Demir Kılıç satın almak istiyorum", "SATIN almak") {
		t.Error("expected case-insensitive substring match")
	}
	if Contains("merhaba", "kılıç") {
		t.Error("unexpected match")
	}
}
