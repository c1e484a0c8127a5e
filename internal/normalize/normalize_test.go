package normalize

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Category 1", "category 1"},
		{"  CategoRy 1 ", "category 1"},
		{"\n\rItem 1\t", "item 1"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Key(tt.input); got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	if !Equal(" ITEM 1\n", "item 1") {
		t.Error("expected case and whitespace variants to be equal")
	}
	if Equal("Item 1", "Item 2") {
		t.Error("expected different names to differ")
	}
	if Equal("Item1", "Item 1") {
		t.Error("inner whitespace must be significant")
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"test@test.com", "test@test.com"},
		{" test@tesT.com", "test@test.com"},
		{"\tUSER@EXAMPLE.COM\n", "user@example.com"},
	}

	for _, tt := range tests {
		if got := Email(tt.input); got != tt.want {
			t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEmailMatchesKey(t *testing.T) {
	for _, s := range []string{" Test@Test.com", "USER@example.COM\n", ""} {
		if Email(s) != Key(s) {
			t.Errorf("Email(%q) = %q, Key = %q", s, Email(s), Key(s))
		}
	}
}
