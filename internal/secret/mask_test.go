package secret

import (
	"strings"
	"testing"
)

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "abc", want: "***"},
		{in: "abcdef", want: "a****f"},
		{in: "AIzaSyD-0123456789abcdefXYZ", want: "AIz" + strings.Repeat("*", 23) + "Z"},
	}

	for _, tt := range tests {
		if got := Mask(tt.in); got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedact(t *testing.T) {
	key := "AIzaSyD-0123456789abcdefXYZ"
	msg := `Post "https://generativelanguage.googleapis.com/v1beta/models/x:generateContent?key=` + key + `": dial tcp: i/o timeout`

	got := Redact(msg, key)
	if strings.Contains(got, key) {
		t.Errorf("Redact left the secret in %q", got)
	}
	if !strings.Contains(got, "?key="+Mask(key)) {
		t.Errorf("Expected masked key in %q", got)
	}

	escaped := "a+b/c=d&e"
	got = Redact("token=a%2Bb%2Fc%3Dd%26e", escaped)
	if strings.Contains(got, "a%2Bb") {
		t.Errorf("Redact left the escaped secret in %q", got)
	}

	if got := Redact("nothing here", ""); got != "nothing here" {
		t.Errorf("Redact with empty secret changed input: %q", got)
	}
}
