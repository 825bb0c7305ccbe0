package logger

import "testing"

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hansen Bygg AS", "Ha***"},
		{"ab", "***"},
		{"", "***"},
	}
	for _, tt := range tests {
		if got := Mask(tt.in); got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedactValue(t *testing.T) {
	if got := redactValue("customer_name", "Hansen Bygg AS"); got != "Ha***" {
		t.Errorf("customer field not masked: %q", got)
	}
	if got := redactValue("note", "kontakt post@hansenbygg.no i morgen"); got == "kontakt post@hansenbygg.no i morgen" {
		t.Error("embedded email not masked")
	}
	if got := redactValue("count", "42"); got != "42" {
		t.Errorf("neutral field changed: %q", got)
	}
}
