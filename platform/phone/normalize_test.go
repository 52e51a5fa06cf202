package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"13800138000", "+8613800138000"},
		{" 138 0013 8000 ", "+8613800138000"},
		{"+8613800138000", "+8613800138000"},
		// Landline with area code.
		{"010-59195000", "+861059195000"},
		// Invalid numbers pass through trimmed.
		{"12345", "12345"},
		{"not a phone", "not a phone"},
		{"  ", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeE164(tc.input); got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
