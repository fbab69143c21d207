package twilio

import "testing"

func TestNormalizeWhatsAppHandle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"whatsapp:+971501234567", "whatsapp:+971501234567"},
		{"+971501234567", "whatsapp:+971501234567"},
		{"whatsapp:0501234567", "whatsapp:+971501234567"},
		{"050 123 4567", "whatsapp:+971501234567"},
	}

	for _, tc := range cases {
		if got := normalizeWhatsAppHandle(tc.in); got != tc.want {
			t.Fatalf("normalizeWhatsAppHandle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
