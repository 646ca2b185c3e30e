package notify

import (
	"context"
	"strings"
	"testing"

	"github.com/benefitbuddy/go-leads-backend/internal/config"
)

func TestNormalizeUS(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		// already E.164 stays untouched
		{"+15551234567", "+15551234567"},
		{"+447700900123", "+447700900123"},
		// bare 10 digits get +1
		{"5551234567", "+15551234567"},
		{"(555) 123-4567", "+15551234567"},
		// 11 digits with leading 1
		{"15551234567", "+15551234567"},
		{"1-555-123-4567", "+15551234567"},
	}

	for _, tc := range cases {
		if got := NormalizeUS(tc.in); got != tc.want {
			t.Fatalf("NormalizeUS(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestTwilioSMS_Send_RecordedFailures(t *testing.T) {
	ctx := context.Background()

	// missing recipient, regardless of configuration
	configured := NewTwilioSMS(config.TwilioConfig{
		AccountSID: "AC-test",
		AuthToken:  "tok",
		FromNumber: "+15550000000",
	})
	res := configured.Send(ctx, "   ", "hello")
	if res.Success || res.Error != ErrNoRecipient.Error() {
		t.Fatalf("empty recipient result: %+v", res)
	}

	// missing credentials degrade without a network call
	unconfigured := NewTwilioSMS(config.TwilioConfig{})
	res = unconfigured.Send(ctx, "+15551234567", "hello")
	if res.Success || !strings.Contains(res.Error, "not configured") {
		t.Fatalf("unconfigured result: %+v", res)
	}

	// missing from-number is its own recorded failure
	noFrom := NewTwilioSMS(config.TwilioConfig{AccountSID: "AC-test", AuthToken: "tok"})
	res = noFrom.Send(ctx, "+15551234567", "hello")
	if res.Success || !strings.Contains(res.Error, "phone number not configured") {
		t.Fatalf("missing from-number result: %+v", res)
	}
}
