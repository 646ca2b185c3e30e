package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		name string
		in   string
		def  int
		want int
	}{
		{"empty string returns default", "", 7, 7},
		{"valid number parses", "42", 0, 42},
		{"negative number parses", "-13", 0, -13},
		{"zero parses", "0", 9, 0},
		{"garbage returns default", "abc", 5, 5},
		{"float returns default", "3.14", 5, 5},
		{"overflow returns default", "99999999999999999999", 5, 5},
		{"leading space returns default", " 42", 5, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AtoiDefault(tc.in, tc.def); got != tc.want {
				t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.in, tc.def, got, tc.want)
			}
		})
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"in range passes through", 3, 25, 3, 25},
		{"zero page becomes 1", 0, 25, 1, 25},
		{"negative page becomes 1", -4, 25, 1, 25},
		{"zero limit becomes default", 1, 0, 1, 20},
		{"negative limit becomes default", 1, -10, 1, 20},
		{"oversized limit capped at max", 1, 500, 1, 100},
		{"limit at max kept", 1, 100, 1, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, limit := ClampPage(tc.page, tc.limit, 20, 100)
			if page != tc.wantPage || limit != tc.wantLimit {
				t.Fatalf("ClampPage(%d, %d, 20, 100) = (%d, %d); want (%d, %d)",
					tc.page, tc.limit, page, limit, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestDigitsOnly(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"30301", "30301"},
		{"(555) 123-4567", "5551234567"},
		{"+1 555 123 4567", "15551234567"},
		{"no digits here", ""},
	}

	for _, tc := range cases {
		if got := DigitsOnly(tc.in); got != tc.want {
			t.Fatalf("DigitsOnly(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
