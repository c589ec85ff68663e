package utils

import "testing"

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		phone string
		valid bool
	}{
		{"+573001112233", true},
		{"3001112233", true},
		{"+1 (415) 555-0132", true},
		{"300 111 2233", true},
		{"", false},
		{"abc", false},
		{"+0123", false},
		{"+57300111223344556", false},
	}

	for _, tc := range cases {
		if got := ValidatePhone(tc.phone); got != tc.valid {
			t.Errorf("ValidatePhone(%q) = %v, want %v", tc.phone, got, tc.valid)
		}
	}
}

func TestValidatePlate(t *testing.T) {
	cases := []struct {
		plate string
		valid bool
	}{
		{"ABC12D", true},
		{"abc 12d", true},
		{"AAA-111", true},
		{"XY", false},
		{"", false},
		{"ABC12345D", false},
		{"AB!12", false},
	}

	for _, tc := range cases {
		if got := ValidatePlate(tc.plate); got != tc.valid {
			t.Errorf("ValidatePlate(%q) = %v, want %v", tc.plate, got, tc.valid)
		}
	}
}
