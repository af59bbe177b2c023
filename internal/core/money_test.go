package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.345", 1235, true}, // half-up on the third decimal
		{"12.346", 1235, true},
		{"12.344", 1234, true},
		{"0", 0, true}, // explicit zero is allowed
		{"1000", 100000, true},
		{"-5", 0, false},
		{"+5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"1.2.3", 0, false},
	}
	for i, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d (%q): unexpected error %v", i, tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("case %d (%q): got %d want %d", i, tc.in, got, tc.want)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 1234})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "12.34" {
		t.Fatalf("got %s want 12.34", b)
	}

	var m Money
	if err := json.Unmarshal([]byte("1000"), &m); err != nil {
		t.Fatal(err)
	}
	if m.Cents != 100000 {
		t.Fatalf("got %d want 100000", m.Cents)
	}

	// Quoted amounts appear on some endpoints.
	if err := json.Unmarshal([]byte(`"12.34"`), &m); err != nil {
		t.Fatal(err)
	}
	if m.Cents != 1234 {
		t.Fatalf("got %d want 1234", m.Cents)
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1234, "12.34"},
		{-1234, "-12.34"},
	}
	for i, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("case %d: got %q want %q", i, got, tc.want)
		}
	}
}
