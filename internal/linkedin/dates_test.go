package linkedin

import (
	"testing"
	"time"
)

func TestParseDate_DayMonthYear(t *testing.T) {
	got := ParseDate("12 Jan 2024")
	if got == nil {
		t.Fatal("expected a date, got nil")
	}
	want := time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseDate_SingleDigitDay(t *testing.T) {
	got := ParseDate("2 Mar 2019")
	if got == nil {
		t.Fatal("expected a date, got nil")
	}
	if got.Day() != 2 || got.Month() != time.March || got.Year() != 2019 {
		t.Errorf("got %v", got)
	}
}

func TestParseDate_ISOWithUTCSuffix(t *testing.T) {
	got := ParseDate("2024-01-12 08:30:45 UTC")
	if got == nil {
		t.Fatal("expected a date, got nil")
	}
	want := time.Date(2024, time.January, 12, 8, 30, 45, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseDate_ISODateOnly(t *testing.T) {
	got := ParseDate("2023-07-04")
	if got == nil {
		t.Fatal("expected a date, got nil")
	}
	if got.Year() != 2023 || got.Month() != time.July || got.Day() != 4 {
		t.Errorf("got %v", got)
	}
}

func TestParseDate_Unrecognised(t *testing.T) {
	for _, raw := range []string{"", "   ", "January 12, 2024", "12/01/2024", "not a date"} {
		if got := ParseDate(raw); got != nil {
			t.Errorf("expected nil for %q, got %v", raw, got)
		}
	}
}
