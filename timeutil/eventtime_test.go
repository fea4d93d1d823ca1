package timeutil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("01-06-2025")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestParseDateInvalid(t *testing.T) {
	cases := []string{"", "2025-06-01", "32-01-2025", "01/06/2025", "tomorrow"}
	for _, in := range cases {
		if _, err := ParseDate(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestResolveTimeRange(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name          string
		input         string
		wantStart     time.Time
		wantEnd       time.Time
		wantDefaulted bool
	}{
		{
			name:      "full range",
			input:     "10:00-12:00",
			wantStart: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:      "start only defaults end to plus one hour",
			input:     "10:00",
			wantStart: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
		},
		{
			name:      "surrounding whitespace",
			input:     " 09:30 - 11:45 ",
			wantStart: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 6, 1, 11, 45, 0, 0, time.UTC),
		},
		{
			name:          "garbage falls back to midnight",
			input:         "noonish",
			wantStart:     day,
			wantEnd:       day.Add(time.Hour),
			wantDefaulted: true,
		},
		{
			name:          "garbage start keeps parsed end",
			input:         "later-12:00",
			wantStart:     day,
			wantEnd:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			wantDefaulted: true,
		},
		{
			name:          "garbage end falls back to midnight",
			input:         "10:00-whenever",
			wantStart:     time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			wantEnd:       day,
			wantDefaulted: true,
		},
		{
			name:          "empty input",
			input:         "",
			wantStart:     day,
			wantEnd:       day.Add(time.Hour),
			wantDefaulted: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveTimeRange(day, tc.input)
			if !got.Start.Equal(tc.wantStart) {
				t.Errorf("Start = %s, want %s", got.Start, tc.wantStart)
			}
			if !got.End.Equal(tc.wantEnd) {
				t.Errorf("End = %s, want %s", got.End, tc.wantEnd)
			}
			if got.Defaulted != tc.wantDefaulted {
				t.Errorf("Defaulted = %v, want %v", got.Defaulted, tc.wantDefaulted)
			}
		})
	}
}
