package models

import (
	"testing"
	"time"
)

func TestWorkThreadName(t *testing.T) {
	date := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		event string
		want  string
	}{
		{name: "simple", event: "Gala", want: "workthread-gala-01-06-2025"},
		{name: "spaces become dashes", event: "Summer BBQ", want: "workthread-summer-bbq-01-06-2025"},
		{name: "surrounding whitespace", event: "  Quiz Night ", want: "workthread-quiz-night-01-06-2025"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WorkThreadName(tc.event, date); got != tc.want {
				t.Fatalf("WorkThreadName = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEventDescriptorChannelName(t *testing.T) {
	desc := EventDescriptor{
		Name:  "Gala",
		Start: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	if got := desc.ChannelName(); got != "workthread-gala-01-06-2025" {
		t.Fatalf("ChannelName = %q", got)
	}
}

func TestParseWorkThreadDate(t *testing.T) {
	got, err := ParseWorkThreadDate("workthread-gala-01-06-2025")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestParseWorkThreadDateErrors(t *testing.T) {
	cases := []struct {
		name    string
		channel string
	}{
		{name: "not a work thread", channel: "general"},
		{name: "prefix only", channel: "workthread-"},
		{name: "malformed date", channel: "workthread-gala-01-13-20xx"},
		{name: "missing date", channel: "workthread-gala"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseWorkThreadDate(tc.channel); err == nil {
				t.Fatalf("expected error for %q", tc.channel)
			}
		})
	}
}

func TestWorkThreadMarkers(t *testing.T) {
	if !IsWorkThread("workthread-gala-01-06-2025") {
		t.Fatal("expected prefix match")
	}
	if IsWorkThread("old-workthread-gala") {
		t.Fatal("prefix match should anchor at the start")
	}
	if !HasWorkThreadMarker("old-workthread-gala") {
		t.Fatal("contains match should hit anywhere in the name")
	}
	if HasWorkThreadMarker("general") {
		t.Fatal("unexpected contains match")
	}
}
