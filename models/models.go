package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/sa-bots/workthread/timeutil"
)

// workThreadPrefix marks a text channel as an event work thread. The full
// name encodes the event and its date: workthread-<name>-<DD-MM-YYYY>.
const workThreadPrefix = "workthread-"

// EventDescriptor is a transient record built from a create-event
// invocation. It is never persisted; its only purpose is to drive the
// channel and scheduled-event side effects.
type EventDescriptor struct {
	Name      string
	Committee string
	Place     string
	Type      string
	Start     time.Time
	End       time.Time
}

// ChannelName returns the work-thread channel name for the event.
func (e EventDescriptor) ChannelName() string {
	return WorkThreadName(e.Name, e.Start)
}

// WorkThread is a registry entry for a created work-thread channel. The
// channel name remains the authoritative encoding of the event date; this
// record is an index.
type WorkThread struct {
	ChannelID string
	GuildID   string
	EventName string
	EventDate time.Time
}

// WorkThreadName renders the channel name encoding an event and its date.
// The event name is slugged to fit Discord channel-name rules.
func WorkThreadName(event string, date time.Time) string {
	return workThreadPrefix + slug(event) + "-" + date.UTC().Format(timeutil.DateLayout)
}

// IsWorkThread reports whether a channel name starts with the work-thread
// prefix.
func IsWorkThread(name string) bool {
	return strings.HasPrefix(name, workThreadPrefix)
}

// HasWorkThreadMarker reports whether a channel name contains the
// work-thread prefix anywhere. delete-work-thread historically used
// "contains" rather than "starts with" semantics.
func HasWorkThreadMarker(name string) bool {
	return strings.Contains(name, workThreadPrefix)
}

// ParseWorkThreadDate extracts the trailing DD-MM-YYYY suffix from a
// work-thread channel name.
func ParseWorkThreadDate(name string) (time.Time, error) {
	if !IsWorkThread(name) {
		return time.Time{}, fmt.Errorf("channel %q is not a work thread", name)
	}
	if len(name) < len(workThreadPrefix)+len(timeutil.DateLayout) {
		return time.Time{}, fmt.Errorf("channel %q has no date suffix", name)
	}
	suffix := name[len(name)-len(timeutil.DateLayout):]
	date, err := timeutil.ParseDate(suffix)
	if err != nil {
		return time.Time{}, fmt.Errorf("channel %q: %w", name, err)
	}
	return date, nil
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "-")
}
