package discord

import (
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func TestExpiredWorkThreads(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	channels := []*discordgo.Channel{
		{ID: "1", Name: "workthread-gala-01-06-2000", Type: discordgo.ChannelTypeGuildText},
		{ID: "2", Name: "workthread-gala-01-06-2099", Type: discordgo.ChannelTypeGuildText},
		{ID: "3", Name: "workthread-quiz-29-08-2026", Type: discordgo.ChannelTypeGuildText},
		{ID: "4", Name: "workthread-bbq-31-02-2026", Type: discordgo.ChannelTypeGuildText},
		{ID: "5", Name: "general", Type: discordgo.ChannelTypeGuildText},
		{ID: "6", Name: "workthread-voice-01-01-2000", Type: discordgo.ChannelTypeGuildVoice},
	}

	expired, malformed := expiredWorkThreads(channels, now)

	wantExpired := map[string]bool{"1": true, "3": true}
	if len(expired) != len(wantExpired) {
		t.Fatalf("expected %d expired, got %d", len(wantExpired), len(expired))
	}
	for _, ch := range expired {
		if !wantExpired[ch.ID] {
			t.Errorf("unexpected expired channel %s (%s)", ch.ID, ch.Name)
		}
	}

	if len(malformed) != 1 || malformed[0] != "workthread-bbq-31-02-2026" {
		t.Errorf("malformed = %v", malformed)
	}
}

func TestExpiredWorkThreadsSameDayNotExpired(t *testing.T) {
	// Strictly before: a thread dated today (midnight) counts as expired
	// once the day has started, but a future date never does.
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	channels := []*discordgo.Channel{
		{ID: "1", Name: "workthread-gala-30-08-2026", Type: discordgo.ChannelTypeGuildText},
	}
	expired, _ := expiredWorkThreads(channels, now)
	if len(expired) != 0 {
		t.Fatalf("thread dated today at midnight should not be expired at midnight")
	}
}

func TestContainsRole(t *testing.T) {
	roles := []string{"1", "2", "3"}
	if !containsRole(roles, "2") {
		t.Error("expected match on role ID")
	}
	if containsRole(roles, "9") {
		t.Error("unexpected match")
	}
	if containsRole(nil, "1") {
		t.Error("nil role set should never match")
	}
}

func TestRoleIDByName(t *testing.T) {
	guildRoles := []*discordgo.Role{
		{ID: "10", Name: "member"},
		{ID: "20", Name: "staff"},
	}
	if got := roleIDByName(guildRoles, "staff"); got != "20" {
		t.Errorf("roleIDByName = %q, want 20", got)
	}
	if got := roleIDByName(guildRoles, "Staff"); got != "" {
		t.Error("role name match must be exact")
	}
	if got := roleIDByName(guildRoles, "admin"); got != "" {
		t.Errorf("roleIDByName = %q, want empty", got)
	}
}

func TestCheckStaffRejectsWithoutConfiguredRole(t *testing.T) {
	c := &DefaultDiscord{staffRole: ""}
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{Roles: []string{"1"}},
	}}
	if err := c.checkStaff(nil, i); !errors.Is(err, errStaffRoleRequired) {
		t.Fatalf("expected staff-role error, got %v", err)
	}
}

func TestCheckStaffRejectsWithoutMember(t *testing.T) {
	c := &DefaultDiscord{staffRole: "20"}
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}
	if err := c.checkStaff(nil, i); !errors.Is(err, errStaffRoleRequired) {
		t.Fatalf("expected staff-role error, got %v", err)
	}
}

func TestCheckStaffAcceptsRoleID(t *testing.T) {
	c := &DefaultDiscord{staffRole: "20"}
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{Roles: []string{"10", "20"}},
	}}
	if err := c.checkStaff(nil, i); err != nil {
		t.Fatalf("expected ID match to pass, got %v", err)
	}
}

func TestCmdEventsGuardBlocksSideEffects(t *testing.T) {
	// With the guard failing, the handler must return before touching the
	// session or the store.
	c := &DefaultDiscord{staffRole: ""}
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}
	opts := []*discordgo.ApplicationCommandInteractionDataOption{
		{
			Name: "create-event",
			Type: discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "event_name", Type: discordgo.ApplicationCommandOptionString, Value: "Gala"},
				{Name: "date", Type: discordgo.ApplicationCommandOptionString, Value: "01-06-2025"},
				{Name: "time", Type: discordgo.ApplicationCommandOptionString, Value: "10:00-12:00"},
			},
		},
	}

	if err := c.cmdEvents(nil, i, opts); !errors.Is(err, errStaffRoleRequired) {
		t.Fatalf("expected staff-role error, got %v", err)
	}
}
