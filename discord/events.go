package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sa-bots/workthread/models"
	"github.com/sa-bots/workthread/timeutil"
)

var errStaffRoleRequired = errors.New("you need the staff role to use this command")

func (c *DefaultDiscord) cmdEvents(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if len(opts) == 0 {
		return fmt.Errorf("missing events subcommand")
	}
	sub := opts[0]

	if err := c.checkStaff(s, i); err != nil {
		return err
	}

	switch sub.Name {
	case "create-event":
		return c.cmdCreateEvent(s, i, sub.Options)
	case "delete-work-thread":
		return c.cmdDeleteWorkThread(s, i)
	case "delete-all-thread":
		return c.cmdDeleteAllThreads(s, i)
	default:
		return fmt.Errorf("unknown events subcommand %q", sub.Name)
	}
}

// checkStaff enforces the staff-role guard: the configured value is tried
// as a role ID first, then as an exact role name.
func (c *DefaultDiscord) checkStaff(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if c.staffRole == "" || i.Member == nil {
		return errStaffRoleRequired
	}
	if containsRole(i.Member.Roles, c.staffRole) {
		return nil
	}

	roles, err := s.GuildRoles(c.guildID)
	if err != nil {
		return fmt.Errorf("look up guild roles: %w", err)
	}
	if id := roleIDByName(roles, c.staffRole); id != "" && containsRole(i.Member.Roles, id) {
		return nil
	}
	return errStaffRoleRequired
}

func containsRole(memberRoles []string, roleID string) bool {
	for _, id := range memberRoles {
		if id == roleID {
			return true
		}
	}
	return false
}

func roleIDByName(guildRoles []*discordgo.Role, name string) string {
	for _, role := range guildRoles {
		if role.Name == name {
			return role.ID
		}
	}
	return ""
}

func (c *DefaultDiscord) cmdCreateEvent(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	day, err := timeutil.ParseDate(optionString(opts, "date"))
	if err != nil {
		return err
	}
	tr := timeutil.ResolveTimeRange(day, optionString(opts, "time"))

	desc := models.EventDescriptor{
		Name:      optionString(opts, "event_name"),
		Committee: optionString(opts, "comitee"),
		Place:     optionString(opts, "place"),
		Type:      optionString(opts, "event_type"),
		Start:     tr.Start,
		End:       tr.End,
	}

	first := fmt.Sprintf("Creating **%s** (%s, %s) at %s on %s, %s-%s.",
		desc.Name, desc.Committee, desc.Type, desc.Place,
		desc.Start.Format(timeutil.DateLayout),
		desc.Start.Format("15:04"), desc.End.Format("15:04"))
	if tr.Defaulted {
		first += "\nWarning: could not parse the time, defaulting to midnight."
	}
	if err := reply(s, i, first); err != nil {
		return err
	}

	// Each sub-step reports its own outcome; a failure in one never stops
	// the other.
	if optionBool(opts, "create_work_thread", true) {
		c.createWorkThread(s, i, desc)
	}
	if optionBool(opts, "create_event", true) {
		c.createScheduledEvent(s, i, desc)
	}
	return nil
}

func (c *DefaultDiscord) createWorkThread(s *discordgo.Session, i *discordgo.InteractionCreate, desc models.EventDescriptor) {
	name := desc.ChannelName()
	ch, err := s.GuildChannelCreateComplex(c.guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: c.categoryID,
	})
	if err != nil {
		c.logger.ErrorW("create work thread", "channel", name, "error", err)
		c.followUpQuiet(s, i, fmt.Sprintf("Could not create work thread `%s`: %v", name, err))
		return
	}

	if c.store != nil {
		wt := models.WorkThread{
			ChannelID: ch.ID,
			GuildID:   c.guildID,
			EventName: desc.Name,
			EventDate: desc.Start,
		}
		if err := c.store.RecordWorkThread(context.Background(), wt); err != nil {
			c.logger.WarnW("record work thread", "channel", ch.ID, "error", err)
		}
	}

	c.followUpQuiet(s, i, fmt.Sprintf("Created work thread <#%s>.", ch.ID))
}

func (c *DefaultDiscord) createScheduledEvent(s *discordgo.Session, i *discordgo.InteractionCreate, desc models.EventDescriptor) {
	params := &discordgo.GuildScheduledEventParams{
		Name:               desc.Name,
		Description:        fmt.Sprintf("%s event organized by %s", desc.Type, desc.Committee),
		ScheduledStartTime: &desc.Start,
		ScheduledEndTime:   &desc.End,
		EntityType:         discordgo.GuildScheduledEventEntityTypeExternal,
		EntityMetadata:     &discordgo.GuildScheduledEventEntityMetadata{Location: desc.Place},
		PrivacyLevel:       discordgo.GuildScheduledEventPrivacyLevelGuildOnly,
	}

	ev, err := s.GuildScheduledEventCreate(c.guildID, params)
	if err != nil {
		c.logger.ErrorW("create scheduled event", "event", desc.Name, "error", err)
		c.followUpQuiet(s, i, fmt.Sprintf("Could not create scheduled event: %v", err))
		return
	}
	c.followUpQuiet(s, i, fmt.Sprintf("Created scheduled event **%s**.", ev.Name))
}

func (c *DefaultDiscord) cmdDeleteWorkThread(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ch, err := s.Channel(i.ChannelID)
	if err != nil {
		return fmt.Errorf("look up channel: %w", err)
	}
	if !models.HasWorkThreadMarker(ch.Name) {
		// Historically no reply is sent outside a work thread.
		return nil
	}

	// Reply before deleting; the interaction's channel disappears with it.
	if err := reply(s, i, fmt.Sprintf("Deleting work thread `%s`.", ch.Name)); err != nil {
		c.logger.WarnW("delete reply failed", "channel", ch.ID, "error", err)
	}

	if _, err := s.ChannelDelete(ch.ID); err != nil {
		return fmt.Errorf("delete channel %s: %w", ch.Name, err)
	}
	c.pruneRecord(ch.ID)
	return nil
}

func (c *DefaultDiscord) cmdDeleteAllThreads(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	channels, err := s.GuildChannels(c.guildID)
	if err != nil {
		return fmt.Errorf("list guild channels: %w", err)
	}

	now := c.clock.Now().UTC()
	expired, malformed := expiredWorkThreads(channels, now)
	for _, name := range malformed {
		c.logger.WarnW("skipping work thread with malformed date", "channel", name)
	}

	if len(expired) == 0 {
		return reply(s, i, "No expired work threads.")
	}

	var deleted []string
	for _, ch := range expired {
		if _, err := s.ChannelDelete(ch.ID); err != nil {
			c.logger.ErrorW("delete work thread", "channel", ch.Name, "error", err)
			continue
		}
		c.pruneRecord(ch.ID)
		deleted = append(deleted, ch.Name)
	}

	if len(deleted) == 0 {
		return reply(s, i, "No work threads were deleted.")
	}
	return reply(s, i, "Deleted work threads:\n- "+strings.Join(deleted, "\n- "))
}

func (c *DefaultDiscord) pruneRecord(channelID string) {
	if c.store == nil {
		return
	}
	if err := c.store.DeleteWorkThread(context.Background(), channelID); err != nil {
		c.logger.WarnW("prune work thread record", "channel", channelID, "error", err)
	}
}

// expiredWorkThreads selects work-thread channels whose trailing date is
// strictly before now. Channels with a malformed trailing date are returned
// separately so the caller can log and skip them.
func expiredWorkThreads(channels []*discordgo.Channel, now time.Time) (expired []*discordgo.Channel, malformed []string) {
	for _, ch := range channels {
		if ch.Type != discordgo.ChannelTypeGuildText || !models.IsWorkThread(ch.Name) {
			continue
		}
		date, err := models.ParseWorkThreadDate(ch.Name)
		if err != nil {
			malformed = append(malformed, ch.Name)
			continue
		}
		if date.Before(now) {
			expired = append(expired, ch)
		}
	}
	return expired, malformed
}
