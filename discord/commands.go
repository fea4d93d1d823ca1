package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// commandSchemas builds the full slash-command surface. The create-event
// choice lists come from the guild configuration.
func (c *DefaultDiscord) commandSchemas() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Check bot latency",
		},
		{
			Name:        "echo",
			Description: "Echo back your message",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "The message to echo",
					Required:    true,
				},
			},
		},
		{
			Name:        "add",
			Description: "Add two integers",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "a",
					Description: "First integer",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "b",
					Description: "Second integer",
					Required:    true,
				},
			},
		},
		{
			Name:        "math",
			Description: "Math utilities",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "multiply",
					Description: "Multiply two numbers",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionNumber,
							Name:        "a",
							Description: "First number",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionNumber,
							Name:        "b",
							Description: "Second number",
							Required:    true,
						},
					},
				},
			},
		},
		{
			Name:        "events",
			Description: "Event management",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create-event",
					Description: "Create an event with an optional work thread and scheduled event",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "event_name",
							Description: "Name of the event",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "date",
							Description: "Event date (DD-MM-YYYY)",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "time",
							Description: "Start and end time (HH:MM-HH:MM)",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "comitee",
							Description: "Organizing committee",
							Required:    true,
							Choices:     choices(c.committees),
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "place",
							Description: "Where the event takes place",
							Required:    true,
							Choices:     choices(c.places),
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "event_type",
							Description: "Type of event",
							Required:    true,
							Choices:     choices(c.eventTypes),
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "create_work_thread",
							Description: "Create a work-thread channel (default true)",
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "create_event",
							Description: "Create a scheduled event (default true)",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete-work-thread",
					Description: "Delete the current work-thread channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete-all-thread",
					Description: "Delete all work threads for past events",
				},
			},
		},
	}
}

func choices(values []string) []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(values))
	for _, v := range values {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: v, Value: v})
	}
	return out
}

// registerCommands synchronizes the schemas with the guild. Registration
// is guild-scoped so changes propagate immediately.
func (c *DefaultDiscord) registerCommands() error {
	for _, cmd := range c.commandSchemas() {
		created, err := c.session.ApplicationCommandCreate(c.session.State.User.ID, c.guildID, cmd)
		if err != nil {
			return fmt.Errorf("register command %s: %w", cmd.Name, err)
		}
		c.registered = append(c.registered, created)
	}
	c.logger.InfoW("registered slash commands", "count", len(c.registered), "guild", c.guildID)
	return nil
}

func (c *DefaultDiscord) unregisterCommands() {
	for _, cmd := range c.registered {
		if err := c.session.ApplicationCommandDelete(c.session.State.User.ID, c.guildID, cmd.ID); err != nil {
			c.logger.WarnW("delete command", "command", cmd.Name, "error", err)
		}
	}
	c.registered = nil
}
