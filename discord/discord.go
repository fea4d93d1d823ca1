package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/sa-bots/workthread/clock"
	"github.com/sa-bots/workthread/logger"
	"github.com/sa-bots/workthread/store"
)

var _ Discord = (*DefaultDiscord)(nil)

// Discord defines the interface for the bot client.
type Discord interface {
	Start(ctx context.Context) error
	Stop() error
}

// DefaultDiscord owns the session, the registered command schemas, and the
// interaction dispatch. Handlers share only the immutable configuration
// snapshot and the store.
type DefaultDiscord struct {
	session    *discordgo.Session
	guildID    string
	categoryID string
	staffRole  string
	committees []string
	places     []string
	eventTypes []string
	store      store.Store
	clock      clock.Clock
	logger     logger.Logger

	removeHandler func()
	registered    []*discordgo.ApplicationCommand
}

type Params struct {
	Config Config
	Store  store.Store
	Clock  clock.Clock
	Logger logger.Logger
}

func New(p Params) (*DefaultDiscord, error) {
	cfg := p.Config

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.System()
	}

	return &DefaultDiscord{
		session:    session,
		guildID:    cfg.GuildID,
		categoryID: cfg.CategoryID,
		staffRole:  cfg.StaffRole,
		committees: cfg.Committees,
		places:     cfg.Places,
		eventTypes: cfg.EventTypes,
		store:      p.Store,
		clock:      clk,
		logger:     log,
	}, nil
}

// Start opens the gateway connection, synchronizes the command schemas with
// the guild, and installs the interaction handler. Registration completes
// before any interaction is served.
func (c *DefaultDiscord) Start(ctx context.Context) error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("open discord connection: %w", err)
	}

	if err := c.registerCommands(); err != nil {
		c.session.Close()
		return err
	}

	c.removeHandler = c.session.AddHandler(c.handleInteraction)
	return nil
}

func (c *DefaultDiscord) Stop() error {
	if c.removeHandler != nil {
		c.removeHandler()
		c.removeHandler = nil
	}
	c.unregisterCommands()
	return c.session.Close()
}

func (c *DefaultDiscord) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()

	var err error
	switch data.Name {
	case "ping":
		err = c.cmdPing(s, i)
	case "echo":
		err = c.cmdEcho(s, i, data.Options)
	case "add":
		err = c.cmdAdd(s, i, data.Options)
	case "math":
		err = c.cmdMath(s, i, data.Options)
	case "events":
		err = c.cmdEvents(s, i, data.Options)
	default:
		return
	}

	if err != nil {
		c.reportError(s, i, data.Name, err)
	}
}

// reportError is the single failure-reporting policy: attempt an ephemeral
// response, fall back to a follow-up when the interaction was already
// answered, and always log.
func (c *DefaultDiscord) reportError(s *discordgo.Session, i *discordgo.InteractionCreate, command string, err error) {
	c.logger.ErrorW("command failed", "command", command, "error", err)

	msg := "Error: " + err.Error()
	respondErr := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if respondErr == nil {
		return
	}

	if _, followErr := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: msg,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); followErr != nil {
		c.logger.ErrorW("error reply failed", "command", command, "error", followErr)
	}
}

func (c *DefaultDiscord) cmdPing(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return reply(s, i, fmt.Sprintf("Pong! %dms", s.HeartbeatLatency().Milliseconds()))
}

func (c *DefaultDiscord) cmdEcho(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	return reply(s, i, optionString(opts, "message"))
}

func (c *DefaultDiscord) cmdAdd(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	a := optionInt(opts, "a")
	b := optionInt(opts, "b")
	return reply(s, i, fmt.Sprintf("%d + %d = %d", a, b, a+b))
}

func (c *DefaultDiscord) cmdMath(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if len(opts) == 0 || opts[0].Name != "multiply" {
		return fmt.Errorf("unknown math subcommand")
	}
	sub := opts[0].Options
	a := optionFloat(sub, "a")
	b := optionFloat(sub, "b")
	return reply(s, i, fmt.Sprintf("%s * %s = %s", formatNumber(a), formatNumber(b), formatNumber(a*b)))
}

// formatNumber renders a float keeping a trailing ".0" on whole numbers,
// so `/math multiply 2.5 4` answers "2.5 * 4.0 = 10.0".
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func reply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

func followUp(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: content})
	return err
}

// followUpQuiet sends a follow-up and logs instead of propagating the
// error; sub-step outcomes must not abort the remaining sub-steps.
func (c *DefaultDiscord) followUpQuiet(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if err := followUp(s, i, content); err != nil {
		c.logger.ErrorW("follow-up failed", "error", err)
	}
}

func findOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, o := range opts {
		if o.Name == name {
			return o
		}
	}
	return nil
}

func optionString(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if o := findOption(opts, name); o != nil {
		return o.StringValue()
	}
	return ""
}

func optionInt(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	if o := findOption(opts, name); o != nil {
		return o.IntValue()
	}
	return 0
}

func optionFloat(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) float64 {
	if o := findOption(opts, name); o != nil {
		return o.FloatValue()
	}
	return 0
}

func optionBool(opts []*discordgo.ApplicationCommandInteractionDataOption, name string, fallback bool) bool {
	if o := findOption(opts, name); o != nil {
		return o.BoolValue()
	}
	return fallback
}
