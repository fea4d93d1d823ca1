package discord

// Config holds everything the Discord client needs from the guild
// settings: identity, where work threads live, who may manage events, and
// the choice lists surfaced in the create-event options.
type Config struct {
	Token      string
	GuildID    string
	CategoryID string
	StaffRole  string
	Committees []string
	Places     []string
	EventTypes []string
}
