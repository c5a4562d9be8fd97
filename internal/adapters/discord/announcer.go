package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"runtrack/internal/domain"
	"runtrack/internal/ports/output"
)

// Ensure Announcer implements the output.Publisher port.
var _ output.Publisher = (*Announcer)(nil)

// Announcer posts finish announcements to a Discord channel so the event
// community follows arrivals without a display screen.
type Announcer struct {
	session   *discordgo.Session
	channelID string
	logger    zerolog.Logger
}

// NewAnnouncer opens a Discord session for the given bot token.
func NewAnnouncer(token, channelID string, logger zerolog.Logger) (*Announcer, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	if err := s.Open(); err != nil {
		return nil, fmt.Errorf("open discord session: %w", err)
	}
	return &Announcer{session: s, channelID: channelID, logger: logger}, nil
}

// ParticipationChanged announces a recorded arrival. Corrections (events
// without a finished status) are not announced.
func (a *Announcer) ParticipationChanged(_ context.Context, event output.ParticipationEvent) {
	if event.Status != domain.StatusFinished || event.DisplayName == "" {
		return
	}
	msg := fmt.Sprintf("🏁 %s a terminé le run #%d en %s !",
		event.DisplayName, event.RunID, formatDuration(event.TotalTime))
	if _, err := a.session.ChannelMessageSend(a.channelID, msg); err != nil {
		a.logger.Warn().Err(err).Uint("participation_id", event.ParticipationID).Msg("discord: announcement failed")
	}
}

func (a *Announcer) Close() error {
	return a.session.Close()
}

func formatDuration(seconds int64) string {
	if seconds >= 3600 {
		return fmt.Sprintf("%dh%02dm%02ds", seconds/3600, (seconds%3600)/60, seconds%60)
	}
	return fmt.Sprintf("%dm%02ds", seconds/60, seconds%60)
}
