package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// discordSession abstracts the discordgo methods we use, enabling test mocks.
type discordSession interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Discord posts brew-ready messages to a Discord channel over the REST API;
// no gateway connection is needed for outbound-only traffic.
type Discord struct {
	sess    discordSession
	channel string
}

// NewDiscord returns a Discord notifier using a bot token.
func NewDiscord(token, channel string) (*Discord, error) {
	sess, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	return &Discord{sess: sess, channel: channel}, nil
}

// newDiscordWithSession injects a mock session for tests.
func newDiscordWithSession(sess discordSession, channel string) *Discord {
	return &Discord{sess: sess, channel: channel}
}

// BrewReady posts the event to the configured channel.
func (d *Discord) BrewReady(ctx context.Context, ev Event) error {
	_, err := d.sess.ChannelMessageSend(d.channel, Message(ev), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: send brew-ready for %s: %w", ev.TrackingID, err)
	}
	return nil
}
