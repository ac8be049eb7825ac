package notify

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
)

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Slack posts brew-ready messages to a Slack channel.
type Slack struct {
	client  slackClient
	channel string
}

// NewSlack returns a Slack notifier using a bot token.
func NewSlack(token, channel string) *Slack {
	return &Slack{client: slackapi.New(token), channel: channel}
}

// newSlackWithClient injects a mock client for tests.
func newSlackWithClient(client slackClient, channel string) *Slack {
	return &Slack{client: client, channel: channel}
}

// BrewReady posts the event to the configured channel.
func (s *Slack) BrewReady(ctx context.Context, ev Event) error {
	_, _, err := s.client.PostMessageContext(ctx, s.channel,
		slackapi.MsgOptionText(Message(ev), false))
	if err != nil {
		return fmt.Errorf("slack: post brew-ready for %s: %w", ev.TrackingID, err)
	}
	return nil
}
