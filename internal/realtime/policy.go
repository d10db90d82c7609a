package realtime

import (
	"fmt"
	"strings"

	"workdesk/internal/domain/messages"
	"workdesk/internal/platform/config"
)

// Recipient is a connected client as seen by a DeliveryPolicy.
type Recipient interface {
	ID() string
	Email() string
}

// DeliveryPolicy decides which connected clients receive a relayed message.
type DeliveryPolicy interface {
	Name() string
	ShouldDeliver(msg messages.Message, sender, candidate Recipient) bool
}

// BroadcastAll delivers every message to every connection, the sender
// included, whatever the private flag says.
type BroadcastAll struct{}

func (BroadcastAll) Name() string { return config.DeliveryBroadcastAll }

func (BroadcastAll) ShouldDeliver(messages.Message, Recipient, Recipient) bool { return true }

// RecipientOnly keeps public messages broadcast but limits private ones to the
// sender and to connections that declared the recipient email.
type RecipientOnly struct{}

func (RecipientOnly) Name() string { return config.DeliveryRecipientOnly }

func (RecipientOnly) ShouldDeliver(msg messages.Message, sender, candidate Recipient) bool {
	if !msg.IsPrivate {
		return true
	}
	if sender != nil && candidate.ID() == sender.ID() {
		return true
	}
	if msg.RecipientEmail == nil || candidate.Email() == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(*msg.RecipientEmail), candidate.Email())
}

func PolicyFor(name string) (DeliveryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", config.DeliveryBroadcastAll:
		return BroadcastAll{}, nil
	case config.DeliveryRecipientOnly:
		return RecipientOnly{}, nil
	default:
		return nil, fmt.Errorf("unknown delivery policy %q", name)
	}
}
