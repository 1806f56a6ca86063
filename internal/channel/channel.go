package channel

import (
	"context"
	"time"
)

// InboundMessage is one user query arriving from a channel.
type InboundMessage struct {
	ChannelName string
	SenderID    string
	SenderName  string
	ChatID      string
	Text        string
	Timestamp   time.Time
}

// OutboundMessage is a reply to send through a channel. When ImageURL
// is set the channel shows the image (Telegram sends a photo with Text
// as the caption); otherwise Text goes out alone.
type OutboundMessage struct {
	ChatID   string
	Text     string
	ImageURL string
}

// Channel is a surface users query animals from.
type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Send(ctx context.Context, msg OutboundMessage) error
	OnMessage(handler func(InboundMessage))
	IsRunning() bool
}
