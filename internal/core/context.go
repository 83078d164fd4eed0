package core

import (
	"context"
	"log/slog"
)

// Client identifies who triggered an action, for the action logs.
type Client struct {
	Source    string // "web" or "cli"
	IP        string
	UserAgent string
}

type clientKey struct{}

// WithClient attaches the triggering client to ctx.
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// ClientFrom returns the client attached to ctx, if any.
func ClientFrom(ctx context.Context) (Client, bool) {
	c, ok := ctx.Value(clientKey{}).(Client)
	return c, ok
}

// logAttrs returns the non-empty client fields as log attributes.
func (c Client) logAttrs() []any {
	var attrs []any
	if c.Source != "" {
		attrs = append(attrs, slog.String("source", c.Source))
	}
	if c.IP != "" {
		attrs = append(attrs, slog.String("client_ip", c.IP))
	}
	if c.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", c.UserAgent))
	}
	return attrs
}
