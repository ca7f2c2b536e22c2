// activitylog wraps the posthog client so callers never have to care whether
// analytics is configured.
package activitylog

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// Client is a nil-safe wrapper around posthog.Client. With an empty API key
// every method is a no-op.
type Client struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

func Initialize(apiKey string, logger *slog.Logger) *Client {
	if apiKey == "" {
		logger.Warn("Activity log API key is empty, not initializing posthog client.")
		return &Client{}
	}
	wrapper := Client{}
	wrapper.posthogClient, _ = posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	wrapper.logger = logger
	return &wrapper
}

func (c *Client) IsInitialized() bool {
	return c.posthogClient != nil
}

func (c *Client) Enqueue(distinctID string, event string, properties map[string]any) {
	if c.posthogClient == nil {
		return
	}
	if c.logger != nil {
		c.logger.Info("Enqueueing activity event", slog.String("distinct_id", distinctID), slog.String("event", event))
	}
	c.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	})
}

func (c *Client) Close() {
	if c.posthogClient == nil {
		return
	}
	c.posthogClient.Close()
}
