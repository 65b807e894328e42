// Package telemetry provides anonymous, opt-in usage analytics.
// Disabled by default; nothing is sent until the user opts in.
package telemetry

import (
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/posthog/posthog-go"
)

// Client is the interface for telemetry clients.
type Client interface {
	// Track sends an event asynchronously. No-op when disabled.
	Track(event string, properties map[string]any)

	// Close flushes pending events and closes the client.
	Close() error
}

// enqueuer is the slice of the PostHog SDK we use, mockable in tests.
type enqueuer interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// PostHogClient wraps the PostHog SDK for async event capture.
type PostHogClient struct {
	client  enqueuer
	consent *Consent
	version string
	mu      sync.RWMutex
	ready   bool
}

// NewPostHogClient creates a telemetry client. With an empty API key or
// nil consent the client stays inert.
func NewPostHogClient(apiKey, version string, consent *Consent) (*PostHogClient, error) {
	if apiKey == "" || consent == nil {
		return &PostHogClient{consent: consent, version: version}, nil
	}

	client, err := posthog.NewWithConfig(apiKey, posthog.Config{
		BatchSize: 10,
		Interval:  time.Second,
		// Transport noise must never reach CLI output.
		Logger: quietLogger{},
	})
	if err != nil {
		return nil, err
	}

	return &PostHogClient{
		client:  client,
		consent: consent,
		version: version,
		ready:   true,
	}, nil
}

// Track enqueues one event with the standard anonymous properties.
func (c *PostHogClient) Track(event string, properties map[string]any) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ready || c.consent == nil || !c.consent.Enabled {
		return
	}

	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("app_version", c.version)
	// No person profiles: events stay anonymous.
	props.Set("$process_person_profile", false)

	_ = c.client.Enqueue(posthog.Capture{
		DistinctId: c.consent.InstallID,
		Event:      event,
		Properties: props,
	})
}

// Close flushes the queue.
func (c *PostHogClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// NoopClient does nothing; used when telemetry is off.
type NoopClient struct{}

func (NoopClient) Track(string, map[string]any) {}
func (NoopClient) Close() error                 { return nil }

type quietLogger struct{}

func (quietLogger) Debugf(string, ...interface{}) {}
func (quietLogger) Logf(string, ...interface{})   {}
func (quietLogger) Warnf(string, ...interface{})  {}
func (quietLogger) Errorf(string, ...interface{}) {}
