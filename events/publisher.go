// Package events publishes match events to NATS so that spectators and
// tooling can follow a match live.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pthm-cable/tankarena/telemetry"
)

// Publisher sends events on <prefix>.<game_id>.<type>.
// A nil Publisher drops everything.
type Publisher struct {
	nc      *nats.Conn
	subject string
	logger  *slog.Logger
}

// Connect dials the NATS server at url. An empty url disables publishing
// and returns a nil Publisher.
func Connect(url, prefix, gameID string, logger *slog.Logger) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	nc, err := nats.Connect(url,
		nats.Name("tankarena-"+gameID),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(10),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %s: %w", url, err)
	}

	return &Publisher{
		nc:      nc,
		subject: prefix + "." + gameID,
		logger:  logger.With("component", "events"),
	}, nil
}

// Subject returns the subject prefix events of this match are published under.
func (p *Publisher) Subject() string {
	if p == nil {
		return ""
	}
	return p.subject
}

// Emit implements telemetry.Sink. Publish failures are logged.
func (p *Publisher) Emit(ev telemetry.Event) {
	if p == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("encoding event", "type", ev.Type, "error", err)
		return
	}
	if err := p.nc.Publish(p.subject+"."+string(ev.Type), data); err != nil {
		p.logger.Warn("publishing event", "type", ev.Type, "error", err)
	}
}

// Close flushes pending events and closes the connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	defer p.nc.Close()
	if err := p.nc.FlushTimeout(2 * time.Second); err != nil {
		return fmt.Errorf("flushing events: %w", err)
	}
	return nil
}
