// Package natsclient fans machine status changes out to subscribers on a NATS subject.
package natsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/exes/food-network/internal/core/domain"
)

var ErrNotConnected = errors.New("nats not connected")

// Conn is the subset of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
	IsClosed() bool
}

// StatusMessage is the JSON payload published for every processed heartbeat.
type StatusMessage struct {
	MachineID         string `json:"machine_id"`
	Status            string `json:"status"`
	AvailableCapacity int    `json:"available_capacity"`
	ErrorCode         string `json:"error_code,omitempty"`
	Timestamp         string `json:"timestamp"`
}

// Publisher implements ports.StatusPublisher.
type Publisher struct {
	conn    Conn
	subject string
}

func NewPublisher(conn Conn, subject string) *Publisher {
	return &Publisher{conn: conn, subject: subject}
}

// Connect dials url with reconnects enabled, logging connection changes.
func Connect(url string, log zerolog.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("food-network-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

func (p *Publisher) PublishStatus(ctx context.Context, e *domain.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.conn == nil || p.conn.IsClosed() {
		return ErrNotConnected
	}

	payload, err := json.Marshal(StatusMessage{
		MachineID:         e.MachineID,
		Status:            string(e.Status),
		AvailableCapacity: e.AvailableCapacity,
		ErrorCode:         e.ErrorCode,
		Timestamp:         e.Timestamp.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	return p.conn.Publish(p.subject, payload)
}
