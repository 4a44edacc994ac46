package monitor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-zeromq/zmq4"
	"go.uber.org/zap"

	"github.com/joe-el-khoury/fbzmq/internal/domain"
	"github.com/joe-el-khoury/fbzmq/pkg/observer"
)

// Publisher serializes publications onto the monitor's PUB socket.
//
// Delivery is fire-and-forget: a subscriber that connects after a message was
// emitted never sees it, and nothing is queued on its behalf.
type Publisher struct {
	sock   zmq4.Socket
	logger *zap.Logger
}

var _ observer.Observer[domain.Publication] = (*Publisher)(nil)

// NewPublisher wraps an already-created PUB socket.
func NewPublisher(sock zmq4.Socket, logger *zap.Logger) *Publisher {
	return &Publisher{sock: sock, logger: logger}
}

// Notify encodes one publication and emits it on the publish endpoint.
func (p *Publisher) Notify(_ context.Context, pub domain.Publication) error {
	payload, err := json.Marshal(pub)
	if err != nil {
		return fmt.Errorf("encode publication: %w", err)
	}
	if err := p.sock.Send(zmq4.NewMsg(payload)); err != nil {
		return fmt.Errorf("publish %s: %w", pub.Type, err)
	}
	return nil
}
