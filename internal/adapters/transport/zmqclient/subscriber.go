package zmqclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-zeromq/zmq4"

	"github.com/joe-el-khoury/fbzmq/internal/domain"
)

// Subscriber receives the monitor's publication stream over a SUB socket in
// subscribe-to-everything mode. Publications emitted before the subscription
// took effect are never delivered.
type Subscriber struct {
	sock zmq4.Socket
}

// NewSubscriber dials the monitor's publish endpoint.
func NewSubscriber(ctx context.Context, addr string) (*Subscriber, error) {
	sock := zmq4.NewSub(ctx)
	if err := sock.SetOption(zmq4.OptionSubscribe, ""); err != nil {
		sock.Close()
		return nil, fmt.Errorf("subscribe all: %w", err)
	}
	if err := sock.Dial(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("dial publish endpoint %s: %w", addr, err)
	}
	return &Subscriber{sock: sock}, nil
}

// Next blocks until the next publication arrives.
func (s *Subscriber) Next() (domain.Publication, error) {
	msg, err := s.sock.Recv()
	if err != nil {
		return domain.Publication{}, fmt.Errorf("receive publication: %w", err)
	}
	var pub domain.Publication
	if err := json.Unmarshal(msg.Bytes(), &pub); err != nil {
		return domain.Publication{}, fmt.Errorf("decode publication: %w", err)
	}
	return pub, nil
}

// Close releases the underlying socket.
func (s *Subscriber) Close() error {
	return s.sock.Close()
}
