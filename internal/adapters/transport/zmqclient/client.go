// Package zmqclient implements the typed request client and the subscriber
// used to talk to a running monitor over ZeroMQ.
package zmqclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-zeromq/zmq4"

	"github.com/joe-el-khoury/fbzmq/internal/domain"
)

// Client issues monitor commands over a REQ socket. Requests block the caller
// until a reply arrives or the read timeout expires; a timed-out request is
// reported failed and never retried here.
//
// Client is not safe for concurrent use.
type Client struct {
	ctx     context.Context
	addr    string
	timeout time.Duration
	sock    zmq4.Socket
}

// New dials the monitor's request endpoint. A timeout of zero means wait
// forever.
func New(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	c := &Client{ctx: ctx, addr: addr, timeout: timeout}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) connect() error {
	sock := zmq4.NewReq(c.ctx)
	if err := sock.Dial(c.addr); err != nil {
		return fmt.Errorf("dial monitor %s: %w", c.addr, err)
	}
	c.sock = sock
	return nil
}

// Close releases the underlying socket.
func (c *Client) Close() error {
	return c.sock.Close()
}

// SetCounters overwrites or creates the given counters in one atomic batch.
func (c *Client) SetCounters(values map[string]int64) error {
	var ack domain.AckResponse
	if err := c.roundTrip(domain.SetCounterValues, domain.SetCountersBody{Counters: values}, &ack); err != nil {
		return err
	}
	if !ack.Success {
		return domain.ErrRejected
	}
	return nil
}

// BumpCounters increments the named counters by delta, creating absent ones.
func (c *Client) BumpCounters(names []string, delta int64) error {
	body := domain.BumpCountersBody{Names: names}
	if delta != 1 {
		body.Delta = &delta
	}
	var ack domain.AckResponse
	if err := c.roundTrip(domain.BumpCounter, body, &ack); err != nil {
		return err
	}
	if !ack.Success {
		return domain.ErrRejected
	}
	return nil
}

// GetCounters reads the named counters; names the monitor does not know are
// absent from the result.
func (c *Client) GetCounters(names []string) (map[string]int64, error) {
	var resp domain.CounterValuesResponse
	if err := c.roundTrip(domain.GetCounterValues, domain.GetCountersBody{Names: names}, &resp); err != nil {
		return nil, err
	}
	return resp.Counters, nil
}

// DumpNames lists every registered counter name.
func (c *Client) DumpNames() ([]string, error) {
	var resp domain.CounterNamesResponse
	if err := c.roundTrip(domain.DumpAllCounterNames, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Names, nil
}

// DumpAll returns every counter with its current value.
func (c *Client) DumpAll() (map[string]int64, error) {
	var resp domain.CounterValuesResponse
	if err := c.roundTrip(domain.DumpAllCounterData, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Counters, nil
}

// LogEvent forwards an event log for broadcast to subscribers.
func (c *Client) LogEvent(category string, samples []string) error {
	var ack domain.AckResponse
	ev := domain.EventLog{Category: category, Samples: samples}
	if err := c.roundTrip(domain.LogEvent, ev, &ack); err != nil {
		return err
	}
	if !ack.Success {
		return domain.ErrRejected
	}
	return nil
}

// roundTrip sends one command and decodes the reply into out. On a read
// timeout the REQ socket is re-established, since the strict send/receive
// alternation leaves the old one unusable.
func (c *Client) roundTrip(cmd domain.Command, body, out any) error {
	req, err := domain.NewRequest(cmd, body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", cmd, err)
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", cmd, err)
	}
	if err := c.sock.Send(zmq4.NewMsg(payload)); err != nil {
		return fmt.Errorf("send %s: %w", cmd, err)
	}

	type recvResult struct {
		msg zmq4.Msg
		err error
	}
	ch := make(chan recvResult, 1)
	sock := c.sock
	go func() {
		m, err := sock.Recv()
		ch <- recvResult{msg: m, err: err}
	}()

	var expired <-chan time.Time
	if c.timeout > 0 {
		t := time.NewTimer(c.timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case r := <-ch:
		if r.err != nil {
			return fmt.Errorf("receive %s reply: %w", cmd, r.err)
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(r.msg.Bytes(), out); err != nil {
			return fmt.Errorf("decode %s reply: %w", cmd, err)
		}
		return nil
	case <-expired:
		c.reset()
		return fmt.Errorf("%s: %w", cmd, domain.ErrTimeout)
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

// reset drops the current socket and dials a fresh one. Best-effort: when the
// redial fails, the next request's send surfaces the error.
func (c *Client) reset() {
	c.sock.Close()
	_ = c.connect()
}
