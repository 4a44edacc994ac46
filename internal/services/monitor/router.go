package monitor

import (
	"encoding/json"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/joe-el-khoury/fbzmq/internal/domain"
	"github.com/joe-el-khoury/fbzmq/internal/ports"
)

// Router translates raw command envelopes into registry calls, producing
// exactly one reply and at most one publication per request.
type Router struct {
	reg    ports.CounterRegistry
	logger *zap.Logger
}

// NewRouter wires a counter registry into a request router.
func NewRouter(reg ports.CounterRegistry, logger *zap.Logger) *Router {
	return &Router{reg: reg, logger: logger}
}

// Route handles one request. It always returns an encoded reply; a request
// that cannot be decoded is answered with success=false and yields no
// publication.
func (r *Router) Route(raw []byte) (reply []byte, pub *domain.Publication) {
	resp, pub, err := r.dispatch(raw)
	if err != nil {
		r.logger.Warn("rejecting request", zap.Error(err))
		return r.encode(domain.AckResponse{Success: false}), nil
	}
	return r.encode(resp), pub
}

func (r *Router) dispatch(raw []byte) (any, *domain.Publication, error) {
	var req domain.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrBadEnvelope, err)
	}

	switch req.Cmd {
	case domain.SetCounterValues:
		var body domain.SetCountersBody
		if err := decodeBody(req.Body, &body); err != nil {
			return nil, nil, err
		}
		affected := r.reg.Set(body.Counters)
		delta := make(map[string]int64, len(affected))
		for _, name := range affected {
			delta[name] = body.Counters[name]
		}
		pub := domain.NewCounterPub(delta)
		return domain.AckResponse{Success: true}, &pub, nil

	case domain.BumpCounter:
		var body domain.BumpCountersBody
		if err := decodeBody(req.Body, &body); err != nil {
			return nil, nil, err
		}
		delta := int64(1)
		if body.Delta != nil {
			delta = *body.Delta
		}
		touched := r.reg.Bump(body.Names, delta)
		pub := domain.NewCounterPub(touched)
		return domain.AckResponse{Success: true}, &pub, nil

	case domain.GetCounterValues:
		var body domain.GetCountersBody
		if err := decodeBody(req.Body, &body); err != nil {
			return nil, nil, err
		}
		return domain.CounterValuesResponse{Counters: r.reg.Get(body.Names)}, nil, nil

	case domain.DumpAllCounterNames:
		names := r.reg.Names()
		slices.Sort(names)
		return domain.CounterNamesResponse{Names: names}, nil, nil

	case domain.DumpAllCounterData:
		return domain.CounterValuesResponse{Counters: r.reg.DumpAll()}, nil, nil

	case domain.LogEvent:
		var body domain.EventLog
		if err := decodeBody(req.Body, &body); err != nil {
			return nil, nil, err
		}
		pub := domain.NewEventLogPub(body)
		return domain.AckResponse{Success: true}, &pub, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown command %q", domain.ErrBadEnvelope, req.Cmd)
	}
}

func decodeBody(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBadEnvelope, err)
	}
	return nil
}

func (r *Router) encode(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		r.logger.Error("encode reply", zap.Error(err))
		return []byte(`{"success":false}`)
	}
	return b
}
