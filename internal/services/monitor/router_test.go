package monitor

import (
	"encoding/json"
	"slices"
	"testing"

	"go.uber.org/zap"

	"github.com/joe-el-khoury/fbzmq/internal/adapters/registry/memory"
	"github.com/joe-el-khoury/fbzmq/internal/domain"
)

func rawRequest(t *testing.T, cmd domain.Command, body any) []byte {
	t.Helper()
	req, err := domain.NewRequest(cmd, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	raw, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("encode request: %v", err)
	}
	return raw
}

func decodeReply[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode reply %s: %v", raw, err)
	}
	return out
}

func TestRouterDispatch(t *testing.T) {
	newRouter := func() (*Router, *memory.Registry) {
		reg := memory.New()
		return NewRouter(reg, zap.NewNop()), reg
	}

	t.Run("SetPublishesDelta", func(t *testing.T) {
		r, _ := newRouter()
		reply, pub := r.Route(rawRequest(t, domain.SetCounterValues,
			domain.SetCountersBody{Counters: map[string]int64{"bar": 1234, "foo": 5678}}))

		if ack := decodeReply[domain.AckResponse](t, reply); !ack.Success {
			t.Fatalf("ack = %+v, want success", ack)
		}
		if pub == nil || pub.Type != domain.CounterPub {
			t.Fatalf("pub = %+v, want COUNTER_PUB", pub)
		}
		if pub.Counters["bar"] != 1234 || pub.Counters["foo"] != 5678 || len(pub.Counters) != 2 {
			t.Errorf("pub counters = %v", pub.Counters)
		}
	})

	t.Run("BumpDefaultsToOne", func(t *testing.T) {
		r, reg := newRouter()
		reg.Set(map[string]int64{"bar": 1234})

		_, pub := r.Route(rawRequest(t, domain.BumpCounter,
			domain.BumpCountersBody{Names: []string{"bar", "baz"}}))

		if pub == nil || pub.Counters["bar"] != 1235 || pub.Counters["baz"] != 1 {
			t.Errorf("pub = %+v, want bar=1235 baz=1", pub)
		}
	})

	t.Run("BumpDuplicatesAccumulate", func(t *testing.T) {
		r, reg := newRouter()
		delta := int64(10)
		_, pub := r.Route(rawRequest(t, domain.BumpCounter,
			domain.BumpCountersBody{Names: []string{"n", "n"}, Delta: &delta}))

		if pub == nil || pub.Counters["n"] != 20 {
			t.Errorf("pub = %+v, want n=20", pub)
		}
		if v := reg.DumpAll()["n"]; v != 20 {
			t.Errorf("stored n = %d, want 20", v)
		}
	})

	t.Run("GetOmitsMissingAndDoesNotPublish", func(t *testing.T) {
		r, reg := newRouter()
		reg.Set(map[string]int64{"known": 7})

		reply, pub := r.Route(rawRequest(t, domain.GetCounterValues,
			domain.GetCountersBody{Names: []string{"known", "missing"}}))

		if pub != nil {
			t.Errorf("read produced a publication: %+v", pub)
		}
		resp := decodeReply[domain.CounterValuesResponse](t, reply)
		if len(resp.Counters) != 1 || resp.Counters["known"] != 7 {
			t.Errorf("counters = %v, want only known=7", resp.Counters)
		}
	})

	t.Run("DumpNamesSorted", func(t *testing.T) {
		r, reg := newRouter()
		reg.Set(map[string]int64{"foo": 1, "bar": 2})

		reply, pub := r.Route(rawRequest(t, domain.DumpAllCounterNames, nil))
		if pub != nil {
			t.Errorf("dump produced a publication: %+v", pub)
		}
		resp := decodeReply[domain.CounterNamesResponse](t, reply)
		if !slices.Equal(resp.Names, []string{"bar", "foo"}) {
			t.Errorf("names = %v, want [bar foo]", resp.Names)
		}
	})

	t.Run("DumpData", func(t *testing.T) {
		r, reg := newRouter()
		reg.Set(map[string]int64{"bar": 1234, "foo": 5678})

		reply, _ := r.Route(rawRequest(t, domain.DumpAllCounterData, nil))
		resp := decodeReply[domain.CounterValuesResponse](t, reply)
		if resp.Counters["bar"] != 1234 || resp.Counters["foo"] != 5678 || len(resp.Counters) != 2 {
			t.Errorf("counters = %v", resp.Counters)
		}
	})

	t.Run("LogEventForwardedVerbatim", func(t *testing.T) {
		r, reg := newRouter()
		reply, pub := r.Route(rawRequest(t, domain.LogEvent,
			domain.EventLog{Category: "log_category", Samples: []string{"log1", "log2"}}))

		if ack := decodeReply[domain.AckResponse](t, reply); !ack.Success {
			t.Fatalf("ack = %+v, want success", ack)
		}
		if pub == nil || pub.Type != domain.EventLogPub || pub.Event == nil {
			t.Fatalf("pub = %+v, want EVENT_LOG_PUB", pub)
		}
		if pub.Event.Category != "log_category" || !slices.Equal(pub.Event.Samples, []string{"log1", "log2"}) {
			t.Errorf("event = %+v", pub.Event)
		}
		if len(reg.Names()) != 0 {
			t.Errorf("log event touched the registry: %v", reg.Names())
		}
	})
}

func TestRouterRejectsBadEnvelopes(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
	}{
		{"not json", []byte("definitely not json")},
		{"unknown command", []byte(`{"cmd":"EXPLODE"}`)},
		{"body of wrong shape", []byte(`{"cmd":"SET_COUNTER_VALUES","body":{"counters":"nope"}}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := memory.New()
			r := NewRouter(reg, zap.NewNop())

			reply, pub := r.Route(tc.raw)

			if ack := decodeReply[domain.AckResponse](t, reply); ack.Success {
				t.Errorf("ack = %+v, want rejection", ack)
			}
			if pub != nil {
				t.Errorf("rejected request produced a publication: %+v", pub)
			}
			if len(reg.Names()) != 0 {
				t.Errorf("rejected request mutated the registry: %v", reg.Names())
			}
		})
	}
}
