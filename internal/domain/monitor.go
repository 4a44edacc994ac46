// Package domain defines the wire envelopes and payloads spoken on the
// monitor's request/reply and publish endpoints.
package domain

import "encoding/json"

// Command tags a monitor request envelope.
type Command string

const (
	// SetCounterValues overwrites or creates the named counters.
	SetCounterValues Command = "SET_COUNTER_VALUES"
	// GetCounterValues reads a subset of counters; missing names are omitted.
	GetCounterValues Command = "GET_COUNTER_VALUES"
	// BumpCounter increments the named counters, creating absent ones.
	BumpCounter Command = "BUMP_COUNTER"
	// DumpAllCounterNames lists every registered counter name.
	DumpAllCounterNames Command = "DUMP_ALL_COUNTER_NAMES"
	// DumpAllCounterData returns every counter with its value.
	DumpAllCounterData Command = "DUMP_ALL_COUNTER_DATA"
	// LogEvent forwards an event log to subscribers without touching counters.
	LogEvent Command = "LOG_EVENT"
)

// Request is the tagged command envelope. Body holds the per-command payload
// and is decoded only after the tag is known.
type Request struct {
	Cmd  Command         `json:"cmd"`
	Body json.RawMessage `json:"body,omitempty"`
}

// NewRequest builds an envelope around the given payload.
func NewRequest(cmd Command, body any) (Request, error) {
	if body == nil {
		return Request{Cmd: cmd}, nil
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return Request{}, err
	}
	return Request{Cmd: cmd, Body: raw}, nil
}

// SetCountersBody carries SET_COUNTER_VALUES parameters.
type SetCountersBody struct {
	Counters map[string]int64 `json:"counters"`
}

// GetCountersBody carries GET_COUNTER_VALUES parameters.
type GetCountersBody struct {
	Names []string `json:"names"`
}

// BumpCountersBody carries BUMP_COUNTER parameters. A nil Delta means 1.
// Duplicate names are incremented once per occurrence.
type BumpCountersBody struct {
	Names []string `json:"names"`
	Delta *int64   `json:"delta,omitempty"`
}

// EventLog is a category plus opaque samples; published verbatim, never stored.
type EventLog struct {
	Category string   `json:"category"`
	Samples  []string `json:"samples"`
}

// AckResponse reports whether a SET/BUMP/LOG request was accepted.
type AckResponse struct {
	Success bool `json:"success"`
}

// CounterValuesResponse answers GET_COUNTER_VALUES and DUMP_ALL_COUNTER_DATA.
type CounterValuesResponse struct {
	Counters map[string]int64 `json:"counters"`
}

// CounterNamesResponse answers DUMP_ALL_COUNTER_NAMES.
type CounterNamesResponse struct {
	Names []string `json:"names"`
}

// PubType tags a publication envelope.
type PubType string

const (
	// CounterPub carries the counters changed by one mutating request.
	CounterPub PubType = "COUNTER_PUB"
	// EventLogPub carries a forwarded event log.
	EventLogPub PubType = "EVENT_LOG_PUB"
)

// Publication is emitted on the publish endpoint once per mutating request
// or forwarded event log. Exactly one of Counters or Event is set,
// matching Type.
type Publication struct {
	Type     PubType          `json:"type"`
	Counters map[string]int64 `json:"counters,omitempty"`
	Event    *EventLog        `json:"event,omitempty"`
}

// NewCounterPub wraps a counter delta in a publication envelope.
func NewCounterPub(counters map[string]int64) Publication {
	return Publication{Type: CounterPub, Counters: counters}
}

// NewEventLogPub wraps an event log in a publication envelope.
func NewEventLogPub(ev EventLog) Publication {
	return Publication{Type: EventLogPub, Event: &ev}
}
