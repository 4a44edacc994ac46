package ports

// CounterRegistry is the authoritative store of named int64 counters.
//
// Implementations are not required to be safe for concurrent use: the monitor
// confines every call to the server-loop goroutine, which is the only writer
// and reader.
type CounterRegistry interface {
	// Set overwrites or creates each named counter and returns the affected
	// names.
	Set(entries map[string]int64) []string
	// Bump increments each named counter by delta, creating absent counters
	// at delta. Names are processed sequentially, so duplicates accumulate.
	// The returned map holds the final value of every touched counter.
	Bump(names []string, delta int64) map[string]int64
	// Get returns the requested counters that exist; missing names are
	// omitted.
	Get(names []string) map[string]int64
	// Names returns all registered counter names.
	Names() []string
	// DumpAll returns every counter with its current value.
	DumpAll() map[string]int64
}
