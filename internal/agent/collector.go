package agent

import (
	"context"
	"fmt"
	"maps"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Counter names reported by the collector.
const (
	CAllocBytes    = "proc.alloc_bytes"
	CHeapObjects   = "proc.heap_objects"
	CSysBytes      = "proc.sys_bytes"
	CNumGC         = "proc.gc_runs"
	CGoroutines    = "proc.goroutines"
	CHostMemTotal  = "host.mem_total_bytes"
	CHostMemFree   = "host.mem_free_bytes"
	CHostCPUPrefix = "host.cpu_percent."
	CPollCount     = "agent.poll_count"
)

// Collector samples Go runtime stats and host CPU/RAM usage into a counter
// map that the reporter drains.
type Collector struct {
	mu       sync.RWMutex
	counters map[string]int64
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewCollector returns a collector with empty state.
func NewCollector() *Collector {
	return &Collector{
		counters: make(map[string]int64),
		stop:     make(chan struct{}),
	}
}

// Start launches the sampling goroutine.
func (c *Collector) Start(ctx context.Context, interval time.Duration) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stop:
				return
			case <-t.C:
				c.sample()
			}
		}
	}()
}

// Stop halts sampling and waits for the goroutine to exit.
func (c *Collector) Stop() {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	c.wg.Wait()
}

// Snapshot copies the latest sampled counters.
func (c *Collector) Snapshot() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]int64, len(c.counters))
	maps.Copy(out, c.counters)
	return out
}

func (c *Collector) sample() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	c.mu.Lock()
	c.counters[CAllocBytes] = int64(ms.Alloc)
	c.counters[CHeapObjects] = int64(ms.HeapObjects)
	c.counters[CSysBytes] = int64(ms.Sys)
	c.counters[CNumGC] = int64(ms.NumGC)
	c.counters[CGoroutines] = int64(runtime.NumGoroutine())
	c.counters[CPollCount]++
	c.mu.Unlock()

	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		c.mu.Lock()
		c.counters[CHostMemTotal] = int64(vm.Total)
		c.counters[CHostMemFree] = int64(vm.Free)
		c.mu.Unlock()
	}
	if pct, err := cpu.Percent(0, true); err == nil {
		c.mu.Lock()
		for i, p := range pct {
			c.counters[fmt.Sprintf("%s%d", CHostCPUPrefix, i+1)] = int64(p)
		}
		c.mu.Unlock()
	}
}
