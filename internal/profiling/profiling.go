package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Lightweight per-batch profiler. Timers from concurrent workers add up, so a
// total can exceed the wall time of the batch.

// Sample is the accumulated time and call count for one name.
type Sample struct {
	Total time.Duration
	Calls int
}

var (
	mu     sync.Mutex
	totals = make(map[string]Sample)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("subsystem.Operation")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		s := totals[name]
		s.Total += d
		s.Calls++
		totals[name] = s
		mu.Unlock()
	}
}

// ResetFrame clears the current totals. Call at the start of each batch.
func ResetFrame() {
	mu.Lock()
	for k := range totals {
		delete(totals, k)
	}
	mu.Unlock()
}

// Snapshot returns a copy of current totals.
func Snapshot() map[string]Sample {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]Sample, len(totals))
	for k, v := range totals {
		out[k] = v
	}
	return out
}

// TopN formats the n largest totals.
// Example: "meshing.Build:4.2ms/36, world.GenerateChunk:2.1ms/40"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		s    Sample
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, s: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].s.Total != list[j].s.Total {
			return list[i].s.Total > list[j].s.Total
		}
		return list[i].name < list[j].name
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, list[i].name+":"+formatMs(list[i].s.Total)+"/"+strconv.Itoa(list[i].s.Calls))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing .0.
func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	return strings.TrimSuffix(strconv.FormatFloat(ms, 'f', 1, 64), ".0") + "ms"
}
