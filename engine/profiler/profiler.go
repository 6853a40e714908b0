package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one logged snapshot of render loop performance.
type Stats struct {
	// FPS is the average frames per second over the sample window.
	FPS float64
	// FrameMs is the average frame duration in milliseconds.
	FrameMs float64
	// WorstFrameMs is the longest single frame in the window, in milliseconds.
	WorstFrameMs float64
	// HeapMB is the live heap in megabytes.
	HeapMB float64
	// AllocRateMB is the allocation churn in megabytes per second.
	AllocRateMB float64
	// GCCount is the cumulative garbage collection count.
	GCCount uint32
}

// Profiler samples render loop timing and memory statistics and logs a
// summary once per interval. A long worst-frame next to a healthy average
// usually means a hitch (shader compile, GC pause, texture upload) rather
// than general slowness.
type Profiler struct {
	frameCount     int
	windowStart    time.Time
	lastFrame      time.Time
	worstFrame     time.Duration
	interval       time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
}

// NewProfiler creates a Profiler that logs once per second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	now := time.Now()
	return &Profiler{
		windowStart: now,
		lastFrame:   now,
		interval:    time.Second,
	}
}

// SetInterval changes how often Tick logs a summary.
//
// Parameters:
//   - interval: time between summaries (ignored if <= 0)
func (p *Profiler) SetInterval(interval time.Duration) {
	if interval > 0 {
		p.interval = interval
	}
}

// Tick records one frame. When the logging interval has elapsed it computes
// the window's statistics, logs them, resets the window, and returns the
// snapshot.
//
// Returns:
//   - Stats: the logged snapshot (zero value when nothing was logged)
//   - bool: true if a summary was logged this tick
func (p *Profiler) Tick() (Stats, bool) {
	now := time.Now()
	frame := now.Sub(p.lastFrame)
	p.lastFrame = now
	p.frameCount++
	if frame > p.worstFrame {
		p.worstFrame = frame
	}

	elapsed := now.Sub(p.windowStart)
	if elapsed < p.interval {
		return Stats{}, false
	}

	runtime.ReadMemStats(&p.memStats)

	stats := Stats{
		FPS:          float64(p.frameCount) / elapsed.Seconds(),
		FrameMs:      elapsed.Seconds() * 1000 / float64(p.frameCount),
		WorstFrameMs: p.worstFrame.Seconds() * 1000,
		HeapMB:       float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:  float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:      p.memStats.NumGC,
	}

	log.Printf("[Profiler] %.1f fps | frame %.2f ms (worst %.2f ms) | heap %.1f MB | alloc %.2f MB/s | GC %d",
		stats.FPS, stats.FrameMs, stats.WorstFrameMs, stats.HeapMB, stats.AllocRateMB, stats.GCCount)

	p.frameCount = 0
	p.worstFrame = 0
	p.windowStart = now
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return stats, true
}
