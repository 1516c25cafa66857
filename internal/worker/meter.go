package worker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Progress draws a band progress bar for long single-frame renders.
type Progress struct {
	startTime time.Time
	output    io.Writer
	unit      string
	total     int
	completed int
	failed    int
	mu        sync.RWMutex
	enabled   bool
}

// NewProgress creates a progress bar counting total units.
func NewProgress(total int, unit string, enabled bool) *Progress {
	return &Progress{
		total:     total,
		unit:      unit,
		startTime: time.Now(),
		output:    os.Stderr,
		enabled:   enabled,
	}
}

// Update records the completion of a task.
func (p *Progress) Update(completed, total, failed int) {
	p.mu.Lock()
	p.completed = completed
	p.total = total
	p.failed = failed
	p.mu.Unlock()

	if p.enabled {
		p.Print()
	}
}

// Callback returns a ProgressFunc suitable for use with Pool.Config.
func (p *Progress) Callback() ProgressFunc {
	return p.Update
}

// Print writes the bar, overwriting the current terminal line.
func (p *Progress) Print() {
	p.mu.RLock()
	completed, total, failed := p.completed, p.total, p.failed
	p.mu.RUnlock()

	const barWidth = 30
	filled := 0
	if total > 0 {
		filled = completed * barWidth / total
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	line := fmt.Sprintf("\r[%s] %d/%d %s", bar, completed, total, p.unit)
	if failed > 0 {
		line += fmt.Sprintf(" (%d failed)", failed)
	}
	if completed == total {
		line += fmt.Sprintf(" - done in %s", formatDuration(time.Since(p.startTime)))
	}

	fmt.Fprint(p.output, line+"    ")
}

// Done prints the final bar and a newline.
func (p *Progress) Done() {
	if p.enabled {
		p.Print()
		fmt.Fprintln(p.output)
	}
}

// FrameMeter accumulates per-frame render timings for a live loop.
type FrameMeter struct {
	mu        sync.Mutex
	start     time.Time
	frames    int
	failed    int
	busy      time.Duration
	slowest   time.Duration
	windowAt  time.Time
	windowN   int
	windowFPS float64
}

// NewFrameMeter starts a meter at now.
func NewFrameMeter(now time.Time) *FrameMeter {
	return &FrameMeter{start: now, windowAt: now}
}

// Observe records one frame that took elapsed to render and present.
func (m *FrameMeter) Observe(now time.Time, elapsed time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.frames++
	if err != nil {
		m.failed++
	}
	m.busy += elapsed
	m.slowest = max(m.slowest, elapsed)

	m.windowN++
	if span := now.Sub(m.windowAt); span >= time.Second {
		m.windowFPS = float64(m.windowN) / span.Seconds()
		m.windowAt = now
		m.windowN = 0
	}
}

// FPS is the frame rate over the last completed one-second window.
func (m *FrameMeter) FPS() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.windowFPS
}

// Frames returns the number of frames observed and how many failed.
func (m *FrameMeter) Frames() (total, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames, m.failed
}

// Summary describes the run so far.
func (m *FrameMeter) Summary(now time.Time) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	elapsed := now.Sub(m.start)
	var rate float64
	if elapsed > 0 {
		rate = float64(m.frames) / elapsed.Seconds()
	}
	var avg time.Duration
	if m.frames > 0 {
		avg = m.busy / time.Duration(m.frames)
	}

	return fmt.Sprintf("Rendered %d frames (%d failed) in %s (%.1f fps, avg %s, slowest %s)",
		m.frames, m.failed, formatDuration(elapsed), rate,
		avg.Round(time.Microsecond), m.slowest.Round(time.Microsecond))
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
