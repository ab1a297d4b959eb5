package game

import "sync/atomic"

// Metrics counts what the movement engine does. A nil *Metrics ignores every call.
type Metrics struct {
	Frames           int64
	InputsAccepted   int64
	InputsReenqueued int64
	InputsDropped    int64
	SubmitsDiscarded int64
	Stalls           int64
	SegmentsGrown    int64
	Deaths           int64
	TotalFrameNs     int64
}

func (m *Metrics) IncInputsAccepted() {
	if m != nil {
		atomic.AddInt64(&m.InputsAccepted, 1)
	}
}

func (m *Metrics) IncInputsReenqueued() {
	if m != nil {
		atomic.AddInt64(&m.InputsReenqueued, 1)
	}
}

func (m *Metrics) IncInputsDropped() { m.AddInputsDropped(1) }

func (m *Metrics) AddInputsDropped(n int) {
	if m != nil {
		atomic.AddInt64(&m.InputsDropped, int64(n))
	}
}

func (m *Metrics) IncSubmitsDiscarded() {
	if m != nil {
		atomic.AddInt64(&m.SubmitsDiscarded, 1)
	}
}

func (m *Metrics) IncStalls() {
	if m != nil {
		atomic.AddInt64(&m.Stalls, 1)
	}
}

func (m *Metrics) IncSegmentsGrown() {
	if m != nil {
		atomic.AddInt64(&m.SegmentsGrown, 1)
	}
}

func (m *Metrics) IncDeaths() {
	if m != nil {
		atomic.AddInt64(&m.Deaths, 1)
	}
}

func (m *Metrics) AddFrame(ns int64) {
	if m != nil {
		atomic.AddInt64(&m.Frames, 1)
		atomic.AddInt64(&m.TotalFrameNs, ns)
	}
}

// Snapshot returns a read-only copy suitable for JSON output.
func (m *Metrics) Snapshot() map[string]any {
	if m == nil {
		return map[string]any{}
	}
	frames := atomic.LoadInt64(&m.Frames)
	total := atomic.LoadInt64(&m.TotalFrameNs)
	var avgMs float64
	if frames > 0 {
		avgMs = float64(total) / float64(frames) / 1e6
	}
	return map[string]any{
		"frames":            frames,
		"inputs_accepted":   atomic.LoadInt64(&m.InputsAccepted),
		"inputs_reenqueued": atomic.LoadInt64(&m.InputsReenqueued),
		"inputs_dropped":    atomic.LoadInt64(&m.InputsDropped),
		"submits_discarded": atomic.LoadInt64(&m.SubmitsDiscarded),
		"stalls":            atomic.LoadInt64(&m.Stalls),
		"segments_grown":    atomic.LoadInt64(&m.SegmentsGrown),
		"deaths":            atomic.LoadInt64(&m.Deaths),
		"avg_frame_ms":      avgMs,
	}
}
