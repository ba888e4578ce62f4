// File: advisor/threshold.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ThresholdProfiler is the fully-implemented variant spec 9 describes
// as coexisting with the empty stub in the source. It never reads
// hardware counters itself — that stays strictly outside the hard
// core — it instead wraps a caller-supplied Sampler (typically backed
// by perf_event_open or a vendor SDK) and turns its MPKI stream into
// Stay/Migrate recommendations against a configurable threshold.

package advisor

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
)

// Sampler reports the current misses-per-kilo-instruction figure.
// Implementations live entirely outside this package.
type Sampler func() (mpki float64, err error)

// historyDepth bounds how many past samples ThresholdProfiler retains
// for diagnostics; older samples are evicted FIFO.
const historyDepth = 64

// Sample is one past observation, recorded for debug-probe exposure.
type Sample struct {
	MPKI   float64
	Advice Advice
}

// ThresholdProfiler recommends Migrate once the sampled MPKI exceeds
// a configurable threshold, and AdviceError if Start was never
// called or the sampler itself fails.
type ThresholdProfiler struct {
	sample    Sampler
	threshold atomic.Uint64 // math.Float64bits
	started   atomic.Bool

	histMu sync.Mutex
	hist   *queue.Queue // of Sample, bounded to historyDepth
}

// NewThresholdProfiler wraps sample with an initial threshold in MPKI.
func NewThresholdProfiler(sample Sampler, initialThreshold float64) *ThresholdProfiler {
	p := &ThresholdProfiler{sample: sample, hist: queue.New()}
	p.SetThreshold(initialThreshold)
	return p
}

func (p *ThresholdProfiler) Start() error {
	if p.sample == nil {
		return errNoSampler
	}
	p.started.Store(true)
	return nil
}

func (p *ThresholdProfiler) Check() (Advice, error) {
	if !p.started.Load() {
		return AdviceError, errNotStarted
	}
	mpki, err := p.sample()
	if err != nil {
		return AdviceError, err
	}
	advice := Stay
	if mpki > p.thresholdValue() {
		advice = Migrate
	}
	p.recordSample(mpki, advice)
	return advice, nil
}

// History returns the most recent samples, oldest first, up to
// historyDepth entries.
func (p *ThresholdProfiler) History() []Sample {
	p.histMu.Lock()
	defer p.histMu.Unlock()
	out := make([]Sample, p.hist.Length())
	for i := range out {
		out[i] = p.hist.Get(i).(Sample)
	}
	return out
}

func (p *ThresholdProfiler) recordSample(mpki float64, advice Advice) {
	p.histMu.Lock()
	defer p.histMu.Unlock()
	p.hist.Add(Sample{MPKI: mpki, Advice: advice})
	for p.hist.Length() > historyDepth {
		p.hist.Remove()
	}
}

func (p *ThresholdProfiler) SetThreshold(mpki float64) {
	p.threshold.Store(float64bits(mpki))
}

func (p *ThresholdProfiler) thresholdValue() float64 {
	return float64frombits(p.threshold.Load())
}
