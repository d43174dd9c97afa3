package core

import "time"

// FixedStep paces repeated work at a steady rate independent of the frame
// rate. The viewer uses it to replay generation passes while animating.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep targeting the given steps per second.
// The first call to ShouldStep fires immediately.
func NewFixedStep(perSecond int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetRate(perSecond)
	fs.accumulator = fs.step
	return fs
}

// SetRate changes the step rate. Non-positive rates select one per second.
func (f *FixedStep) SetRate(perSecond int) {
	if perSecond <= 0 {
		perSecond = 1
	}
	f.step = time.Second / time.Duration(perSecond)
}

// Rate returns the current steps per second.
func (f *FixedStep) Rate() int { return int(time.Second / f.step) }

// Reset drops accumulated time so the next step fires immediately.
func (f *FixedStep) Reset() {
	f.last = time.Time{}
	f.accumulator = f.step
}

// ShouldStep reports whether one step is due. At most one step is reported
// per call; a backlog is capped at a single step.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	if f.accumulator < f.step {
		return false
	}
	f.accumulator -= f.step
	if f.accumulator > f.step {
		f.accumulator = f.step
	}
	return true
}
