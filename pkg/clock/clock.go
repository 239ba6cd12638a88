package clock

import "time"

// Clock abstracts the current instant so expiry checks can be tested
// against a fixed point in time.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

type systemClock struct{}

// New returns a Clock backed by the system time in UTC.
func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func (systemClock) Since(t time.Time) time.Duration {
	return time.Now().UTC().Sub(t)
}

// Fixed is a Clock pinned to an instant. Tests advance it explicitly.
type Fixed struct {
	Current time.Time
}

// NewFixed creates a Fixed clock starting at the given instant.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{Current: t}
}

func (f *Fixed) Now() time.Time {
	return f.Current
}

func (f *Fixed) Since(t time.Time) time.Duration {
	return f.Current.Sub(t)
}

// Advance moves the fixed clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.Current = f.Current.Add(d)
}
