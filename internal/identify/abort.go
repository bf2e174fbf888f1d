package identify

import "sync/atomic"

// Abort is the cooperative cancellation flag the host application shares
// with a running lookup. Tasks poll it between waits; it never preempts an
// in-flight request. A nil *Abort is never set.
type Abort struct {
	flag atomic.Bool
}

// NewAbort returns an unset abort flag.
func NewAbort() *Abort {
	return &Abort{}
}

// Set marks the lookup as aborted.
func (a *Abort) Set() {
	if a != nil {
		a.flag.Store(true)
	}
}

// IsSet reports whether the lookup was aborted.
func (a *Abort) IsSet() bool {
	return a != nil && a.flag.Load()
}
