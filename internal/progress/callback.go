// Package progress provides progress reporting for long-running calculations.
package progress

// Callback reports progress during long operations.
//   - current: number of items completed
//   - total: total number of items
//   - message: human-readable description of the current phase
//
// A nil Callback is valid and is ignored by Call.
type Callback func(current, total int, message string)

// Call invokes cb if it is non-nil.
func Call(cb Callback, current, total int, message string) {
	if cb != nil {
		cb(current, total, message)
	}
}

// Update is a progress frame as streamed to clients.
type Update struct {
	Phase   string  `json:"phase"`
	Current int     `json:"current"`
	Total   int     `json:"total"`
	Message string  `json:"message,omitempty"`
	Percent float64 `json:"percent"`
}

// NewUpdate builds an Update for phase from a Callback's arguments.
func NewUpdate(phase string, current, total int, message string) Update {
	pct := 0.0
	if total > 0 {
		pct = float64(current) / float64(total) * 100
	}
	return Update{Phase: phase, Current: current, Total: total, Message: message, Percent: pct}
}

// Forward returns a Callback that converts every call into an Update for phase and hands it to
// send. A nil send yields a nil Callback.
func Forward(phase string, send func(Update)) Callback {
	if send == nil {
		return nil
	}
	return func(current, total int, message string) {
		send(NewUpdate(phase, current, total, message))
	}
}
