package inventory

import "time"

// DefaultReturnWindow is how long a pending return confirmation stays valid.
const DefaultReturnWindow = 10 * time.Second

// Decision is the outcome of a return request on a checked-out item.
type Decision int

const (
	// Pending means the scan armed (or re-armed) the confirmation and the
	// item must be scanned once more to actually return it.
	Pending Decision = iota
	// Confirmed means the scan was the second one inside the window and the
	// return should be performed.
	Confirmed
)

// returnGate tracks the single outstanding double-scan confirmation. It exists
// so an accidental re-scan cannot silently return a checked-out item: the
// first scan arms the gate, only a second scan of the same code inside the
// window confirms. The state is process-local and lost on restart, which at
// worst costs the operator one extra scan.
type returnGate struct {
	window time.Duration
	code   string
	setAt  time.Time
}

// requestReturn decides whether a scan of a checked-out item confirms a
// return. Anything other than a repeat scan of the armed code inside the
// window re-arms the gate for the scanned code.
func (g *returnGate) requestReturn(code string, now time.Time) Decision {
	if g.code == code && !g.setAt.IsZero() && now.Sub(g.setAt) <= g.window {
		g.reset()
		return Confirmed
	}
	g.code = code
	g.setAt = now
	return Pending
}

// reset clears any pending confirmation. Called after every successful take so
// a stale confirmation from a previous cycle cannot leak into the next one.
func (g *returnGate) reset() {
	g.code = ""
	g.setAt = time.Time{}
}
