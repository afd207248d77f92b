package sandbox

import (
	"fmt"
	"sync"

	"github.com/taskforge/orchestrator/internal/orcherr"
)

// Capacity is process-wide rather than per-Adapter: every Agent privately
// owns a *sandbox.Adapter (spec.md §9's ownership decision), but
// MaxSessions must still cap the total number of concurrently running
// subprocesses across all of them.
var (
	capMu     sync.Mutex
	capMax    int
	capActive = map[string]bool{}
)

// SetMaxSessions configures the process-wide cap. n <= 0 means unlimited.
// Intended to be called once at startup from cmd/orchestratord.
func SetMaxSessions(n int) {
	capMu.Lock()
	defer capMu.Unlock()
	capMax = n
}

// ActiveCount returns the number of sandbox executions currently in
// flight, process-wide.
func ActiveCount() int {
	capMu.Lock()
	defer capMu.Unlock()
	return len(capActive)
}

// acquireCapacity reserves a capacity slot for sessionID, failing with
// ResourceExhausted when the process-wide cap is already reached.
func acquireCapacity(sessionID string) error {
	capMu.Lock()
	defer capMu.Unlock()
	if capMax > 0 && len(capActive) >= capMax {
		return fmt.Errorf("%w: sandbox at capacity (%d active)", orcherr.ErrResourceExhausted, len(capActive))
	}
	capActive[sessionID] = true
	return nil
}

// releaseCapacity frees sessionID's slot. Safe to call even if the slot
// was never acquired.
func releaseCapacity(sessionID string) {
	capMu.Lock()
	defer capMu.Unlock()
	delete(capActive, sessionID)
}
