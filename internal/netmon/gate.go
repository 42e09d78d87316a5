package netmon

import (
	"github.com/fableforge/fable-sync/internal/logger"
)

// NetworkGate sits between the connectivity monitor and the coordinator.
// It caches the current state for cheap checks on the drain path and
// fires the restore trigger on every offline→online transition. An
// offline transition only stops new dequeues: whatever is already
// in-flight finishes and its result is applied either way.
type NetworkGate struct {
	monitor     ConnectivityMonitor
	log         *logger.Logger
	onRestore   func()
	unsubscribe func()
}

// NewNetworkGate subscribes to monitor and calls onRestore each time
// connectivity comes back.
func NewNetworkGate(monitor ConnectivityMonitor, onRestore func(), log *logger.Logger) *NetworkGate {
	g := &NetworkGate{
		monitor:   monitor,
		log:       log,
		onRestore: onRestore,
	}
	g.unsubscribe = monitor.OnChange(g.handleChange)
	return g
}

func (g *NetworkGate) handleChange(online bool) {
	if !online {
		g.log.Info().Msg("went offline, halting new dequeues")
		return
	}

	g.log.Info().Msg("connectivity restored, triggering drain")
	if g.onRestore != nil {
		g.onRestore()
	}
}

// Online returns the monitor's current state.
func (g *NetworkGate) Online() bool {
	return g.monitor.IsOnline()
}

// Close detaches the gate from the monitor.
func (g *NetworkGate) Close() {
	if g.unsubscribe != nil {
		g.unsubscribe()
		g.unsubscribe = nil
	}
}
