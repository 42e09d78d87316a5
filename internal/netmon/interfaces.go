// Package netmon watches connectivity to the remote endpoint and turns
// offline→online transitions into queue drain triggers.
package netmon

//go:generate mockgen -source=interfaces.go -destination=../mock/netmon.go -package=mock

// ConnectivityMonitor reports whether the remote endpoint is reachable
// and notifies subscribers on every state transition.
type ConnectivityMonitor interface {
	// IsOnline returns the last observed connectivity state.
	IsOnline() bool
	// OnChange registers a callback invoked on every transition. The
	// returned function removes the subscription.
	OnChange(callback func(online bool)) (unsubscribe func())
}
