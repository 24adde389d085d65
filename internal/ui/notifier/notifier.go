// Package notifier provides the broadcast ping that tells connected
// SSE clients to re-render. It is a thin veneer over a reactive value:
// listeners receive an empty struct and re-query whatever they render.
package notifier

import "github.com/quarry-labs/quarry/internal/reactive"

// Notifier broadcasts update pings to all subscribed listeners.
type Notifier struct {
	v *reactive.Value[struct{}]
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{v: reactive.NewValue(struct{}{})}
}

// Subscribe returns a channel that receives pings when updates are
// available. The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan struct{} {
	return n.v.Subscribe()
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.v.Unsubscribe(ch)
}

// Broadcast sends a ping to all listeners. Non-blocking: a listener
// that has not drained its previous ping is skipped.
func (n *Notifier) Broadcast() {
	n.v.Set(struct{}{})
}
