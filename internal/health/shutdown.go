package health

import "sync/atomic"

var notReady atomic.Bool

// SetReady flips the readiness gate. Servers call SetReady(false) when
// draining so load balancers stop routing new requests.
func SetReady(ready bool) {
	notReady.Store(!ready)
}
