// Package notify implements the inbound HTTP listener for the mood node.
//
// The remote CSE delivers subscription notifications here: verification
// handshakes are acknowledged immediately, and event notifications carrying a
// lamp switch or colour representation update the shared actuator state. The
// listener also exposes a small diagnostic surface (health, status snapshot,
// and a WebSocket event stream) for local inspection.
//
// The server follows the same lifecycle pattern as the other long-lived
// components:
//
//	server, err := notify.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package notify
