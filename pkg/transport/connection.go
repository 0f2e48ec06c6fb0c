// Package transport defines the boundary between the session protocol and
// the wire. spec.md §1 treats "the WebSocket framing/handshake mechanics"
// as an external collaborator; Connection is that collaborator's contract.
// Only pkg/transport/ws (the real implementation, for cmd/chessroomd) and
// tests import anything concrete -- pkg/session depends solely on this
// interface.
package transport

import "context"

// Connection is a persistent bidirectional text-message channel to one
// client, per spec.md §6.
type Connection interface {
	// ReadMessage blocks until one client message arrives, the connection
	// is closed, or ctx is done.
	ReadMessage(ctx context.Context) ([]byte, error)
	// WriteMessage sends one message to the client. Implementations must
	// serialize concurrent calls so that no two writes overlap (spec.md §5).
	WriteMessage(ctx context.Context, data []byte) error
	// Close releases the underlying transport. Idempotent.
	Close() error
}
