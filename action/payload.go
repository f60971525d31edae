package action

// Payload is an already-encoded body. Request bodies are exposed as a Payload
// and handlers returning one bypass content negotiation entirely.
type Payload []byte

// Len returns the payload size in bytes.
func (p Payload) Len() int { return len(p) }
