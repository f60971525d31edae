package action

// ActionKey is the opaque identity of a bound handler. Implementations must be
// comparable values so two keys can be compared with ==.
type ActionKey interface {
	// String returns a stable representation of the key.
	String() string
}

// NamedKey is an ActionKey identified by a fixed name, used for built-in
// actions such as the not-found fallback.
type NamedKey string

// String implements ActionKey.
func (k NamedKey) String() string { return string(k) }
