package action

// Serializable wraps a content value with an optional explicit TypeTag. An
// explicit tag always wins over the type inferred from a handler's declared
// return type.
type Serializable struct {
	value any
	tag   TypeTag
}

// Of wraps v without an explicit type tag.
func Of(v any) Serializable {
	return Serializable{value: v}
}

// Typed wraps v with an explicit type tag.
func Typed(v any, tag TypeTag) Serializable {
	return Serializable{value: v, tag: tag}
}

// Value returns the wrapped value.
func (s Serializable) Value() any { return s.value }

// ExplicitType returns the explicit tag, if any.
func (s Serializable) ExplicitType() (TypeTag, bool) {
	return s.tag, !s.tag.IsZero()
}

// TypeTag returns the explicit tag when present, otherwise the dynamic type
// of the value.
func (s Serializable) TypeTag() TypeTag {
	if !s.tag.IsZero() {
		return s.tag
	}
	return TagOf(s.value)
}

// WithTypeTag returns a copy carrying tag as its explicit tag. A Serializable
// that already has an explicit tag is returned unchanged.
func (s Serializable) WithTypeTag(tag TypeTag) Serializable {
	if !s.tag.IsZero() {
		return s
	}
	return Serializable{value: s.value, tag: tag}
}
