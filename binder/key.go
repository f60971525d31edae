package binder

import (
	"reflect"
	"strings"
)

// MethodKey identifies a controller method by its declaring type, name and
// ordered parameter types. Two controller instances of the same type share
// their keys.
type MethodKey struct {
	Type   string
	Method string
	Params string
}

// String renders the key as "Type#Method(p1,p2)".
func (k MethodKey) String() string {
	return k.Type + "#" + k.Method + "(" + k.Params + ")"
}

func newMethodKey(typeName string, m Method) MethodKey {
	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		names[i] = p.Type.String()
	}
	return MethodKey{Type: typeName, Method: m.Name, Params: strings.Join(names, ",")}
}

// controllerName returns the qualified name of the controller's type.
func controllerName(controller Controller) string {
	t := reflect.TypeOf(controller)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
