package we

import (
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
)

// Named lets commands, events and entities override their derived name.
type Named interface {
	TypeName() string
}

// NameOf returns "package:kebab-type" for a value, unless it is Named.
func NameOf(value any) string {
	if typed, ok := value.(Named); ok {
		return typed.TypeName()
	}

	split := strings.Split(reflect.TypeOf(value).String(), ".")
	segments := make([]string, len(split))
	for i, segment := range split {
		s := strings.TrimLeft(segment, "*")
		segments[i] = strcase.ToKebab(s)
	}

	namespace := segments[0]
	name := strings.Join(segments[1:], "-")

	return namespace + ":" + name
}
