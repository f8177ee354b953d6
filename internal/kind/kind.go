// Package kind classifies construction-environment values as strings,
// lists, or dicts. User-defined wrapper types classify as the kind they
// wrap, the way subclasses of the classic User* container classes do.
//
// Several interchangeable predicate implementations are kept side by
// side; they differ only in dispatch strategy and are benchmarked
// against each other to pick the variant the rest of the code uses.
package kind

import "reflect"

// Kind is the classification of a value.
type Kind int

const (
	Other Kind = iota
	String
	List
	Dict
)

// StringLike is implemented by wrapper types that behave as strings.
type StringLike interface {
	AsString() string
}

// ListLike is implemented by wrapper types that behave as lists.
type ListLike interface {
	AsList() []any
}

// DictLike is implemented by wrapper types that behave as dicts.
type DictLike interface {
	AsDict() map[string]any
}

// UserString wraps a string and classifies as one.
type UserString struct {
	Value string
}

func (u UserString) AsString() string { return u.Value }

// UserList wraps a list and classifies as one.
type UserList struct {
	Items []any
}

func (u UserList) AsList() []any { return u.Items }

// UserDict wraps a dict and classifies as one.
type UserDict struct {
	Entries map[string]any
}

func (u UserDict) AsDict() map[string]any { return u.Entries }

// The typeswitch variants dispatch on a single type switch naming the
// builtin and wrapper types explicitly.

func TypeSwitchIsString(v any) bool {
	switch v.(type) {
	case string, UserString, *UserString:
		return true
	}
	return false
}

func TypeSwitchIsList(v any) bool {
	switch v.(type) {
	case []any, UserList, *UserList:
		return true
	}
	return false
}

func TypeSwitchIsDict(v any) bool {
	switch v.(type) {
	case map[string]any, UserDict, *UserDict:
		return true
	}
	return false
}

// The assert variants check the builtin type first with a direct
// assertion and fall back to the wrapper interface, so the common case
// of a plain builtin costs one assertion.

func AssertIsString(v any) bool {
	if _, ok := v.(string); ok {
		return true
	}
	_, ok := v.(StringLike)
	return ok
}

func AssertIsList(v any) bool {
	if _, ok := v.([]any); ok {
		return true
	}
	_, ok := v.(ListLike)
	return ok
}

func AssertIsDict(v any) bool {
	if _, ok := v.(map[string]any); ok {
		return true
	}
	_, ok := v.(DictLike)
	return ok
}

// The reflect variants compare reflect.Kind and fall back to the
// wrapper interface.

func ReflectIsString(v any) bool {
	if reflect.ValueOf(v).Kind() == reflect.String {
		return true
	}
	_, ok := v.(StringLike)
	return ok
}

func ReflectIsList(v any) bool {
	if reflect.ValueOf(v).Kind() == reflect.Slice {
		return true
	}
	_, ok := v.(ListLike)
	return ok
}

func ReflectIsDict(v any) bool {
	if reflect.ValueOf(v).Kind() == reflect.Map {
		return true
	}
	_, ok := v.(DictLike)
	return ok
}

// The kindmap variants consult a package-level table mapping the
// wrapper types to their underlying kind, with a reflect.Kind check for
// everything else.

var kindMap = map[reflect.Type]Kind{
	reflect.TypeOf(UserString{}):  String,
	reflect.TypeOf(&UserString{}): String,
	reflect.TypeOf(UserList{}):    List,
	reflect.TypeOf(&UserList{}):   List,
	reflect.TypeOf(UserDict{}):    Dict,
	reflect.TypeOf(&UserDict{}):   Dict,
}

// KindOf resolves a value's classification through the kind table.
func KindOf(v any) Kind {
	t := reflect.TypeOf(v)
	if t == nil {
		return Other
	}
	if k, ok := kindMap[t]; ok {
		return k
	}
	switch t.Kind() {
	case reflect.String:
		return String
	case reflect.Slice:
		return List
	case reflect.Map:
		return Dict
	default:
		return Other
	}
}

func KindMapIsString(v any) bool { return KindOf(v) == String }

func KindMapIsList(v any) bool { return KindOf(v) == List }

func KindMapIsDict(v any) bool { return KindOf(v) == Dict }
