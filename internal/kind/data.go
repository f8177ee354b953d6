package kind

// Datum is one labelled value used to parametrize the predicate tests
// and benchmarks.
type Datum struct {
	Label string
	Value any
	Kind  Kind
}

type object struct{}

// Data is the fixed table of representative values: one per builtin
// kind, one per wrapper type, and a plain object that classifies as
// none of them. Constructed once, never mutated.
var Data = []Datum{
	{Label: "String", Value: "", Kind: String},
	{Label: "List", Value: []any{}, Kind: List},
	{Label: "Dict", Value: map[string]any{}, Kind: Dict},
	{Label: "UserString", Value: UserString{}, Kind: String},
	{Label: "UserList", Value: UserList{}, Kind: List},
	{Label: "UserDict", Value: UserDict{}, Kind: Dict},
	{Label: "Object", Value: object{}, Kind: Other},
}
