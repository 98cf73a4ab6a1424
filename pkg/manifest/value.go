package manifest

import (
	"sort"
	"time"
)

// Kind identifies which variant a [Value] holds.
type Kind int

const (
	KindInvalid Kind = iota // zero Value; returned for missing keys
	KindString
	KindInteger
	KindFloat
	KindBool
	KindDatetime
	KindTable
	KindArray
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindString:   "string",
	KindInteger:  "integer",
	KindFloat:    "float",
	KindBool:     "bool",
	KindDatetime: "datetime",
	KindTable:    "table",
	KindArray:    "array",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Value is one node of a parsed manifest.
// The zero Value has kind [KindInvalid].
type Value struct {
	kind  Kind
	str   string
	num   int64
	float float64
	flag  bool
	time  time.Time
	table map[string]Value
	array []Value
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds anything.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) { return v.num, v.kind == KindInteger }

// AsFloat returns the float held by v.
func (v Value) AsFloat() (float64, bool) { return v.float, v.kind == KindFloat }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.flag, v.kind == KindBool }

// AsTime returns the datetime held by v.
func (v Value) AsTime() (time.Time, bool) { return v.time, v.kind == KindDatetime }

// AsArray returns the elements held by v.
func (v Value) AsArray() ([]Value, bool) { return v.array, v.kind == KindArray }

// Len returns the number of keys of a table or elements of an array.
func (v Value) Len() int {
	switch v.kind {
	case KindTable:
		return len(v.table)
	case KindArray:
		return len(v.array)
	}
	return 0
}

// Keys returns the sorted keys of a table, or nil for other kinds.
func (v Value) Keys() []string {
	if v.kind != KindTable {
		return nil
	}
	keys := make([]string, 0, len(v.table))
	for k := range v.table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value stored under key. It returns the zero Value when v
// is not a table or the key is missing.
func (v Value) Get(key string) Value {
	if v.kind != KindTable {
		return Value{}
	}
	return v.table[key]
}

// Lookup walks path through nested tables.
// ok is false if any key is missing or any intermediate value is not a table.
func (v Value) Lookup(path ...string) (Value, bool) {
	cur := v
	for _, key := range path {
		cur = cur.Get(key)
		if !cur.IsValid() {
			return Value{}, false
		}
	}
	return cur, cur.IsValid()
}

// LookupBool returns the boolean at path, or def if the path is missing or
// holds a non-boolean value.
func (v Value) LookupBool(def bool, path ...string) bool {
	got, ok := v.Lookup(path...)
	if !ok {
		return def
	}
	b, ok := got.AsBool()
	if !ok {
		return def
	}
	return b
}

// LookupString returns the string at path, or def if the path is missing or
// holds a non-string value.
func (v Value) LookupString(def string, path ...string) string {
	got, ok := v.Lookup(path...)
	if !ok {
		return def
	}
	s, ok := got.AsString()
	if !ok {
		return def
	}
	return s
}

// fromRaw converts decoder output into a Value tree.
func fromRaw(raw any) Value {
	switch x := raw.(type) {
	case string:
		return Value{kind: KindString, str: x}
	case int64:
		return Value{kind: KindInteger, num: x}
	case int:
		return Value{kind: KindInteger, num: int64(x)}
	case float64:
		return Value{kind: KindFloat, float: x}
	case bool:
		return Value{kind: KindBool, flag: x}
	case time.Time:
		return Value{kind: KindDatetime, time: x}
	case map[string]any:
		table := make(map[string]Value, len(x))
		for k, elem := range x {
			table[k] = fromRaw(elem)
		}
		return Value{kind: KindTable, table: table}
	case []map[string]any:
		arr := make([]Value, len(x))
		for i, elem := range x {
			arr[i] = fromRaw(elem)
		}
		return Value{kind: KindArray, array: arr}
	case []any:
		arr := make([]Value, len(x))
		for i, elem := range x {
			arr[i] = fromRaw(elem)
		}
		return Value{kind: KindArray, array: arr}
	}
	return Value{}
}
