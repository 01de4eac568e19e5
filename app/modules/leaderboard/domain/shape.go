package leaderboarddomain

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// Shape is the detected layout of a leaderboard payload.
type Shape int

const (
	// ShapeEmpty covers null, scalars, malformed JSON and arrays whose first
	// element is a scalar.
	ShapeEmpty Shape = iota
	// ShapeObjectMap is an object keyed by player name: {"Alice": {...stats}}.
	ShapeObjectMap
	// ShapeObjectArray is an array of stat objects: [{"name": "Alice", ...}].
	// An empty array is also reported as ShapeObjectArray.
	ShapeObjectArray
	// ShapePairArray is an array of [name, time] pairs.
	ShapePairArray
)

func (s Shape) String() string {
	switch s {
	case ShapeObjectMap:
		return "object_map"
	case ShapeObjectArray:
		return "object_array"
	case ShapePairArray:
		return "pair_array"
	default:
		return "empty"
	}
}

// Payload is a leaderboard response whose shape has been detected but whose
// entries have not yet been extracted.
type Payload struct {
	Shape Shape
	root  gjson.Result
}

// DetectShape classifies a raw leaderboard response. It never fails.
func DetectShape(raw []byte) Payload {
	if !gjson.ValidBytes(raw) {
		return Payload{Shape: ShapeEmpty}
	}

	root := gjson.ParseBytes(raw)
	switch {
	case root.IsObject():
		return Payload{Shape: ShapeObjectMap, root: root}
	case root.IsArray():
		first := root.Get("0")
		switch {
		case !first.Exists(), first.IsObject():
			return Payload{Shape: ShapeObjectArray, root: root}
		case first.IsArray():
			return Payload{Shape: ShapePairArray, root: root}
		}
	}
	return Payload{Shape: ShapeEmpty}
}

// Normalize converts a raw leaderboard response into entries in payload order.
func Normalize(raw []byte) []PlayerEntry {
	return DetectShape(raw).Entries()
}

// Entries extracts one PlayerEntry per element of the payload. Elements that do
// not match the detected shape are skipped.
func (p Payload) Entries() []PlayerEntry {
	entries := []PlayerEntry{}

	switch p.Shape {
	case ShapeObjectMap:
		p.root.ForEach(func(key, stats gjson.Result) bool {
			entry := PlayerEntry{Name: key.String()}
			// stats fields are applied after the key, so a "name" stat wins.
			spreadObject(&entry, stats)
			entries = append(entries, entry)
			return true
		})

	case ShapeObjectArray:
		p.root.ForEach(func(_, element gjson.Result) bool {
			if !element.IsObject() {
				return true
			}
			entry := PlayerEntry{Name: nameText(element.Get("name"))}
			spreadObject(&entry, element)
			entries = append(entries, entry)
			return true
		})

	case ShapePairArray:
		p.root.ForEach(func(_, element gjson.Result) bool {
			if !element.IsArray() {
				return true
			}
			pair := element.Array()
			entry := PlayerEntry{}
			if len(pair) > 0 {
				entry.Name = nameText(pair[0])
			}
			if len(pair) > 1 {
				entry.set("time", valueOf(pair[1]))
			}
			entries = append(entries, entry)
			return true
		})
	}

	return entries
}

func spreadObject(entry *PlayerEntry, obj gjson.Result) {
	if !obj.IsObject() {
		return
	}
	obj.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if k == "name" {
			entry.Name = nameText(value)
			return true
		}
		entry.set(k, valueOf(value))
		return true
	})
}

func nameText(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return strconv.FormatFloat(r.Num, 'f', -1, 64)
	case gjson.Null:
		return ""
	default:
		return r.Raw
	}
}

func valueOf(r gjson.Result) Value {
	switch r.Type {
	case gjson.Number:
		return NumberValue(r.Num)
	case gjson.String:
		return StringValue(r.Str)
	case gjson.True:
		return BoolValue(true)
	case gjson.False:
		return BoolValue(false)
	case gjson.Null:
		return NullValue()
	default:
		return RawValue(r.Raw)
	}
}
