package domain

import (
	"encoding/json"
	"math"
	"unicode/utf16"

	"go.trai.ch/zerr"
)

// Values handled here are JSON-like: nil, bool, numbers, string, []any and map[string]any.
// Typed slices and maps of other shapes should go through Snapshot first.

// Hash returns a non-cryptographic structural hash of v.
// Equal values always hash the same; the converse does not hold.
func Hash(v any) uint32 {
	return uint32(abs32(hashValue(v)))
}

//nolint:cyclop // one case per JSON kind
func hashValue(v any) int32 {
	switch x := v.(type) {
	case nil:
		return 0
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		return hashString(x)
	case []any:
		var h int32
		for _, e := range x {
			h ^= hashValue(e)
		}
		return abs32(h)
	case map[string]any:
		var h int32
		for _, e := range x {
			h ^= hashValue(e)
		}
		return abs32(h)
	default:
		if f, ok := toNumber(v); ok {
			return hashNumber(f)
		}
		return 0
	}
}

func hashString(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	return abs32(h)
}

func hashNumber(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	// Magnitudes of 2^31 and above wrap to negative values.
	t := math.Mod(math.Trunc(math.Abs(f)), 1<<32)
	return int32(uint32(t))
}

// abs32 wraps like a 32-bit integer: the absolute value of MinInt32 stays MinInt32.
func abs32(h int32) int32 {
	if h < 0 {
		return -h
	}
	return h
}

// Equal reports whether a and b are structurally equal.
// Maps are compared by key set and value, lists element-wise in order,
// and primitives by value. Values of different kinds are never equal.
//
//nolint:cyclop // one case per JSON kind
func Equal(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, present := y[k]
			if !present || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		xf, xok := toNumber(a)
		yf, yok := toNumber(b)
		return xok && yok && xf == yf
	}
}

// Changed reports whether cur differs structurally from prev.
func Changed(prev, cur any) bool {
	if Hash(prev) != Hash(cur) {
		return true
	}
	return !Equal(prev, cur)
}

// Snapshot converts v into its JSON-like structural form.
func Snapshot(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to snapshot value")
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, zerr.Wrap(err, "failed to snapshot value")
	}
	return out, nil
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
