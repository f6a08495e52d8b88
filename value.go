package keyspace

import (
	"fmt"
	"strconv"
)

// Value is the three-way result of a read: a present scalar or the absent
// marker. A present but empty or zero value is distinct from absent, so a
// stored "" or 0 never collapses into a caller-supplied default.
type Value struct {
	raw     []byte
	present bool
}

// newValue wraps a raw store reply as a present Value.
func newValue(b []byte) Value {
	return Value{raw: b, present: true}
}

// Present reports whether the key or field existed in the store.
func (v Value) Present() bool {
	return v.present
}

// Str returns the raw value as a string, or "" when absent.
func (v Value) Str() string {
	return string(v.raw)
}

// Bytes returns the raw value, or nil when absent.
func (v Value) Bytes() []byte {
	return v.raw
}

// Or returns the value as a string, substituting def only when the value is
// absent. A present empty string is returned as-is.
func (v Value) Or(def string) string {
	if !v.present {
		return def
	}
	return string(v.raw)
}

// Int parses the value as a base-10 integer. Returns ErrNotFound when the
// value is absent.
func (v Value) Int() (int64, error) {
	if !v.present {
		return 0, ErrNotFound
	}
	return strconv.ParseInt(string(v.raw), 10, 64)
}

// Float parses the value as a float. Returns ErrNotFound when the value is
// absent.
func (v Value) Float() (float64, error) {
	if !v.present {
		return 0, ErrNotFound
	}
	return strconv.ParseFloat(string(v.raw), 64)
}

// encodeValue converts a scalar into its wire form. Supported kinds are
// strings, byte slices, booleans, integers and floats; anything else fails
// validation. nil encodes as the empty string, matching the write defaults.
func encodeValue(v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return []byte{}, nil
	case string:
		return []byte(t), nil
	case []byte:
		return t, nil
	case bool:
		return strconv.AppendBool(nil, t), nil
	case int:
		return strconv.AppendInt(nil, int64(t), 10), nil
	case int8:
		return strconv.AppendInt(nil, int64(t), 10), nil
	case int16:
		return strconv.AppendInt(nil, int64(t), 10), nil
	case int32:
		return strconv.AppendInt(nil, int64(t), 10), nil
	case int64:
		return strconv.AppendInt(nil, t, 10), nil
	case uint:
		return strconv.AppendUint(nil, uint64(t), 10), nil
	case uint8:
		return strconv.AppendUint(nil, uint64(t), 10), nil
	case uint16:
		return strconv.AppendUint(nil, uint64(t), 10), nil
	case uint32:
		return strconv.AppendUint(nil, uint64(t), 10), nil
	case uint64:
		return strconv.AppendUint(nil, t, 10), nil
	case float32:
		return strconv.AppendFloat(nil, float64(t), 'g', -1, 32), nil
	case float64:
		return strconv.AppendFloat(nil, t, 'g', -1, 64), nil
	default:
		return nil, NewValidationError(fmt.Sprintf("Values of type %T are not supported.", v))
	}
}
