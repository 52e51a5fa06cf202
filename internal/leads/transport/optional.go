package transport

import (
	"bytes"
	"encoding/json"
)

// OptionalInt16 distinguishes an absent field from an explicit null. A
// status-change request that omits the sub-status behaves differently from
// one that explicitly clears it, so plain pointers are not enough.
type OptionalInt16 struct {
	Value *int16
	Set   bool
}

// UnmarshalJSON marks the field as set; "null" yields a nil Value.
func (o *OptionalInt16) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON encodes the value, or null when unset/cleared.
func (o OptionalInt16) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
