package transport

import (
	"encoding/json"
	"testing"
)

func TestOptionalInt16Unmarshal(t *testing.T) {
	type payload struct {
		Sub OptionalInt16 `json:"sub"`
	}

	var absent payload
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil {
		t.Fatal(err)
	}
	if absent.Sub.Set {
		t.Error("omitted field reported as set")
	}

	var null payload
	if err := json.Unmarshal([]byte(`{"sub": null}`), &null); err != nil {
		t.Fatal(err)
	}
	if !null.Sub.Set || null.Sub.Value != nil {
		t.Errorf("explicit null = %+v, want set with nil value", null.Sub)
	}

	var value payload
	if err := json.Unmarshal([]byte(`{"sub": 3}`), &value); err != nil {
		t.Fatal(err)
	}
	if !value.Sub.Set || value.Sub.Value == nil || *value.Sub.Value != 3 {
		t.Errorf("concrete value = %+v, want set with 3", value.Sub)
	}
}

func TestOptionalInt16Marshal(t *testing.T) {
	v := int16(5)
	got, err := json.Marshal(OptionalInt16{Value: &v, Set: true})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "5" {
		t.Errorf("marshal = %s, want 5", got)
	}

	got, err = json.Marshal(OptionalInt16{Set: true})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "null" {
		t.Errorf("marshal cleared = %s, want null", got)
	}
}
