package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is a flat mapping from field name to an optional string that
// remembers the order keys were first set in.
type Record struct {
	keys   []string
	values map[string]*string
}

func NewRecord() Record {
	return Record{values: make(map[string]*string)}
}

// Set stores value under key. A nil value is an explicit null.
func (r *Record) Set(key string, value *string) {
	if r.values == nil {
		r.values = make(map[string]*string)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	if value != nil {
		v := *value
		value = &v
	}
	r.values[key] = value
}

// Get returns the value stored under key and whether the key exists.
func (r Record) Get(key string) (*string, bool) {
	value, ok := r.values[key]
	return value, ok
}

// Value returns the string under key and false when it is null or missing.
func (r Record) Value(key string) (string, bool) {
	value, ok := r.values[key]
	if !ok || value == nil {
		return "", false
	}
	return *value, true
}

// Keys returns the record's keys in insertion order.
func (r Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

func (r Record) Len() int {
	return len(r.keys)
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	out := bytes.NewBufferString("{")
	for i, key := range r.keys {
		if i > 0 {
			out.WriteByte(',')
		}

		buf.Reset()
		if err := enc.Encode(key); err != nil {
			return nil, err
		}
		out.Write(bytes.TrimRight(buf.Bytes(), "\n"))
		out.WriteByte(':')

		value := r.values[key]
		if value == nil {
			out.WriteString("null")
			continue
		}
		buf.Reset()
		if err := enc.Encode(*value); err != nil {
			return nil, err
		}
		out.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object, got %v", tok)
	}

	decoded := NewRecord()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected record key %v", tok)
		}

		var value *string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		decoded.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = decoded
	return nil
}
