package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// FormField is a single user-supplied answer. Values keep the JSON shape the
// submitter sent; numbers stay as json.Number so nothing is silently
// converted to float64 on the way through.
type FormField struct {
	Key   string
	Value any
}

// FormData preserves the submission's field order across storage and
// transport. The marshalled form is a plain JSON object.
type FormData []FormField

func (f FormData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(field.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal form field %q: %w", field.Key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (f *FormData) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("form data must be a JSON object")
	}

	fields := FormData{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.New("form data key is not a string")
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode form field %q: %w", key, err)
		}
		fields = append(fields, FormField{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*f = fields
	return nil
}

func (f FormData) Get(key string) (any, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

// DefaultListingDuration applies when the form carries no usable
// listingDuration field.
const DefaultListingDuration = 168 * time.Hour

// ListingDuration reads the optional listingDuration field, interpreted as a
// whole number of hours. Malformed or non-positive values fall back to the
// default rather than failing the submission.
func (f FormData) ListingDuration() time.Duration {
	raw, ok := f.Get("listingDuration")
	if !ok {
		return DefaultListingDuration
	}
	hours, ok := asHours(raw)
	if !ok || hours <= 0 {
		return DefaultListingDuration
	}
	return time.Duration(hours) * time.Hour
}

func asHours(raw any) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}
