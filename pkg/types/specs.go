package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// SpecKind tags the dynamic type held by a SpecValue.
type SpecKind string

const (
	SpecKindString SpecKind = "string"
	SpecKindNumber SpecKind = "number"
	SpecKindBool   SpecKind = "bool"
	SpecKindNull   SpecKind = "null"
	SpecKindList   SpecKind = "list"
)

var errNestedSpecObject = errors.New("specs: nested objects are not supported")

// SpecValue is a scalar or list value attached to a product spec key.
type SpecValue struct {
	Kind   SpecKind
	String string
	Number float64
	Bool   bool
	List   []SpecValue
}

func StringSpec(v string) SpecValue     { return SpecValue{Kind: SpecKindString, String: v} }
func NumberSpec(v float64) SpecValue    { return SpecValue{Kind: SpecKindNumber, Number: v} }
func BoolSpec(v bool) SpecValue         { return SpecValue{Kind: SpecKindBool, Bool: v} }
func NullSpec() SpecValue               { return SpecValue{Kind: SpecKindNull} }
func ListSpec(v ...SpecValue) SpecValue { return SpecValue{Kind: SpecKindList, List: v} }

func (v SpecValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case SpecKindString:
		return json.Marshal(v.String)
	case SpecKindNumber:
		return []byte(strconv.FormatFloat(v.Number, 'f', -1, 64)), nil
	case SpecKindBool:
		return json.Marshal(v.Bool)
	case SpecKindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	case SpecKindNull, "":
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("specs: unknown kind %q", v.Kind)
	}
}

func (v *SpecValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("specs: empty value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringSpec(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolSpec(b)
	case 'n':
		*v = NullSpec()
	case '[':
		var list []SpecValue
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		if list == nil {
			list = []SpecValue{}
		}
		*v = ListSpec(list...)
	case '{':
		return errNestedSpecObject
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("specs: invalid number %s", data)
		}
		*v = NumberSpec(n)
	}
	return nil
}

// SpecEntry is one key/value pair in a Specs mapping.
type SpecEntry struct {
	Key   string
	Value SpecValue
}

// Specs is an insertion-ordered mapping from spec name to value.
type Specs []SpecEntry

// Get returns the value stored under key.
func (s Specs) Get(key string) (SpecValue, bool) {
	for _, entry := range s {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return SpecValue{}, false
}

// Set replaces the value for an existing key in place or appends a new entry.
func (s *Specs) Set(key string, value SpecValue) {
	for i := range *s {
		if (*s)[i].Key == key {
			(*s)[i].Value = value
			return
		}
	}
	*s = append(*s, SpecEntry{Key: key, Value: value})
}

// Keys lists spec names in order.
func (s Specs) Keys() []string {
	keys := make([]string, 0, len(s))
	for _, entry := range s {
		keys = append(keys, entry.Key)
	}
	return keys
}

func (s Specs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := entry.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Specs) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("specs: expected a JSON object")
	}

	out := Specs{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("specs: unexpected key token %v", keyTok)
		}
		var value SpecValue
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("specs: key %q: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

func (s Specs) Value() (driver.Value, error) {
	payload, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

func (s *Specs) Scan(value interface{}) error {
	if value == nil {
		*s = Specs{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return s.UnmarshalJSON(raw)
}

func (Specs) GormDataType() string { return "json" }

func (Specs) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonColumnType(db)
}
