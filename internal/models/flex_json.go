package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// statFieldMap caches JSON tag -> struct field index mappings
var (
	statFieldMap     map[string]int
	statFieldMapOnce sync.Once
)

func getStatFieldMap() map[string]int {
	statFieldMapOnce.Do(func() {
		t := reflect.TypeOf(TeamMapModeStat{})
		statFieldMap = make(map[string]int, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			tag := t.Field(i).Tag.Get("json")
			if tag == "" || tag == "-" {
				continue
			}
			name := strings.Split(tag, ",")[0]
			statFieldMap[name] = i
		}
	})
	return statFieldMap
}

// UnmarshalJSON implements flexible JSON unmarshaling that accepts both
// string-encoded and native JSON types. Spreadsheet-derived exporters
// serialize numeric columns as quoted strings, often with a trailing percent
// sign ("48.0%"); this handles coercion to the correct Go types transparently.
func (s *TeamMapModeStat) UnmarshalJSON(data []byte) error {
	// Alias prevents infinite recursion
	type Alias TeamMapModeStat
	a := (*Alias)(s)

	// Fast path: try standard unmarshal (works when all types match natively)
	if err := json.Unmarshal(data, a); err == nil {
		return nil
	}

	// Slow path: field-by-field with string-to-native coercion
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	fieldMap := getStatFieldMap()
	v := reflect.ValueOf(a).Elem()

	for key, rawVal := range raw {
		idx, ok := fieldMap[key]
		if !ok {
			continue
		}

		fv := v.Field(idx)
		if !fv.CanSet() {
			continue
		}

		// Try direct unmarshal first
		ptr := reflect.New(fv.Type())
		if err := json.Unmarshal(rawVal, ptr.Interface()); err == nil {
			fv.Set(ptr.Elem())
			continue
		}

		// Value is a JSON string but the target is numeric, so coerce
		if len(rawVal) > 1 && rawVal[0] == '"' {
			var str string
			if err := json.Unmarshal(rawVal, &str); err != nil {
				continue
			}
			if str == "" {
				continue
			}
			coerceStringToField(fv, str)
		}
	}

	return nil
}

// coerceStringToField converts a string value to the field's native type.
// Percent suffixes are stripped before numeric parsing.
func coerceStringToField(fv reflect.Value, s string) {
	switch fv.Kind() {
	case reflect.Float32, reflect.Float64:
		trimmed := strings.TrimSuffix(strings.TrimSpace(s), "%")
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
			fv.SetFloat(n)
		}
	case reflect.String:
		fv.SetString(s)
	}
}
