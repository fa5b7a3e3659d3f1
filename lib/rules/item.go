// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
)

// Item is one rule metadata object. Fields are kept as an ordered list
// of raw JSON values rather than a map so that re-emitting an item
// preserves the author's field order.
type Item struct {
	fields []field
}

type field struct {
	name string
	raw  json.RawMessage
}

// ParseItems parses a JSONC rule metadata document: an array of
// objects. Comments and trailing commas are stripped before parsing.
// Per-item field order is preserved.
func ParseItems(data []byte) ([]Item, error) {
	stripped := jsonc.ToJSON(data)
	if !gjson.ValidBytes(stripped) {
		return nil, fmt.Errorf("rule metadata is not valid JSON")
	}

	document := gjson.ParseBytes(stripped)
	if !document.IsArray() {
		return nil, fmt.Errorf("rule metadata must be a JSON array, got %s", document.Type)
	}

	var items []Item
	var parseErr error
	document.ForEach(func(_, element gjson.Result) bool {
		if !element.IsObject() {
			parseErr = fmt.Errorf("rule item %d is not a JSON object", len(items))
			return false
		}
		var item Item
		element.ForEach(func(key, value gjson.Result) bool {
			item.fields = append(item.fields, field{
				name: key.String(),
				raw:  json.RawMessage(value.Raw),
			})
			return true
		})
		items = append(items, item)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return items, nil
}

// ID returns the item's Id field, or "" when the field is absent or
// not a string.
func (item *Item) ID() string {
	raw, ok := item.lookup("Id")
	if !ok {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return ""
	}
	return id
}

// SetHosts stores the base64-encoded host list, replacing any Hosts
// value carried in the metadata. The field keeps its authored position
// when present and is appended otherwise.
func (item *Item) SetHosts(encoded string) {
	item.set("Hosts", mustMarshal(encoded))
}

// EnsureStatus appends Status 0 when the metadata does not declare
// one. A declared Status passes through untouched.
func (item *Item) EnsureStatus() {
	if _, ok := item.lookup("Status"); !ok {
		item.fields = append(item.fields, field{name: "Status", raw: json.RawMessage("0")})
	}
}

// Hosts returns the item's Hosts field, or "" when absent.
func (item *Item) Hosts() string {
	raw, ok := item.lookup("Hosts")
	if !ok {
		return ""
	}
	var hosts string
	if err := json.Unmarshal(raw, &hosts); err != nil {
		return ""
	}
	return hosts
}

// Status returns the item's Status field, or 0 when absent or not an
// integer.
func (item *Item) Status() int {
	raw, ok := item.lookup("Status")
	if !ok {
		return 0
	}
	var status int
	if err := json.Unmarshal(raw, &status); err != nil {
		return 0
	}
	return status
}

// FieldNames returns the item's field names in emit order.
func (item *Item) FieldNames() []string {
	names := make([]string, len(item.fields))
	for i, f := range item.fields {
		names[i] = f.name
	}
	return names
}

func (item *Item) lookup(name string) (json.RawMessage, bool) {
	for _, f := range item.fields {
		if f.name == name {
			return f.raw, true
		}
	}
	return nil, false
}

func (item *Item) set(name string, raw json.RawMessage) {
	for i, f := range item.fields {
		if f.name == name {
			item.fields[i].raw = raw
			return
		}
	}
	item.fields = append(item.fields, field{name: name, raw: raw})
}

// MarshalJSON emits the item as a JSON object with fields in their
// preserved order.
func (item Item) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for i, f := range item.fields {
		if i > 0 {
			buffer.WriteByte(',')
		}
		key, err := json.Marshal(f.name)
		if err != nil {
			return nil, fmt.Errorf("encoding field name %q: %w", f.name, err)
		}
		buffer.Write(key)
		buffer.WriteByte(':')
		buffer.Write(f.raw)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

func mustMarshal(value string) json.RawMessage {
	raw, err := json.Marshal(value)
	if err != nil {
		// json.Marshal of a string cannot fail.
		panic("rules: marshaling string: " + err.Error())
	}
	return raw
}
