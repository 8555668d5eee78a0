// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

// Package pipeline parses the compiled pipeline description that the P4
// compiler produces (spec §3, §4.1) and carries the ordered, JSON-faithful
// structures the rest of the engine builds on.
package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the raw top-level compiled artifact: a sequence of
// pipelines, exactly one of which (by name) is the ingress pipeline.
type Document struct {
	Pipelines []Pipeline `json:"pipelines"`
}

// Pipeline is one element of Document.Pipelines.
type Pipeline struct {
	Name         string          `json:"name"`
	InitTable    string          `json:"init_table"`
	Tables       []Table         `json:"tables"`
	Conditionals []Conditional   `json:"conditionals"`
	ActionCalls  json.RawMessage `json:"action_calls,omitempty"`
}

// Table is a single match-action table node.
type Table struct {
	Name            string     `json:"name"`
	BaseDefaultNext *string    `json:"base_default_next"`
	NextTables      NextTables `json:"next_tables"`
	MatchKey        json.RawMessage `json:"match_key,omitempty"`
	Actions         json.RawMessage `json:"actions,omitempty"`
	FlexName        string     `json:"p4ctl_flex_name,omitempty"`
}

// Conditional is a single branch node.
type Conditional struct {
	Name       string          `json:"name"`
	TrueNext   *string         `json:"true_next"`
	FalseNext  *string         `json:"false_next"`
	Expression json.RawMessage `json:"expression,omitempty"`
	FlexName   string          `json:"p4ctl_flex_name,omitempty"`
}

// NextTableEntry is one (label -> next table name) mapping, in declaration
// order.
type NextTableEntry struct {
	Label string
	Next  *string
}

// NextTables preserves the declared key order of a table's next_tables
// object. encoding/json decodes objects into unordered Go maps, which
// would make vertex/edge iteration order (and therefore emitted primitive
// order) nondeterministic; this type keeps the ordering the §4.2 builder
// and §8 determinism property require.
type NextTables struct {
	entries []NextTableEntry
}

// Entries returns the (label, next) pairs in declaration order.
func (n NextTables) Entries() []NextTableEntry {
	return n.entries
}

func (n *NextTables) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		n.entries = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("next_tables: expected JSON object, got %v", tok)
	}
	var entries []NextTableEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("next_tables: expected string key, got %v", keyTok)
		}
		var val *string
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("next_tables[%s]: %w", key, err)
		}
		entries = append(entries, NextTableEntry{Label: key, Next: val})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	n.entries = entries
	return nil
}

func (n NextTables) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range n.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := json.Marshal(e.Next)
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
