// Package normalize converts heterogeneous server payloads into the
// canonical record representation. The backend's response shape is not
// contractually fixed across endpoints, so every ingestion point runs raw
// payloads through the same total function instead of assuming a shape and
// failing loudly.
package normalize

import (
	"bytes"
	"encoding/json"
	"sort"
)

// envelopeKeys are field names commonly wrapping the actual record sequence.
var envelopeKeys = []string{"items", "transactions", "categories", "results", "data"}

// Records converts an arbitrary decoded JSON value into a flat sequence of
// records. Precedence:
//
//  1. a sequence is returned as-is, keeping only record-shaped elements;
//  2. a keyed structure with a sequence-valued field (an envelope such as
//     {"items": [...], "total": n}) yields that field's sequence;
//  3. a keyed structure whose values are all record-shaped yields those
//     values in document key order;
//  4. anything else yields an empty sequence.
//
// Raw JSON bytes are handled via RecordsJSON, which is the only way to honor
// document key order for case 3: an already-decoded Go map has lost it, so
// for maps the values come back sorted by key instead. Transports therefore
// hand payloads over as json.RawMessage rather than pre-decoding them.
//
// The function is total and idempotent: it never fails, and normalizing an
// already-normalized sequence returns an equal sequence.
func Records(v any) []map[string]any {
	switch val := v.(type) {
	case json.RawMessage:
		return RecordsJSON(val)
	case []byte:
		return RecordsJSON(val)
	case []map[string]any:
		return val
	case []any:
		return recordsFromSlice(val)
	case map[string]any:
		if seq, ok := envelopeSequence(val); ok {
			return recordsFromSlice(seq)
		}
		if recs, ok := recordValues(val); ok {
			return recs
		}
		return []map[string]any{}
	default:
		return []map[string]any{}
	}
}

// RecordsJSON is Records applied to raw JSON bytes. Working from the bytes
// lets the keyed-values case (precedence 3) preserve the document's key
// insertion order, and numbers decode as json.Number so amounts stay exact.
func RecordsJSON(data []byte) []map[string]any {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return []map[string]any{}
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return []map[string]any{}
	}

	switch delim {
	case '[':
		out := []map[string]any{}
		for dec.More() {
			var el any
			if err := dec.Decode(&el); err != nil {
				return []map[string]any{}
			}
			if m, isRec := el.(map[string]any); isRec {
				out = append(out, m)
			}
		}
		return out
	case '{':
		type pair struct {
			key string
			val any
		}
		var pairs []pair
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return []map[string]any{}
			}
			key, isStr := keyTok.(string)
			if !isStr {
				return []map[string]any{}
			}
			var val any
			if err := dec.Decode(&val); err != nil {
				return []map[string]any{}
			}
			pairs = append(pairs, pair{key, val})
		}
		// Envelope field first, by conventional name.
		for _, name := range envelopeKeys {
			for _, p := range pairs {
				if p.key == name {
					if seq, isSeq := p.val.([]any); isSeq {
						return recordsFromSlice(seq)
					}
				}
			}
		}
		// Any sequence-valued field, in document order.
		for _, p := range pairs {
			if seq, isSeq := p.val.([]any); isSeq {
				return recordsFromSlice(seq)
			}
		}
		// Keyed records, in document order.
		out := make([]map[string]any, 0, len(pairs))
		for _, p := range pairs {
			m, isRec := p.val.(map[string]any)
			if !isRec {
				return []map[string]any{}
			}
			out = append(out, m)
		}
		return out
	}
	return []map[string]any{}
}

func recordsFromSlice(seq []any) []map[string]any {
	out := make([]map[string]any, 0, len(seq))
	for _, el := range seq {
		if m, ok := el.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func envelopeSequence(m map[string]any) ([]any, bool) {
	for _, name := range envelopeKeys {
		if seq, ok := m[name].([]any); ok {
			return seq, true
		}
	}
	for _, v := range m {
		if _, ok := v.([]any); ok {
			// A sequence under an unconventional name still counts, but pick
			// it deterministically.
			return pickFirstSequence(m), true
		}
	}
	return nil, false
}

func pickFirstSequence(m map[string]any) []any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if seq, ok := m[k].([]any); ok {
			return seq
		}
	}
	return nil
}

func recordValues(m map[string]any) ([]map[string]any, bool) {
	if len(m) == 0 {
		return nil, false
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		if _, ok := m[k].(map[string]any); !ok {
			return nil, false
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k].(map[string]any))
	}
	return out, true
}
