package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"

	"autocontent/internal/faults"
)

// Record is one timestamped caption entry.
type Record struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// End returns Start + Duration.
func (r Record) End() float64 {
	return r.Start + r.Duration
}

var recordKeys = []string{"text", "start", "duration"}

// Decode parses a transcript JSON document: an array of objects carrying
// exactly the keys text, start and duration. Any deviation rejects the whole
// document with ErrInvalidSchema.
func Decode(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, faults.Wrap(faults.ErrInvalidSchema, "decode transcript", "expected an array of objects", nil)
	}
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, faults.Wrap(faults.ErrInvalidSchema, "decode transcript", "expected an array of objects", err)
	}
	records := make([]Record, 0, len(raw))
	for i, obj := range raw {
		rec, err := decodeRecord(obj)
		if err != nil {
			return nil, faults.Wrap(faults.ErrInvalidSchema, "decode transcript", fmt.Sprintf("record %d", i), err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRecord(obj map[string]json.RawMessage) (Record, error) {
	if len(obj) != len(recordKeys) {
		return Record{}, fmt.Errorf("expected keys %v, got %d keys", recordKeys, len(obj))
	}
	for _, key := range recordKeys {
		value, ok := obj[key]
		if !ok {
			return Record{}, fmt.Errorf("missing key %q", key)
		}
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return Record{}, fmt.Errorf("key %q is null", key)
		}
	}
	var rec Record
	if err := json.Unmarshal(obj["text"], &rec.Text); err != nil {
		return Record{}, fmt.Errorf("text: %w", err)
	}
	if err := json.Unmarshal(obj["start"], &rec.Start); err != nil {
		return Record{}, fmt.Errorf("start: %w", err)
	}
	if err := json.Unmarshal(obj["duration"], &rec.Duration); err != nil {
		return Record{}, fmt.Errorf("duration: %w", err)
	}
	return rec, nil
}
