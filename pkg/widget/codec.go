package widget

import (
	"bytes"
	"encoding/json"
	"time"
)

// envelope is the persisted shape of every widget blob.
type envelope struct {
	Version int             `json:"version"`
	Saved   string          `json:"saved,omitempty"`
	Data    json.RawMessage `json:"data"`
}

func encodeEnvelope(version int, saved time.Time, state any) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{
		Version: version,
		Saved:   saved.UTC().Format(time.RFC3339),
		Data:    data,
	})
}

// decodeEnvelope splits a stored blob into its schema version and payload.
// Blobs written before envelopes existed are returned whole as version 0.
func decodeEnvelope(raw []byte) (int, json.RawMessage) {
	trimmed := bytes.TrimSpace(raw)
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err == nil {
		data, hasData := probe["data"]
		rawVersion, hasVersion := probe["version"]
		if hasData && hasVersion {
			var version int
			if err := json.Unmarshal(rawVersion, &version); err == nil {
				return version, data
			}
		}
	}
	return 0, json.RawMessage(trimmed)
}
