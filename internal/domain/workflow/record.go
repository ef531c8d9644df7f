package workflow

import (
	"bytes"
	"encoding/json"
)

// DecodeRecord decodes a single-record response into out. The backend answers either with
// the record itself or with {"message": ..., "data": record-or-null}; both shapes are accepted.
func DecodeRecord(body []byte, out any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return err
	}
	if _, hasID := top["id"]; !hasID {
		if data, ok := top["data"]; ok {
			if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
				return nil
			}
			return json.Unmarshal(data, out)
		}
	}
	return json.Unmarshal(body, out)
}
