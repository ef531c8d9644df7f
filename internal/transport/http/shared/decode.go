package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"hrportal/internal/requestctx"
	"hrportal/internal/transport/http/api"
)

// DecodeJSON reads a single JSON object into out. An empty body leaves out untouched.
// It answers the request itself and returns false when the body is unusable.
func DecodeJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestctx.GetRequestID(r.Context()))
			return false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return false
	}
	return true
}
