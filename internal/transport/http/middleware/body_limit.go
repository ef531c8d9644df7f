package middleware

import (
	"mime"
	"net/http"
)

// BodyLimit caps request bodies. Multipart uploads are left to UploadLimit on their routes.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 && hasBody(r) && !isMultipart(r) {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UploadLimit caps multipart bodies, leaving headroom for the form framing.
func UploadLimit(maxFileBytes int64) func(http.Handler) http.Handler {
	const framing = 64 << 10
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxFileBytes > 0 && hasBody(r) {
				r.Body = http.MaxBytesReader(w, r.Body, maxFileBytes+framing)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasBody(r *http.Request) bool {
	return r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
