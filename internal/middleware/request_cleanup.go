package middleware

import (
	"io"
	"net/http"
)

// maxDrainBytes caps how much of an unread request body is drained before closing
const maxDrainBytes = 256 << 10

// DrainAndCloseRequest - drain whatever the handler did not read so the connection can be reused
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, maxDrainBytes))
				_ = r.Body.Close()
			}
		})
	}
}
