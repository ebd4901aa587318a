package http

import (
	"fmt"
	"net/http"
)

const apiVersionHeader = "X-API-Version"

// CurrentAPIVersion is the only version the header-based scheme accepts.
const CurrentAPIVersion = "1.0"

// CORS allows any origin; the service sits behind a browser-facing UI.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+apiVersionHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireVersion rejects requests carrying an unsupported X-API-Version.
// A missing header means the current version.
func RequireVersion(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		version := r.Header.Get(apiVersionHeader)
		if version != "" && version != CurrentAPIVersion {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("unsupported API version %q, supported versions: [%s]", version, CurrentAPIVersion))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestVersion returns the effective API version of a request.
func requestVersion(r *http.Request) string {
	if v := r.Header.Get(apiVersionHeader); v != "" {
		return v
	}
	return CurrentAPIVersion
}
