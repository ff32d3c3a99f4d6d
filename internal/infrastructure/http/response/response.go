package response

import (
	"bytes"
	"net/http"
)

// HTML sends a rendered HTML document
func HTML(w http.ResponseWriter, status int, body *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = body.WriteTo(w)
}

// Text sends a plain text response
func Text(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}

// Error sends a plain text error response. Internal details are not
// exposed for 5xx statuses.
func Error(w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if status < http.StatusInternalServerError && err != nil {
		message = err.Error()
	}
	Text(w, status, message)
}
