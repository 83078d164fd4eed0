package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/dashboard/internal/core"
)

// maxFormBytes bounds a submitted invoice form.
const maxFormBytes = 64 << 10

// formFrom reads the submitted invoice fields. Browsers post url-encoded
// forms; JSON clients post an object whose values may be strings or numbers.
func formFrom(w http.ResponseWriter, r *http.Request) (core.FormData, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		return r.PostForm, nil
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode json form: %w", err)
	}

	form := url.Values{}
	for key, v := range body {
		switch val := v.(type) {
		case string:
			form.Set(key, val)
		case float64:
			form.Set(key, strconv.FormatFloat(val, 'f', -1, 64))
		}
	}
	return form, nil
}

// withClient tags the request context with the caller so action logs can
// say who submitted a form. It runs after TrustedRealIP.
func withClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.WithClient(r.Context(), core.Client{
			Source:    "web",
			IP:        r.RemoteAddr,
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
