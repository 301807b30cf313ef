package kit

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// URLParam returns the named route parameter, unescaped. chi routes on the
// raw path whenever the request carries escapes such as %2F, leaving the
// parameter still escaped in that case.
func URLParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}
