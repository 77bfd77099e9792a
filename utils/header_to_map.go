package utils

import (
	"net/http"
	"strings"
)

// HeaderToMap collects the headers carrying prefix into a map keyed by the
// lower-cased remainder of the header name. Only the first value is kept.
func HeaderToMap(h http.Header, prefix string) map[string]string {
	out := make(map[string]string)
	canonPrefix := http.CanonicalHeaderKey(prefix)
	for k, vv := range h {
		if len(vv) == 0 || !strings.HasPrefix(k, canonPrefix) {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(k, canonPrefix))
		if name == "" {
			continue
		}
		out[name] = vv[0]
	}
	return out
}
