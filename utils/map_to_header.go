package utils

import "net/http"

// MapToHeader is the inverse of HeaderToMap: every key is prefixed and set
// as a canonical header.
func MapToHeader(m map[string]string, prefix string) http.Header {
	h := make(http.Header)
	for k, v := range m {
		h.Set(prefix+k, v)
	}
	return h
}
