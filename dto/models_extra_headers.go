package dto

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ExtraHeaders are headers added to every request. As a flag value it parses
// and prints "key=value" pairs separated by commas; repeated Set calls merge.
type ExtraHeaders map[string]string

func (e ExtraHeaders) String() string {
	pairs := make([]string, 0, len(e))
	for k, v := range e {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (e ExtraHeaders) Set(s string) error {
	for _, pair := range strings.Split(s, ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return fmt.Errorf("invalid header %q, expected key=value", pair)
		}
		e[http.CanonicalHeaderKey(key)] = strings.TrimSpace(value)
	}
	return nil
}

func (e ExtraHeaders) Type() string {
	return "headers"
}
