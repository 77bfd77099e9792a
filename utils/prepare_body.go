package utils

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const (
	ContentTypeJSON  = "application/json"
	ContentTypeForm  = "application/x-www-form-urlencoded"
	ContentTypeText  = "text/plain; charset=utf-8"
	ContentTypeBytes = "application/octet-stream"
)

// PrepareBody encodes body for the wire and returns the matching content type.
// Raw []byte and string bodies are sent as-is whatever the body type.
func PrepareBody(body any, bodyType string) ([]byte, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return v, orDefault(bodyType, ContentTypeBytes), nil
	case string:
		return []byte(v), orDefault(bodyType, ContentTypeText), nil
	}

	switch strings.ToLower(bodyType) {
	case "", ContentTypeJSON:
		buf, err := json.Marshal(body)
		return buf, ContentTypeJSON, err
	case ContentTypeForm:
		vals, err := formValues(body)
		if err != nil {
			return nil, "", err
		}
		return []byte(vals.Encode()), ContentTypeForm, nil
	default:
		return nil, "", fmt.Errorf("unsupported body_type: %s", bodyType)
	}
}

func formValues(body any) (url.Values, error) {
	switch v := body.(type) {
	case url.Values:
		return v, nil
	case map[string]string:
		vals := url.Values{}
		for k, s := range v {
			vals.Set(k, s)
		}
		return vals, nil
	case map[string]any:
		vals := url.Values{}
		for k, val := range v {
			vals.Set(k, fmt.Sprintf("%v", val))
		}
		return vals, nil
	default:
		return nil, fmt.Errorf("form body must be a map, got %T", body)
	}
}

func orDefault(v, def string) string {
	if v == "" || strings.EqualFold(v, ContentTypeJSON) {
		return def
	}
	return v
}
