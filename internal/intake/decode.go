package intake

import (
	"net/http"

	"hamon/pkg/platform/httputil"
	"hamon/pkg/validation"
)

// JSONBody decodes and validates a JSON object body into T, then runs the
// request's own Validate hook. Fields reach the endpoint exactly as sent.
func JSONBody[T any](r *http.Request) (*T, error) {
	raw, err := httputil.ReadBody(r)
	if err != nil {
		return nil, err
	}
	req, err := validation.Parse[T](raw)
	if err != nil {
		return nil, err
	}
	if err := httputil.PrepareRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Query decodes and validates URL query parameters into T.
func Query[T any](r *http.Request) (*T, error) {
	req, err := validation.ParseQuery[T](r.URL.Query())
	if err != nil {
		return nil, err
	}
	if err := httputil.PrepareRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// NoPayload is the payload of endpoints that take no input beyond the path.
type NoPayload struct{}

// NoBody accepts any request without reading it.
func NoBody(*http.Request) (*NoPayload, error) {
	return &NoPayload{}, nil
}
