package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// msgBadRequest is the body sent when the request body cannot be parsed.
const msgBadRequest = "The browser (or proxy) sent a request that this server could not understand."

// userArgs are the fields POST and PUT read from a request. Absent fields
// are empty strings; presence is not enforced.
type userArgs struct {
	Age        string
	Occupation string
}

// argSource reports the value of a field and whether the source carries it.
type argSource func(key string) (string, bool)

// parseUserArgs reads age and occupation from the request. Sources are
// consulted in order (JSON body, query string, form body) and the first
// one carrying a field wins.
func parseUserArgs(w http.ResponseWriter, r *http.Request, maxBytes int64) (userArgs, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var jsonSrc, formSrc argSource
	switch mediaType {
	case "application/json":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return userArgs{}, bodyError(err)
		}
		if len(bytes.TrimSpace(body)) > 0 {
			fields, err := decodeJSONArgs(body)
			if err != nil {
				return userArgs{}, err
			}
			jsonSrc = func(key string) (string, bool) {
				v, ok := fields[key]
				return v, ok
			}
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return userArgs{}, bodyError(err)
		}
		formSrc = valuesSource(r.PostForm)
	default:
		if err := r.ParseForm(); err != nil {
			return userArgs{}, bodyError(err)
		}
		formSrc = valuesSource(r.PostForm)
	}

	sources := []argSource{jsonSrc, valuesSource(r.URL.Query()), formSrc}
	return userArgs{
		Age:        firstArg(sources, "age"),
		Occupation: firstArg(sources, "occupation"),
	}, nil
}

func valuesSource(v url.Values) argSource {
	return func(key string) (string, bool) {
		if !v.Has(key) {
			return "", false
		}
		return v.Get(key), true
	}
}

func firstArg(sources []argSource, key string) string {
	for _, src := range sources {
		if src == nil {
			continue
		}
		if v, ok := src(key); ok {
			return v
		}
	}
	return ""
}

// decodeJSONArgs returns the textual value of each top-level field. Strings
// are unquoted, null is empty, anything else keeps its JSON literal
// (30 -> "30").
func decodeJSONArgs(body []byte) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		text := strings.TrimSpace(string(v))
		switch {
		case text == "null":
			out[k] = ""
		case strings.HasPrefix(text, `"`):
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
			}
			out[k] = s
		default:
			out[k] = text
		}
	}
	return out, nil
}

func bodyError(err error) error {
	var tooLong *http.MaxBytesError
	if errors.As(err, &tooLong) {
		return fmt.Errorf("%w: limit %d bytes", ErrBodyTooLong, tooLong.Limit)
	}
	return fmt.Errorf("%w: %w", ErrBadRequest, err)
}
