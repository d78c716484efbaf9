package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// MaxJSONBody caps request bodies read by BindJSON.
const MaxJSONBody = 1 << 20

// BindJSON decodes an application/json body strictly: unknown fields and
// trailing data are rejected. Failures are HTTPErrors (415 or 400).
func BindJSON() Bind {
	return func(r *http.Request, v any) error {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			return ErrUnsupportedMediaType
		}

		dec := json.NewDecoder(io.LimitReader(r.Body, MaxJSONBody))
		dec.DisallowUnknownFields()

		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: empty body", ErrBadRequest)
			}
			return fmt.Errorf("%w: %v", ErrBadRequest, err)
		}

		if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected data after JSON object", ErrBadRequest)
		}
		return nil
	}
}
