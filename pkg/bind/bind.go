// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shashiranjanraj/marketplace/pkg/validate"
)

// DefaultMaxBytes is the body limit used when none is configured.
const DefaultMaxBytes int64 = 4 << 20

type limitKey struct{}

// Limit is middleware that sets the body size limit JSON enforces for
// every request below it.
func Limit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), limitKey{}, maxBytes)))
		})
	}
}

func limitFrom(ctx context.Context) int64 {
	if n, ok := ctx.Value(limitKey{}).(int64); ok && n > 0 {
		return n
	}
	return DefaultMaxBytes
}

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped by the Limit middleware (DefaultMaxBytes without it).
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is empty, malformed or too large.
func JSON(w http.ResponseWriter, r *http.Request, dest any) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, limitFrom(r.Context()))

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err = dec.Decode(dest); err != nil {
		var (
			maxErr  *http.MaxBytesError
			typeErr *json.UnmarshalTypeError
		)
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			// Well-formed JSON with a wrong-typed field is a validation failure.
			return map[string]string{
				typeErr.Field: fmt.Sprintf("The %s field must be of type %s.", typeErr.Field, typeErr.Type),
			}, nil
		case errors.As(err, &maxErr):
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return nil, errors.New("request body is empty")
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
