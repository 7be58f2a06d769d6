package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/i18n"
)

// decode reads a JSON body into v. A value of the wrong type is reported as
// invalid input on its field; any other decoding failure, an unknown key
// included, is a bad request.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr):
			return &model.ValidationError{
				Field:  typeErr.Field,
				Reason: fmt.Sprintf("must be %s, got %s", typeErr.Type, typeErr.Value),
			}
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w: body exceeds %d bytes", ErrBadRequest, maxErr.Limit)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: empty body", ErrBadRequest)
		default:
			return fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON body", ErrBadRequest)
	}
	return nil
}

// localeFor resolves ?lang, falling back to the server default.
func (s *Server) localeFor(r *http.Request) (i18n.Locale, error) {
	tag := strings.TrimSpace(r.URL.Query().Get("lang"))
	if tag == "" {
		return s.locale, nil
	}
	loc, ok := i18n.Parse(tag)
	if !ok {
		return "", fmt.Errorf("%w: unsupported lang %q", ErrBadRequest, tag)
	}
	return loc, nil
}
