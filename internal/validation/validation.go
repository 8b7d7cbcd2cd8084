// Package validation decodes JSON request bodies and checks them against the
// shared schemas, turning validator failures into field-level 400 errors.
package validation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vaughan-dsouza/medium-blog/internal/errs"
	"github.com/vaughan-dsouza/medium-blog/pkg/schema"
)

// Validatable is implemented by every request type in pkg/schema.
type Validatable interface {
	Validate() error
}

// Decode parses the JSON body into v. Unknown fields are rejected.
func Decode(r *http.Request, v any) *errs.HTTPError {
	if r.Body == nil || r.Body == http.NoBody {
		return errs.NewBadRequestError("empty request body", nil)
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.NewBadRequestError("empty request body", nil)
		}
		return errs.NewBadRequestError("invalid JSON: "+err.Error(), nil)
	}

	return nil
}

// Check runs v.Validate and converts the result.
func Check(v Validatable) *errs.HTTPError {
	err := v.Validate()
	if err == nil {
		return nil
	}

	fields, ok := schema.FieldErrors(err)
	if !ok {
		return errs.NewBadRequestError("invalid input: "+err.Error(), nil)
	}

	return errs.NewBadRequestError("invalid input", fields)
}

func DecodeAndValidate(r *http.Request, v Validatable) *errs.HTTPError {
	if herr := Decode(r, v); herr != nil {
		return herr
	}
	return Check(v)
}
