package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	validator "github.com/go-playground/validator/v10"
)

var validate = validator.New()

var errInvalidBody = errors.New("invalid request body")

// bind decodes a JSON body into dst and validates it against its
// struct tags, so every admin payload becomes a typed, schema-checked
// command before it reaches domain code.
func bind(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errInvalidBody
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s failed on %s", strings.ToLower(verrs[0].Field()), verrs[0].Tag())
		}
		return errInvalidBody
	}
	return nil
}
