package booking

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// field is a lenient JSON scalar. Values that read as empty in a form
// (null, "", false, 0) decode to "". Numbers keep their literal text.
type field string

func (f *field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return errors.New("empty value")
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = field(s)
	case 'n', 'f':
		*f = ""
	case 't':
		*f = "true"
	case '{', '[':
		return errors.New("expected a scalar value")
	default:
		n, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return err
		}
		if n == 0 {
			*f = ""
			return nil
		}
		*f = field(b)
	}
	return nil
}

// payload is the booking form. Struct order is the order in which missing
// fields are reported.
type payload struct {
	Service   field `json:"service" validate:"required"`
	Date      field `json:"date" validate:"required"`
	Time      field `json:"time" validate:"required"`
	FirstName field `json:"first_name" validate:"required"`
	LastName  field `json:"last_name" validate:"required"`
	DOB       field `json:"dob" validate:"required"`
	Postcode  field `json:"postcode" validate:"required"`
	Email     field `json:"email" validate:"required"`
	Phone     field `json:"phone" validate:"required"`
	NHSNumber field `json:"nhs_number" validate:"required"`
	Note      field `json:"note"`
}

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func isJSONObject(body []byte) bool {
	body = bytes.TrimSpace(body)
	return len(body) > 0 && body[0] == '{'
}
