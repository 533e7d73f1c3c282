package http

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "gpacalc/internal/errors"
	api "gpacalc/pkg/contracts/api/v1"
)

// requestValidator checks decoded query structs against their validate tags
// and reports fields by their query parameter names.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: v}
}

// Struct returns an APIError listing every failing field, or nil.
func (rv *requestValidator) Struct(s interface{}) error {
	err := rv.validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.InvalidRequestWithError(err)
	}

	errs := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return apierrors.NewValidationErrors(errs)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "printascii":
		return "must contain printable ASCII characters only"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// decodeCalculateRequest reads the calculate query parameters. Format
// defaults to json.
func decodeCalculateRequest(q url.Values) (api.CalculateRequest, error) {
	req := api.CalculateRequest{
		Format:          strings.ToLower(strings.TrimSpace(q.Get("format"))),
		StudentIDColumn: strings.TrimSpace(q.Get("id_column")),
	}
	if req.Format == "" {
		req.Format = api.FormatJSON
	}
	if raw := strings.TrimSpace(q.Get("precision")); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return req, apierrors.NewValidationErrors([]apierrors.ValidationError{
				{Field: "precision", Message: "must be an integer"},
			})
		}
		req.Precision = &p
	}
	return req, nil
}
