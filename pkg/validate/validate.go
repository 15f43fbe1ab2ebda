// Package validate runs struct-tag validation and reports failures as a
// flat map of JSON field path → human readable message.
//
// Rules are the go-playground/validator tags, plus:
//
//	handle   3-50 chars of letters, digits, '.', '_' or '-'
//	money    a decimal with at most two fractional digits
//
// decimal.Decimal fields are validated as numbers, so `gt=0` works on
// prices.
//
// Example:
//
//	type Input struct {
//	    Name  string          `json:"name"  validate:"required,min=3,max=100"`
//	    Price decimal.Decimal `json:"price" validate:"required,gt=0"`
//	    Items []Item          `json:"items" validate:"required,min=1,dive"`
//	}
//
//	errs := validate.Struct(in) // {"price": "The price must be greater than 0."}
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,50}$`)

var (
	once sync.Once
	v    *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			switch name {
			case "-":
				return ""
			case "":
				return f.Name
			}
			return name
		})

		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			d, ok := field.Interface().(decimal.Decimal)
			if !ok {
				return nil
			}
			return d.InexactFloat64()
		}, decimal.Decimal{})

		_ = v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
			return handlePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("money", money)
	})
	return v
}

// money checks the original decimal when the field is one. The custom type
// func hands validators a float64, which cannot be trusted for scale.
func money(fl validator.FieldLevel) bool {
	d, ok := sourceDecimal(fl)
	if !ok {
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			d = decimal.NewFromFloat(fl.Field().Float())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return true
		default:
			return false
		}
	}
	return d.Equal(d.Round(2))
}

func sourceDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	parent := fl.Parent()
	for parent.IsValid() && parent.Kind() == reflect.Pointer {
		parent = parent.Elem()
	}
	if !parent.IsValid() || parent.Kind() != reflect.Struct {
		return decimal.Decimal{}, false
	}
	f := parent.FieldByName(fl.StructFieldName())
	for f.IsValid() && f.Kind() == reflect.Pointer {
		if f.IsNil() {
			return decimal.Decimal{}, false
		}
		f = f.Elem()
	}
	if !f.IsValid() || !f.CanInterface() {
		return decimal.Decimal{}, false
	}
	d, ok := f.Interface().(decimal.Decimal)
	return d, ok
}

// Struct validates s and returns every failing field. An empty map means
// s is valid. Values that are not structs produce no errors.
func Struct(s any) map[string]string {
	errs := make(map[string]string)

	err := engine().Struct(s)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs
	}

	for _, fe := range verrs {
		key := fieldPath(fe.Namespace())
		if _, seen := errs[key]; seen {
			continue
		}
		errs[key] = message(fe)
	}
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// fieldPath drops the root struct name: "PlaceOrder.items[0].quantity"
// becomes "items[0].quantity".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()
	isString := fe.Kind() == reflect.String
	isCollection := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map || fe.Kind() == reflect.Array

	switch fe.Tag() {
	case "required", "required_with", "required_if", "required_without_all":
		return fmt.Sprintf("The %s field is required.", field)
	case "required_without":
		return fmt.Sprintf("The %s field is required when %s is not present.", field, strings.ToLower(param))
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "url", "http_url":
		return fmt.Sprintf("The %s must be a valid URL.", field)
	case "uuid", "uuid4":
		return fmt.Sprintf("The %s must be a valid UUID.", field)
	case "handle":
		return fmt.Sprintf("The %s must be 3 to 50 letters, numbers, dots, dashes or underscores.", field)
	case "money":
		return fmt.Sprintf("The %s must have at most two decimal places.", field)
	case "min":
		switch {
		case isString:
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		case isCollection:
			return fmt.Sprintf("The %s must have at least %s items.", field, param)
		}
		return fmt.Sprintf("The %s must be at least %s.", field, param)
	case "max":
		switch {
		case isString:
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		case isCollection:
			return fmt.Sprintf("The %s must not have more than %s items.", field, param)
		}
		return fmt.Sprintf("The %s must not be greater than %s.", field, param)
	case "len":
		return fmt.Sprintf("The %s must be exactly %s characters.", field, param)
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, param)
	case "gte":
		return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
	case "lt":
		return fmt.Sprintf("The %s must be less than %s.", field, param)
	case "lte":
		return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "alpha":
		return fmt.Sprintf("The %s field must contain only letters.", field)
	case "alphanum":
		return fmt.Sprintf("The %s field must contain only letters and numbers.", field)
	case "numeric", "number":
		return fmt.Sprintf("The %s field must be a number.", field)
	}
	return fmt.Sprintf("The %s format is invalid.", field)
}
