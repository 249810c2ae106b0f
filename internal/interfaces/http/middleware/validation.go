package middleware

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var bindingCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{0,31}$`)

// SetupValidator configures gin's validator: JSON field names in errors,
// decimal.Decimal compared through its string form, and the custom tags
// code, decimal_gte0 and decimal_gt0.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	return RegisterValidators(v)
}

// RegisterValidators installs the custom tags on v
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("code", validateCode); err != nil {
		return err
	}
	if err := v.RegisterValidation("decimal_gte0", decimalSign(func(d decimal.Decimal) bool { return !d.IsNegative() })); err != nil {
		return err
	}
	return v.RegisterValidation("decimal_gt0", decimalSign(func(d decimal.Decimal) bool { return d.IsPositive() }))
}

func validateCode(fl validator.FieldLevel) bool {
	return bindingCodePattern.MatchString(shared.NormalizeCode(fl.Field().String()))
}

func decimalSign(ok func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		var d decimal.Decimal
		switch field.Kind() {
		case reflect.String:
			parsed, err := decimal.NewFromString(field.String())
			if err != nil {
				return false
			}
			d = parsed
		default:
			value, isDecimal := field.Interface().(decimal.Decimal)
			if !isDecimal {
				return false
			}
			d = value
		}
		return ok(d)
	}
}

// FormatValidationErrors turns binding errors into the ERR_VALIDATION envelope
func FormatValidationErrors(err error, requestID string) dto.Response {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidJSON, "Malformed request: "+err.Error(), requestID)
	}

	details := make([]dto.ValidationDetail, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, dto.ValidationDetail{
			Field:   e.Field(),
			Tag:     e.Tag(),
			Message: validationMessage(e),
		})
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError answers a binding failure with 400
func HandleValidationError(c *gin.Context, err error) {
	resp := FormatValidationErrors(err, GetRequestID(c))
	c.AbortWithStatusJSON(dto.GetHTTPStatus(resp.Error.Code), resp)
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "required_if":
		return "This field is required when " + e.Param()
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " items"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "code":
		return "Must be 1-32 characters of A-Z, 0-9, '_' or '-'"
	case "decimal_gte0":
		return "Must be a number greater than or equal to 0"
	case "decimal_gt0":
		return "Must be a number greater than 0"
	default:
		return "Invalid value"
	}
}
