// Package validate wraps go-playground/validator with the custom types used
// by the ledger models.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"expense-ledger/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// Amounts are dollars and cents up to MaxAmount.
const (
	AmountPlaces = 2
	// Inputs with a longer fractional part are rejected without rounding.
	maxAmountScale = 8
)

// MaxAmount is the largest amount a single expense may carry.
var MaxAmount = decimal.New(1, 12)

// Validator checks struct tags and renders failures as one readable message.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that understands decimal.Decimal and models.Date.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if d, ok := f.Interface().(models.Date); ok {
			return d.String()
		}
		return nil
	}, models.Date{})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("positive", decimalCheck(decimal.Decimal.IsPositive))
	_ = v.RegisterValidation("cents", decimalCheck(isCents))
	_ = v.RegisterValidation("max_amount", decimalCheck(withinMax))
	return &Validator{v: v}
}

// decimalCheck adapts a decimal predicate to a field validation func.
func decimalCheck(ok func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, isDecimal := fl.Field().Interface().(decimal.Decimal)
		return isDecimal && ok(d)
	}
}

// Exponents are checked before any arithmetic: rescaling 1e2000000 or
// 1e-2000000 allocates millions of digits.
func isCents(d decimal.Decimal) bool {
	switch exp := d.Exponent(); {
	case exp >= -AmountPlaces:
		return true
	case exp < -maxAmountScale:
		return false
	}
	return d.Equal(d.Round(AmountPlaces))
}

func withinMax(d decimal.Decimal) bool {
	if d.Exponent() > MaxAmount.Exponent() {
		return d.Sign() <= 0
	}
	return d.LessThanOrEqual(MaxAmount)
}

// Struct validates s and flattens field errors into a single error.
func (val *Validator) Struct(s any) error {
	if err := val.v.Struct(s); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "positive":
		return field + " must be greater than 0"
	case "cents":
		return fmt.Sprintf("%s must have at most %d decimal places", field, AmountPlaces)
	case "max_amount":
		return fmt.Sprintf("%s must not exceed %s", field, MaxAmount.String())
	case "notblank":
		return field + " must not be blank"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
