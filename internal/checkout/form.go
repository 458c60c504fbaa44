package checkout

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
	"github.com/rohanmalik/boutique-backend/pkg/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Form is the transient checkout form. It lives for one checkout attempt; its
// validated contents become the order's address snapshot and are never stored
// on their own.
type Form struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	Pincode  string `json:"pincode" validate:"required,len=6,numeric"`
	Notes    string `json:"notes" validate:"omitempty,max=500"`
}

// Validate checks the form and reports every failing field at once.
func (f Form) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}

	details := map[string]string{}
	for _, fieldErr := range errs {
		details[fieldErr.Field()] = validationMessage(fieldErr)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

// Snapshot returns the shipping address stored on the order. The same value
// doubles as the billing address; a single form collects both.
func (f Form) Snapshot() types.ShippingAddress {
	return types.ShippingAddress{
		FullName: strings.TrimSpace(f.FullName),
		Phone:    strings.TrimSpace(f.Phone),
		Address:  strings.TrimSpace(f.Address),
		City:     strings.TrimSpace(f.City),
		State:    strings.TrimSpace(f.State),
		Pincode:  strings.TrimSpace(f.Pincode),
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "numeric":
		return "must contain digits only"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	}
	return "is invalid"
}
