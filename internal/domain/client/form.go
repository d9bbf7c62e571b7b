package client

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/atelier/backoffice/internal/domain/shared"
)

// validate is shared across forms; struct validation is stateless
var validate = validator.New()

// Form holds the new-client sub-form values. Field rules mirror the
// server's: a 14-digit numeric national ID, a required primary phone, an
// optional secondary phone, and a source from the closed set.
type Form struct {
	Name        string     `json:"name" validate:"required"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	NationalID  string     `json:"national_id" validate:"required,len=14,number"`
	Source      Source     `json:"source" validate:"required"`
	CityID      int64      `json:"city_id" validate:"required"`
	Address     string     `json:"address" validate:"required"`
	Notes       string     `json:"notes"`
	Phone       string     `json:"phone" validate:"required"`
	SecondPhone string     `json:"second_phone"`
}

// Validate runs field-level validation, returning the first violation as a
// user-facing domain error.
func (f *Form) Validate() error {
	if !f.Source.IsValid() {
		return shared.NewDomainError("INVALID_SOURCE", "Client source is not recognized")
	}
	if err := validate.Struct(f); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) || len(errs) == 0 {
			return shared.ErrInvalidInput
		}
		return fieldError(errs[0])
	}
	return nil
}

// Phones normalizes the form's phone inputs into tagged pairs. The primary
// number is always mobile, the secondary (when present) whatsapp.
func (f *Form) Phones() []Phone {
	phones := []Phone{{Phone: strings.TrimSpace(f.Phone), Type: PhoneTypeMobile}}
	if second := strings.TrimSpace(f.SecondPhone); second != "" {
		phones = append(phones, Phone{Phone: second, Type: PhoneTypeWhatsApp})
	}
	return phones
}

// Payload converts the form into its wire shape. Optional fields are only
// present when they carry a value.
func (f *Form) Payload() map[string]any {
	payload := map[string]any{
		"name":        f.Name,
		"national_id": f.NationalID,
		"source":      f.Source.String(),
		"city_id":     f.CityID,
		"address":     f.Address,
		"phones":      f.Phones(),
	}
	if f.DateOfBirth != nil {
		payload["date_of_birth"] = f.DateOfBirth.Format("2006-01-02")
	}
	if notes := strings.TrimSpace(f.Notes); notes != "" {
		payload["notes"] = notes
	}
	return payload
}

// fieldError maps a validator violation to a readable message
func fieldError(fe validator.FieldError) error {
	switch fe.Field() {
	case "NationalID":
		return shared.NewDomainError("INVALID_NATIONAL_ID", "National ID must be exactly 14 digits")
	case "Name":
		return shared.NewDomainError("NAME_REQUIRED", "Client name is required")
	case "Phone":
		return shared.NewDomainError("PHONE_REQUIRED", "A primary phone number is required")
	case "CityID":
		return shared.NewDomainError("CITY_REQUIRED", "Choose the client's city")
	case "Address":
		return shared.NewDomainError("ADDRESS_REQUIRED", "Client address is required")
	case "Source":
		return shared.NewDomainError("INVALID_SOURCE", "Client source is not recognized")
	}
	return shared.ErrInvalidInput
}
