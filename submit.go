package ripple

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/zoobzio/capitan"
)

// Credentials is a snapshot of the form taken on submit.
type Credentials struct {
	Username     string `validate:"required"`
	Password     string `validate:"min=6,mixedclasses"`
	Confirmation string `validate:"eqfield=Password"`
}

// validate is the shared validator instance.
var validate = newCredentialsValidator()

func newCredentialsValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("mixedclasses", func(fl validator.FieldLevel) bool {
		return HasMixedCharacterClasses(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("ripple: register mixedclasses: %v", err))
	}
	return v
}

// Submit snapshots the inputs and accepts them only if every field is valid
// and the current username was last checked as available. It is the action
// behind the control that AllValid enables, and is stricter than AllValid:
// an empty username fails with ErrInvalidCredentials even when its check
// came back available.
//
// Submit reads the fields as applied on the form's scheduler. Call it from
// that logical thread to be sure earlier edits have landed.
func (f *Form) Submit(ctx context.Context) (Credentials, error) {
	creds := Credentials{
		Username:     f.username.Get(),
		Password:     f.password.Get(),
		Confirmation: f.confirmation.Get(),
	}

	if err := validate.Struct(creds); err != nil {
		return Credentials{}, f.reject(ctx, fmt.Errorf("%w: %w", ErrInvalidCredentials, err))
	}

	switch f.validator.ResultFor(creds.Username) {
	case AvailabilityAvailable:
	case AvailabilityTaken:
		return Credentials{}, f.reject(ctx, ErrUsernameTaken)
	default:
		return Credentials{}, f.reject(ctx, ErrAvailabilityUnknown)
	}

	capitan.Emit(ctx, FormSubmitted)
	return creds, nil
}

func (*Form) reject(ctx context.Context, err error) error {
	capitan.Emit(ctx, FormRejected,
		KeyError.Field(err.Error()),
	)
	return err
}
