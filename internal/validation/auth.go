package validation

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores anything longer
	maxNameLength     = 100
)

// ValidateSignUp validates a sign-up request.
//
// Required fields:
//   - email: Must be a single valid address
//   - password: Between 8 and 72 bytes
//
// Optional fields:
//   - firstName, lastName: 100 characters or less
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateSignUp(req request.SignUpRequest) error {
	errors := make(map[string]string)

	validateEmail(req.Email, errors)

	if len(req.Password) < minPasswordLength {
		errors["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	} else if len(req.Password) > maxPasswordLength {
		errors["password"] = fmt.Sprintf("password must be %d bytes or less", maxPasswordLength)
	}

	validateName("firstName", req.FirstName, errors)
	validateName("lastName", req.LastName, errors)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateSignIn only checks presence; wrong credentials are reported by the auth service.
func ValidateSignIn(req request.SignInRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Email) == "" {
		errors["email"] = "email is required"
	}
	if req.Password == "" {
		errors["password"] = "password is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateProfile validates a profile update request.
// All fields are optional, but at least one must be provided.
func ValidateUpdateProfile(req request.UpdateProfileRequest) error {
	errors := make(map[string]string)

	if req.FirstName == nil && req.LastName == nil && req.SubscriptionTier == nil {
		errors["profile"] = "at least one field must be provided"
	}

	if req.FirstName != nil {
		validateName("firstName", *req.FirstName, errors)
	}
	if req.LastName != nil {
		validateName("lastName", *req.LastName, errors)
	}
	if req.SubscriptionTier != nil && !model.ValidTiers[*req.SubscriptionTier] {
		errors["subscriptionTier"] = fmt.Sprintf("invalid subscription tier: %s", *req.SubscriptionTier)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

func validateEmail(email string, errors map[string]string) {
	email = strings.TrimSpace(email)
	if email == "" {
		errors["email"] = "email is required"
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		errors["email"] = "email is not a valid address"
	}
}

func validateName(field, name string, errors map[string]string) {
	if len(name) > maxNameLength {
		errors[field] = fmt.Sprintf("%s must be %d characters or less", field, maxNameLength)
	}
}
