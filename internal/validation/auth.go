package validation

import (
	"strings"

	"agenda/internal/apperr"
	"agenda/internal/model"
)

// Registration validates a sign-up payload. Field order: name, email, password.
// The password is kept verbatim.
func Registration(raw map[string]any) (model.RegisterInput, error) {
	var in model.RegisterInput
	var err error

	if in.Name, err = name(raw); err != nil {
		return model.RegisterInput{}, err
	}
	if in.Email, err = email(raw); err != nil {
		return model.RegisterInput{}, err
	}

	password, ok := stringField(raw, "password")
	if !ok || len([]rune(password)) < minPasswordLength {
		return model.RegisterInput{}, apperr.Validation("password", MsgPasswordTooShort)
	}
	if len(password) > maxPasswordBytes {
		return model.RegisterInput{}, apperr.Validation("password", MsgPasswordTooLong)
	}
	in.Password = password
	return in, nil
}

// Login normalizes login credentials. It never fails: malformed input simply
// does not match any account.
func Login(raw map[string]any) (addr, password string) {
	addr, _ = stringField(raw, "email")
	password, _ = stringField(raw, "password")
	return strings.ToLower(strings.TrimSpace(addr)), password
}
