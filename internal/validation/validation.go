// Package validation normalizes raw request payloads into typed records.
//
// Every validator is fail-fast: fields are checked in declaration order and
// only the first violated rule is reported, as an *apperr.Error of kind
// Validation.
package validation

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"agenda/internal/apperr"

	"github.com/go-playground/validator/v10"
)

const (
	MsgNameTooShort     = "nome deve ter pelo menos 3 letras"
	MsgInvalidEmail     = "email inválido"
	MsgInvalidPhone     = "telefone deve ter 10 ou 11 dígitos"
	MsgInvalidFavorite  = "is_favorite deve ser true ou false"
	MsgInvalidID        = "identificador inválido"
	MsgPasswordTooShort = "senha deve ter pelo menos 6 caracteres"
	MsgPasswordTooLong  = "senha deve ter no máximo 72 bytes"
	MsgInvalidBody      = "corpo da requisição inválido"
)

const (
	minNameRunes      = 3
	minPasswordLength = 6
	maxPasswordBytes  = 72 // bcrypt ignores anything past this
)

var (
	phonePattern  = regexp.MustCompile(`^[0-9]{10,11}$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)

	validate = validator.New()
)

// stringField returns raw[key] as a string. Absent and null values read as "".
// ok is false when the value has another type.
func stringField(raw map[string]any, key string) (s string, ok bool) {
	switch v := raw[key].(type) {
	case nil:
		return "", true
	case string:
		return v, true
	default:
		return "", false
	}
}

func name(raw map[string]any) (string, error) {
	s, ok := stringField(raw, "name")
	s = strings.TrimSpace(s)
	if !ok || utf8.RuneCountInString(s) < minNameRunes {
		return "", apperr.Validation("name", MsgNameTooShort)
	}
	return s, nil
}

func email(raw map[string]any) (string, error) {
	s, ok := stringField(raw, "email")
	s = strings.ToLower(strings.TrimSpace(s))
	if !ok || validate.Var(s, "required,email") != nil {
		return "", apperr.Validation("email", MsgInvalidEmail)
	}
	return s, nil
}

// ID parses a path identifier: one or more ASCII digits fitting an int64.
func ID(raw string) (int64, error) {
	if !digitsPattern.MatchString(raw) {
		return 0, apperr.Validation("id", MsgInvalidID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation("id", MsgInvalidID)
	}
	return id, nil
}

// positiveInt coerces a JSON number or digit string into a positive int64.
func positiveInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n < 1 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), n > 0
	case int64:
		return n, n > 0
	case json.Number:
		return positiveInt(n.String())
	case string:
		s := strings.TrimSpace(n)
		if !digitsPattern.MatchString(s) {
			return 0, false
		}
		id, err := strconv.ParseInt(s, 10, 64)
		return id, err == nil && id > 0
	default:
		return 0, false
	}
}
