package validation

import (
	"strings"

	"agenda/internal/apperr"
	"agenda/internal/model"
)

// Contact validates a create/update payload.
// Field order: name, email, phone, is_favorite, category_id.
func Contact(raw map[string]any) (model.ContactInput, error) {
	var in model.ContactInput
	var err error

	if in.Name, err = name(raw); err != nil {
		return model.ContactInput{}, err
	}
	if in.Email, err = email(raw); err != nil {
		return model.ContactInput{}, err
	}

	phone, ok := stringField(raw, "phone")
	phone = strings.TrimSpace(phone)
	if !ok || !phonePattern.MatchString(phone) {
		return model.ContactInput{}, apperr.Validation("phone", MsgInvalidPhone)
	}
	in.Phone = phone

	if in.IsFavorite, err = favorite(raw["is_favorite"]); err != nil {
		return model.ContactInput{}, err
	}
	if in.CategoryID, err = categoryID(raw["category_id"]); err != nil {
		return model.ContactInput{}, err
	}
	return in, nil
}

func favorite(v any) (bool, error) {
	switch f := v.(type) {
	case nil:
		return false, nil
	case bool:
		return f, nil
	case string:
		switch strings.TrimSpace(f) {
		case "", "false":
			return false, nil
		case "true":
			return true, nil
		}
	}
	return false, apperr.Validation("is_favorite", MsgInvalidFavorite)
}

func categoryID(v any) (*int64, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		if s = strings.TrimSpace(s); s == "" || s == "null" {
			return nil, nil
		}
	}
	id, ok := positiveInt(v)
	if !ok {
		return nil, apperr.Validation("category_id", apperr.MsgInvalidCategory)
	}
	return &id, nil
}
