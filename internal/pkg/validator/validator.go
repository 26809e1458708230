package validator

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate struct fields. Each failing field contributes the text of its
// `msg` tag once, in declaration order; fields without one fall back to
// "<Field> is invalid".
func Validate(v interface{}) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	seen := make(map[string]bool)
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if seen[fe.StructField()] {
			continue
		}
		seen[fe.StructField()] = true

		msg := fe.Field() + " is invalid"
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if tag := f.Tag.Get("msg"); tag != "" {
				msg = tag
			}
		}
		messages = append(messages, msg)
	}
	return messages
}
