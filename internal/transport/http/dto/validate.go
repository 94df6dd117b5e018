package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/baechuer/task-manager/internal/domain"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// report json names ("profileImageUrl"), not Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}
}

// validateStruct runs the struct tags and reports the first failing field
// as a validation error with an English message.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.Wrap(domain.KindValidation, "invalid_request", "Invalid request body", err)
	}

	fe := verrs[0]
	code := "invalid_field"
	if fe.Tag() == "required" {
		code = "missing_field"
	}
	return domain.WithMeta(domain.New(domain.KindValidation, code, fe.Translate(trans)), map[string]string{
		"field": fe.Field(),
		"rule":  fe.Tag(),
	})
}
