package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"

	"github.com/gsarma/codepad/internal/apperr"
	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/models"
)

// Validator checks submission drafts and produces readable per-field messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func getTranslator() ut.Translator {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")

	return translator
}

// New builds a Validator with English messages and the "language" rule,
// which accepts only keys of code.Languages.
func New() *Validator {
	validate := validator.New()
	translator := getTranslator()

	// report fields by their form name so messages line up with the inputs
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	_ = validate.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		_, ok := code.Languages[fl.Field().String()]
		return ok
	})

	_ = enTranslations.RegisterDefaultTranslations(validate, translator)

	_ = validate.RegisterTranslation("language", translator,
		func(ut ut.Translator) error {
			return ut.Add("language", "{0} must be one of the supported languages", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("language", fe.Field())
			return msg
		})

	return &Validator{validate: validate, translator: translator}
}

// Draft validates a submission draft. It returns nil or an
// *apperr.ValidationError keyed by form field name.
func (v *Validator) Draft(d models.Draft) error {
	return v.translate(v.validate.Struct(d))
}

func (v *Validator) translate(err error) error {
	if err == nil {
		return nil
	}

	validationErrors := validator.ValidationErrors{}

	if !errors.As(err, &validationErrors) {
		return &apperr.InternalError{Op: "validate draft", Err: err}
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		// first failing rule wins for a field
		if _, seen := fields[e.Field()]; !seen {
			fields[e.Field()] = e.Translate(v.translator)
		}
	}

	return &apperr.ValidationError{Fields: fields}
}
