package core

import (
	"reflect"
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	semesterTag  = "semester"
	semesterText = "must be one of Fall, Spring or Summer"
	semesters    = map[string]struct{}{"Fall": {}, "Spring": {}, "Summer": {}}

	gradeTag   = "grade"
	gradeText  = "must be a letter grade A to E"
	gradeRegex = regexp.MustCompile(`^[A-E]$`)

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(semesterTag, semesterValidation)
	RegisterCustomTranslation(validate, translator, semesterTag, semesterText)

	_ = validate.RegisterValidation(gradeTag, gradeValidation)
	RegisterCustomTranslation(validate, translator, gradeTag, gradeText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// semesterValidation only allows known academic semester names.
func semesterValidation(fl validator.FieldLevel) bool {
	_, ok := semesters[fl.Field().String()]
	return ok
}

// gradeValidation only allows single letter grades A through E.
func gradeValidation(fl validator.FieldLevel) bool {
	return gradeRegex.MatchString(fl.Field().String())
}
