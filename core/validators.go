package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/it"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// User-facing validation texts are Italian; the API serves an Italian club.
var (
	// custom validation tags & texts
	alphaNumUnderTag   = "alphanum_"
	alphaNumUnderText  = "sono ammessi solo caratteri alfanumerici e trattini bassi"
	alphaNumUnderRegex = regexp.MustCompile(`^[\w\s]+$`)

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "campo obbligatorio"

	emailTag   = "email"
	emailText  = "indirizzo email non valido"
	oneofTag   = "oneof"
	oneofText  = "valore non consentito"
	minTag     = "min"
	minText    = "valore troppo piccolo"
	gteTag     = "gte"
	gteText    = "il valore deve essere maggiore o uguale a {0}"
	eqfieldTag = "eqfield"
	eqfieldText = "i campi non coincidono"
)

// Translator is the active translator; set by NewValidator.
var Translator ut.Translator

// NewValidator builds the app validator along with its translator.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	itLocale := it.New()
	uni := ut.New(itLocale, itLocale)
	translator, _ := uni.GetTranslator("it")
	InitValidators(validate, translator)
	Translator = translator
	return validate, translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	// English defaults as a fallback for tags we do not translate.
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
	_ = validate.RegisterValidation(alphaNumUnderTag, alphaNumUnderValidation)
	RegisterCustomTranslation(validate, translator, alphaNumUnderTag, alphaNumUnderText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, emailTag, emailText, true)
	RegisterCustomTranslation(validate, translator, oneofTag, oneofText, true)
	RegisterCustomTranslation(validate, translator, minTag, minText, true)
	RegisterCustomTranslation(validate, translator, gteTag, gteText, true)
	RegisterCustomTranslation(validate, translator, eqfieldTag, eqfieldText, true)
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
			s, _ := t.T(tag, fe.Param())
			return s
		},
	)
}

// Custom Global Validators

// alphaNumUnderValidation only allows alphanumeric characters and underscores.
func alphaNumUnderValidation(fl validator.FieldLevel) bool {
	return alphaNumUnderRegex.MatchString(fl.Field().String())
}
