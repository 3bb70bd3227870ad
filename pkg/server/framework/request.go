package framework

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/validator.v9"
	entranslations "gopkg.in/go-playground/validator.v9/translations/en"
)

// validate holds the settings and caches for validating request payloads.
var validate *validator.Validate

// translator is a cache of locale and translation information.
var translator *ut.UniversalTranslator

func init() {
	validate = validator.New()

	// create a translator using english as the fallback locale
	enLocale := en.New()
	translator = ut.New(enLocale, enLocale)

	lang, _ := translator.GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(validate, lang)

	// use JSON tag names for errors instead of Go struct field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Decode reads an HTTP request body looking for a JSON document.
// The body is decoded into the value provided and checked for validation tags.
func Decode(r *http.Request, val any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(val); err != nil {
		return errors.Wrap(err, "decoding request body")
	}
	return ValidateRequest(val)
}

// ValidateRequest checks a request value against its validation tags,
// translating any violations into field errors
func ValidateRequest(val any) error {
	err := validate.Struct(val)
	if err == nil {
		return nil
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	lang, _ := translator.GetTranslator("en")
	fields := make([]string, 0, len(vErrors))
	for _, vError := range vErrors {
		fields = append(fields, vError.Field()+": "+vError.Translate(lang))
	}
	return errors.Errorf("field validation error: %s", strings.Join(fields, ", "))
}
