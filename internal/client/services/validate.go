package services

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/dmitrijs2005/userconsole/internal/client/models"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// looseEmail is deliberately permissive: something, @, something, a dot,
// something. It is not anchored.
var looseEmail = regexp.MustCompile(`\S+@\S+\.\S+`)

var (
	validatorOnce sync.Once
	validate      *validator.Validate
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
			return looseEmail.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

var messages = map[models.Field]map[string]string{
	models.FieldFirstName: {"notblank": "First name is required"},
	models.FieldLastName:  {"notblank": "Last name is required"},
	models.FieldEmail: {
		"required":   "Email is required",
		"looseemail": "Email is invalid",
		"email":      "Please enter a valid email address",
	},
	models.FieldPassword: {
		"required": "Password is required",
		"min":      "Password must be at least 3 characters long",
	},
}

func check(v any) models.FieldErrors {
	out := models.FieldErrors{}

	var verrs validator.ValidationErrors
	if err := getValidator().Struct(v); !errors.As(err, &verrs) {
		return out
	}

	for _, fe := range verrs {
		f := models.Field(fe.Field())
		if _, seen := out[f]; seen {
			continue
		}
		msg, ok := messages[f][fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out[f] = msg
	}
	return out
}

// Validate checks an edit draft: both names non-blank after trimming, email
// present and shaped like local@domain.tld. An empty result means valid.
func Validate(d models.EditDraft) models.FieldErrors {
	return check(d)
}

// ValidateCredentials checks the sign-in form before it is sent.
func ValidateCredentials(c models.Credentials) models.FieldErrors {
	return check(c)
}
