// Package forms decodes and validates the HTML forms submitted to the server.
package forms

import (
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
)

type RegisterForm struct {
	Email           string `schema:"email" validate:"required,email,max=100"`
	Password        string `schema:"password" validate:"required,password,bcryptlen"`
	ConfirmPassword string `schema:"confirm_password" validate:"required,eqfield=Password"`
	Name            string `schema:"name" validate:"required,max=100"`
}

type LoginForm struct {
	Email    string `schema:"email" validate:"required,email"`
	Password string `schema:"password" validate:"required"`
}

type PostForm struct {
	Title    string `schema:"title" validate:"required,max=150"`
	Subtitle string `schema:"subtitle" validate:"required,max=150"`
	ImgUrl   string `schema:"img_url" validate:"required,http_url,max=250"`
	Body     string `schema:"body" validate:"required"`
}

type CommentForm struct {
	CommentText string `schema:"comment_text" validate:"required"`
}

type ContactForm struct {
	Name    string `schema:"name" validate:"required"`
	Email   string `schema:"email" validate:"required"`
	Phone   string `schema:"phone" validate:"required"`
	Message string `schema:"message" validate:"required"`
}

// Errors maps a form field name to the message shown next to it.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + ": " + e[field]
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

const passwordStrengthMsg = "Password must be at least 8 characters long and contain at least one number."

// bcrypt rejects passwords longer than this many bytes
const MaxPasswordBytes = 72

var (
	decoder  = schema.NewDecoder()
	validate = validator.New(validator.WithRequiredStructEnabled())
	policy   = bluemonday.UGCPolicy()
)

func init() {
	// csrf tokens and submit buttons come along with every form
	decoder.IgnoreUnknownKeys(true)

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("schema"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	err := validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	if err != nil {
		panic(err)
	}
}

// IsStrongPassword requires at least 8 characters and at least one digit.
func IsStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < 8 {
		return false
	}
	return strings.IndexFunc(password, unicode.IsDigit) >= 0
}

// Decode fills dst from the request's form body. String fields are trimmed, passwords excepted.
func Decode(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(err, "error parsing form")
	}

	if err := decoder.Decode(dst, r.PostForm); err != nil {
		return errors.Wrap(err, "error decoding form")
	}

	trimStrings(dst)

	return nil
}

func trimStrings(dst any) {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if field.Kind() != reflect.String || !field.CanSet() {
			continue
		}
		if strings.Contains(t.Field(i).Tag.Get("schema"), "password") {
			continue
		}
		field.SetString(strings.TrimSpace(field.String()))
	}
}

// Validate checks form against its declared rules and returns nil when it passes.
func Validate(form any) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{"": err.Error()}
	}

	errs := Errors{}
	for _, fe := range fieldErrs {
		if _, ok := errs[fe.Field()]; ok {
			continue
		}
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "url", "http_url":
		return "Invalid URL."
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "eqfield":
		return "Passwords must match."
	case "password":
		return passwordStrengthMsg
	case "bcryptlen":
		return fmt.Sprintf("Must be at most %d bytes.", MaxPasswordBytes)
	}
	return "Invalid value."
}

// SanitizeRichText strips markup that isn't safe to render back from editor-submitted HTML.
func SanitizeRichText(html string) string {
	return policy.Sanitize(html)
}
