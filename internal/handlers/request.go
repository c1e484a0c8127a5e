package handlers

import (
	"math"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"shoppingify/internal/models"
	"shoppingify/internal/normalize"
)

const (
	errCategoryInvalid  = "Category is not valid"
	errNameInvalid      = "Name is not valid"
	errAmountInvalid    = "Amount is not valid"
	errCompletedInvalid = "Completed property is not valid"
	errStateInvalid     = "State is not valid"
	errEmailInvalid     = "Email is not valid"
	errPasswordInvalid  = "Password is not valid"
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,4}$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("email_format", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// fieldReader reads a JSON body field by field. The first failing field
// wins; later reads are no-ops once an error is recorded.
type fieldReader struct {
	data     map[string]any
	validate *validator.Validate
	err      string
}

// newFieldReader decodes the request body. A missing or malformed body reads
// as an empty object so that the first required field reports the error.
func newFieldReader(c *gin.Context, v *validator.Validate) *fieldReader {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil || data == nil {
		data = map[string]any{}
	}
	return &fieldReader{data: data, validate: v}
}

func (r *fieldReader) fail(msg string) {
	if r.err == "" {
		r.err = msg
	}
}

// text returns a required string field that satisfies tag, trimmed.
func (r *fieldReader) text(key, tag, msg string) string {
	if r.err != "" {
		return ""
	}
	s, ok := r.data[key].(string)
	if !ok {
		r.fail(msg)
		return ""
	}
	s = normalize.Text(s)
	if err := r.validate.Var(s, tag); err != nil {
		r.fail(msg)
		return ""
	}
	return s
}

// optional returns a string field, or "" when it is absent or not a string.
func (r *fieldReader) optional(key string) string {
	s, _ := r.data[key].(string)
	return s
}

// positiveInt accepts a JSON number that is a whole number greater than zero.
func (r *fieldReader) positiveInt(key, msg string) int {
	if r.err != "" {
		return 0
	}
	f, ok := r.data[key].(float64)
	if !ok || f <= 0 || f != math.Trunc(f) || f >= math.MaxInt {
		r.fail(msg)
		return 0
	}
	return int(f)
}

func (r *fieldReader) boolean(key, msg string) bool {
	if r.err != "" {
		return false
	}
	b, ok := r.data[key].(bool)
	if !ok {
		r.fail(msg)
	}
	return b
}

func (r *fieldReader) itemRequest() models.ItemRequest {
	return models.ItemRequest{
		Category: r.text("category", "notblank", errCategoryInvalid),
		Name:     r.text("name", "notblank", errNameInvalid),
	}
}

// readCredentials applies the shared register/login rules. The returned
// email is normalized.
func readCredentials(r *fieldReader) models.Credentials {
	email := r.text("email", "notblank,email_format", errEmailInvalid)

	var password string
	if r.err == "" {
		p, ok := r.data["password"].(string)
		if !ok || r.validate.Var(p, "notblank") != nil {
			r.fail(errPasswordInvalid)
		}
		password = p
	}

	return models.Credentials{
		Email:    normalize.Email(email),
		Password: password,
	}
}
