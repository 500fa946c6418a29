package forms_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"blog-server/forms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestDecodeRegisterForm(t *testing.T) {
	req := postRequest(url.Values{
		"email":              {"  a@x.com "},
		"password":           {" abcd1234 "},
		"confirm_password":   {" abcd1234 "},
		"name":               {"A"},
		"gorilla.csrf.Token": {"token"},
		"submit":             {"Sign Me Up!"},
	})

	var form forms.RegisterForm
	require.NoError(t, forms.Decode(req, &form))

	assert.Equal(t, "a@x.com", form.Email)
	assert.Equal(t, " abcd1234 ", form.Password, "passwords are never trimmed")
	assert.Equal(t, "A", form.Name)
}

func TestValidateRegisterForm(t *testing.T) {
	tests := []struct {
		name     string
		form     forms.RegisterForm
		expected forms.Errors
	}{
		{
			name: "valid",
			form: forms.RegisterForm{Email: "a@x.com", Password: "abcd1234", ConfirmPassword: "abcd1234", Name: "A"},
		},
		{
			name: "all missing",
			form: forms.RegisterForm{},
			expected: forms.Errors{
				"email":            "This field is required.",
				"password":         "This field is required.",
				"confirm_password": "This field is required.",
				"name":             "This field is required.",
			},
		},
		{
			name: "bad email and weak password",
			form: forms.RegisterForm{Email: "nope", Password: "abcdefgh", ConfirmPassword: "abcdefgh", Name: "A"},
			expected: forms.Errors{
				"email":    "Invalid email address.",
				"password": "Password must be at least 8 characters long and contain at least one number.",
			},
		},
		{
			name: "short password with digit",
			form: forms.RegisterForm{Email: "a@x.com", Password: "abc1", ConfirmPassword: "abc1", Name: "A"},
			expected: forms.Errors{
				"password": "Password must be at least 8 characters long and contain at least one number.",
			},
		},
		{
			name: "mismatched confirmation",
			form: forms.RegisterForm{Email: "a@x.com", Password: "abcd1234", ConfirmPassword: "abcd12345", Name: "A"},
			expected: forms.Errors{
				"confirm_password": "Passwords must match.",
			},
		},
		{
			name: "multibyte password over the bcrypt byte limit",
			form: forms.RegisterForm{
				Email:           "a@x.com",
				Password:        strings.Repeat("é", 40) + "1",
				ConfirmPassword: strings.Repeat("é", 40) + "1",
				Name:            "A",
			},
			expected: forms.Errors{
				"password": "Must be at most 72 bytes.",
			},
		},
		{
			name: "password at the bcrypt byte limit",
			form: forms.RegisterForm{
				Email:           "a@x.com",
				Password:        strings.Repeat("a", 71) + "1",
				ConfirmPassword: strings.Repeat("a", 71) + "1",
				Name:            "A",
			},
		},
		{
			name: "email longer than the column",
			form: forms.RegisterForm{Email: strings.Repeat("a", 50) + "@" + strings.Repeat("b", 46) + ".com", Password: "abcd1234", ConfirmPassword: "abcd1234", Name: "A"},
			expected: forms.Errors{
				"email": "Must be at most 100 characters.",
			},
		},
		{
			name: "name too long",
			form: forms.RegisterForm{Email: "a@x.com", Password: "abcd1234", ConfirmPassword: "abcd1234", Name: strings.Repeat("n", 101)},
			expected: forms.Errors{
				"name": "Must be at most 100 characters.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := forms.Validate(&tt.form)
			if tt.expected == nil {
				assert.Nil(t, errs)
				return
			}
			assert.Equal(t, tt.expected, errs)
		})
	}
}

func TestValidatePostForm(t *testing.T) {
	valid := forms.PostForm{Title: "Hello", Subtitle: "World", ImgUrl: "https://example.com/a.png", Body: "<p>hi</p>"}
	assert.Nil(t, forms.Validate(&valid))

	bad := valid
	bad.ImgUrl = "not a url"
	bad.Title = strings.Repeat("t", 151)
	errs := forms.Validate(&bad)
	assert.Equal(t, "Invalid URL.", errs["img_url"])
	assert.Equal(t, "Must be at most 150 characters.", errs["title"])
	assert.Len(t, errs, 2)

	long := valid
	long.ImgUrl = "https://example.com/" + strings.Repeat("a", 240) + ".png"
	assert.Equal(t, forms.Errors{"img_url": "Must be at most 250 characters."}, forms.Validate(&long))
}

func TestValidateContactForm(t *testing.T) {
	errs := forms.Validate(&forms.ContactForm{Name: "A", Email: "a@x.com", Message: "hi"})
	assert.Equal(t, forms.Errors{"phone": "This field is required."}, errs)
}

func TestErrorsMessage(t *testing.T) {
	errs := forms.Errors{"title": "too long", "body": "missing"}
	assert.Equal(t, "invalid form: body: missing; title: too long", errs.Error())
}

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, forms.IsStrongPassword("abcd1234"))
	assert.False(t, forms.IsStrongPassword("abcdefgh"))
	assert.False(t, forms.IsStrongPassword("abc123"))
	assert.True(t, forms.IsStrongPassword("pässwört9"))
}

func TestSanitizeRichText(t *testing.T) {
	out := forms.SanitizeRichText(`<p onclick="steal()">Hi <b>there</b></p><script>alert(1)</script>`)
	assert.Equal(t, "<p>Hi <b>there</b></p>", out)
}
