package setup

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"blog-server/config"
	"blog-server/db/dbtest"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var csrfInput = regexp.MustCompile(`name="gorilla.csrf.Token" value="([^"]+)"`)

func TestHandlerRequiresCsrfToken(t *testing.T) {
	dbtest.Setup(t)

	cfg := &config.Config{Env: "development", SecretKey: "test-secret", MailTransport: config.MailTransportDev}
	InitServices(cfg)

	srv := httptest.NewServer(Handler(cfg, mux.NewRouter()))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	form := url.Values{"email": {"a@x.com"}, "password": {"abcd1234"}}

	res, err := client.PostForm(srv.URL+"/login", form)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, err = client.Get(srv.URL + "/login")
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)

	match := csrfInput.FindStringSubmatch(string(body))
	require.Len(t, match, 2, "login form carries a csrf token")

	form.Set("gorilla.csrf.Token", match[1])
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/login", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", srv.URL+"/login")

	res, err = client.Do(req)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/login", res.Header.Get("Location"), "unknown email goes back to the login page")
}
