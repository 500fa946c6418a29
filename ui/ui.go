package ui

import (
	"bytes"
	"crypto/md5"
	"embed"
	"encoding/hex"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blog-server/db"

	"go.uber.org/zap"
)

//go:embed templates
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	PageIndex    = "index.html"
	PagePost     = "post.html"
	PageMakePost = "make-post.html"
	PageRegister = "register.html"
	PageLogin    = "login.html"
	PageAbout    = "about.html"
	PageContact  = "contact.html"
	PageError    = "error.html"
)

// PageData holds the data every page gets, with the page's own data in Content.
type PageData struct {
	Title       string
	CurrentUser *db.User
	Flashes     []string
	CSRFField   template.HTML
	Year        int
	Content     interface{}
}

var funcs = template.FuncMap{
	"gravatar": Gravatar,
	// only ever given html that was sanitized before it was stored
	"safe": func(s string) template.HTML {
		return template.HTML(s)
	},
}

var pages = map[string]*template.Template{}

func init() {
	for _, page := range []string{PageIndex, PagePost, PageMakePost, PageRegister, PageLogin, PageAbout, PageContact, PageError} {
		pages[page] = template.Must(
			template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+page),
		)
	}
}

// Render executes page inside the layout. Output is buffered so a template
// error still produces a clean 500 instead of half a page.
func Render(w http.ResponseWriter, status int, page string, data PageData) {
	tmpl, ok := pages[page]
	if !ok {
		zap.S().Errorf("Unknown template: %s", page)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	if data.Year == 0 {
		data.Year = time.Now().Year()
	}

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "layout.html", data)
	if err != nil {
		zap.S().Errorf("Error executing template %s: %v", page, err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

// Gravatar returns the avatar url for email: 100px, G-rated, retro fallback.
func Gravatar(email string) string {
	hash := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))

	q := url.Values{}
	q.Set("s", "100")
	q.Set("r", "g")
	q.Set("d", "retro")

	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(hash[:]) + "?" + q.Encode()
}
