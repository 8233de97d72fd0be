// Package view renders the HTML pages of the snippet board.
//
// Pages are html/template files embedded in the binary and exposed as
// templ.Components, so handlers render them the same way they render any
// other component.
package view

import (
	"context"
	"embed"
	"html/template"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/msomdec/snippet-board/internal/domain"
)

//go:embed templates/*.html
var files embed.FS

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{
		"home", "snippet_list", "snippet_view", "snippet_create",
		"snippet_update", "snippet_delete", "register", "login", "error",
	} {
		pages[name] = template.Must(template.ParseFS(files, "templates/layout.html", "templates/"+name+".html"))
	}
}

// Page holds what every page shows around its content.
type Page struct {
	Title    string
	Username string
	LoggedIn bool
	Flash    *domain.Flash
}

// SnippetItem is a snippet as listed, annotated with what the viewer may do.
type SnippetItem struct {
	domain.Snippet
	LoggedIn bool
	CanEdit  bool
}

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages[name].ExecuteTemplate(w, "layout", data)
	})
}

func Home(p Page) templ.Component {
	p.Title = "Home"
	return page("home", struct{ Page Page }{p})
}

func SnippetList(p Page, rows []SnippetItem) templ.Component {
	p.Title = "Snippets"
	return page("snippet_list", struct {
		Page Page
		Rows []SnippetItem
	}{p, rows})
}

func SnippetView(p Page, s domain.Snippet, canEdit bool) templ.Component {
	p.Title = "Snippet"
	return page("snippet_view", struct {
		Page    Page
		Snippet domain.Snippet
		CanEdit bool
	}{p, s, canEdit})
}

func SnippetCreate(p Page) templ.Component {
	p.Title = "New snippet"
	return page("snippet_create", struct{ Page Page }{p})
}

func SnippetUpdate(p Page, s domain.Snippet) templ.Component {
	p.Title = "Edit snippet"
	return page("snippet_update", struct {
		Page    Page
		Snippet domain.Snippet
	}{p, s})
}

func SnippetDelete(p Page, s domain.Snippet) templ.Component {
	p.Title = "Delete snippet"
	return page("snippet_delete", struct {
		Page    Page
		Snippet domain.Snippet
	}{p, s})
}

func Register(p Page) templ.Component {
	p.Title = "Register"
	return page("register", struct{ Page Page }{p})
}

func Login(p Page) templ.Component {
	p.Title = "Log in"
	return page("login", struct{ Page Page }{p})
}

// ErrorPage renders a status page. message is shown to the user as is.
func ErrorPage(p Page, status int, message string) templ.Component {
	p.Title = http.StatusText(status)
	return page("error", struct {
		Page       Page
		Status     int
		StatusText string
		Message    string
	}{p, status, http.StatusText(status), message})
}

// SnippetRow renders one table row of the snippet list. Its element id is
// "snippet-" followed by the snippet id.
func SnippetRow(item SnippetItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages["snippet_list"].ExecuteTemplate(w, "snippet-row", item)
	})
}

// RowID is the element id SnippetRow gives the row for id.
func RowID(id string) string {
	return "snippet-" + id
}
