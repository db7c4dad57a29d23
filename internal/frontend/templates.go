package frontend

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"

	"github.com/labstack/echo/v4"
)

//go:embed views/*.html
var templateFS embed.FS

const (
	viewsPattern = "views/*.html"
	layoutFile   = "views/layout.html"
	layoutName   = "layout.html"
)

// Template renders a page inside the shared layout. Each page is parsed
// into its own set so every page can define the same "content" block.
type Template struct {
	pages map[string]*template.Template
}

func newTemplate(funcs template.FuncMap) (*Template, error) {
	layout, err := template.New(layoutName).Funcs(funcs).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, viewsPattern)
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		set, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := set.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		pages[path.Base(file)] = set
	}
	return &Template{pages: pages}, nil
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	page, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return page.ExecuteTemplate(w, layoutName, data)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"selected": func(current *int64, id int64) bool {
			return current != nil && *current == id
		},
		"cssValue": func(s string) template.CSS {
			return template.CSS(cssSafe(s))
		},
	}
}

// cssSafe keeps theme values from breaking out of a CSS declaration
func cssSafe(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\'', '\\':
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
