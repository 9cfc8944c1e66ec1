// Package querytemplate renders the back end's named queries from an
// embedded template set.
package querytemplate

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
)

//go:embed queries.tmpl
var queriesSource string

var _ contracts.QueryBuilder = (*Builder)(nil)

const dateLayout = "2006-01-02T15:04:05"

type Builder struct {
	tmpl *template.Template
}

// New parses the embedded query set. It only fails if the embedded file is
// broken.
func New() (*Builder, error) {
	tmpl, err := template.New("queries").
		Option("missingkey=error").
		Funcs(template.FuncMap{"q": quote, "date": formatDate}).
		Parse(queriesSource)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query templates: %w", err)
	}
	return &Builder{tmpl: tmpl}, nil
}

// Build renders the named query with params. The result is a single line.
func (b *Builder) Build(name string, params map[string]any) (string, error) {
	t := b.tmpl.Lookup(name)
	if t == nil || name == "queries" {
		return "", fmt.Errorf("unknown query %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("failed to render query %s: %w", name, err)
	}
	return strings.Join(strings.Fields(buf.String()), " "), nil
}

// Names lists the queries the builder knows.
func (b *Builder) Names() []string {
	var names []string
	for _, t := range b.tmpl.Templates() {
		if t.Name() != "queries" {
			names = append(names, t.Name())
		}
	}
	return names
}

func quote(v any) string {
	s := fmt.Sprint(v)
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

func formatDate(v any) (string, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(dateLayout), nil
	case *time.Time:
		if t == nil {
			return "", fmt.Errorf("nil date")
		}
		return t.UTC().Format(dateLayout), nil
	default:
		return "", fmt.Errorf("cannot format %T as a date", v)
	}
}
