// Package prompt renders the prompts sent to the generation service.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/list"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Builder renders analyze and decompose prompts from embedded templates.
type Builder struct {
	analyze   *template.Template
	decompose *template.Template
}

// NewBuilder parses the embedded templates.
func NewBuilder() (*Builder, error) {
	funcs := template.FuncMap{
		"indent": func(depth int) string { return strings.Repeat("  ", depth) },
	}
	parse := func(name string) (*template.Template, error) {
		src, err := templatesFS.ReadFile("templates/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
		t, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		return t, nil
	}

	analyze, err := parse("analyze.tmpl")
	if err != nil {
		return nil, err
	}
	decompose, err := parse("decompose.tmpl")
	if err != nil {
		return nil, err
	}
	return &Builder{analyze: analyze, decompose: decompose}, nil
}

// MustNewBuilder is NewBuilder for package-level defaults.
func MustNewBuilder() *Builder {
	b, err := NewBuilder()
	if err != nil {
		panic(err)
	}
	return b
}

type analyzeData struct {
	Draft     string
	Goals     string
	Stage     int
	Checklist checklist.Tree
	Used      []string
}

type decomposeData struct {
	Item  checklist.Item
	Goals string
}

// Analyze renders the prompt that asks for a categorized action list.
func (b *Builder) Analyze(doc *list.Document) (string, error) {
	return render(b.analyze, analyzeData{
		Draft:     strings.TrimSpace(doc.Draft),
		Goals:     strings.TrimSpace(doc.Goals),
		Stage:     doc.Stage,
		Checklist: doc.Checklist,
		Used:      doc.UsedActions,
	})
}

// Decompose renders the prompt that asks for sub-tasks of one item.
func (b *Builder) Decompose(doc *list.Document, item checklist.Item) (string, error) {
	return render(b.decompose, decomposeData{
		Item:  item,
		Goals: strings.TrimSpace(doc.Goals),
	})
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
