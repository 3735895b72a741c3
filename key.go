package cacheaside

import (
	"fmt"
	"strings"
)

// Render formats a cache key. It fails with *FormatError when the number of
// verbs in template differs from len(args); "%%" is a literal percent.
func Render(template string, args ...any) (string, error) {
	if n := countVerbs(template); n != len(args) {
		return "", &FormatError{Template: template, Verbs: n, Args: len(args)}
	}
	// formatted via Template so vet does not treat Render as a printf wrapper
	return Template{s: template}.render(args...), nil
}

// Template is a validated single-argument key template such as "user:%d".
type Template struct {
	s string
}

// ParseTemplate accepts templates with exactly one verb.
func ParseTemplate(s string) (Template, error) {
	if n := countVerbs(s); n != 1 {
		return Template{}, &FormatError{Template: s, Verbs: n, Args: 1}
	}
	return Template{s: s}, nil
}

func (t Template) String() string { return t.s }

// Render produces the key for one identifier.
func (t Template) Render(arg any) string { return t.render(arg) }

func (t Template) render(args ...any) string { return fmt.Sprintf(t.s, args...) }

// WithSuffix appends ":"+suffix to the template itself, so "user:%d" with
// suffix "en" renders id 7 as "user:7:en". A blank suffix is ignored.
func (t Template) WithSuffix(suffix string) Template {
	if strings.TrimSpace(suffix) == "" {
		return t
	}
	return Template{s: t.s + ":" + strings.ReplaceAll(suffix, "%", "%%")}
}

// suffixOf turns a secondary batch argument into its literal suffix.
func suffixOf(extra any) string {
	if isNil(extra) {
		return ""
	}
	return fmt.Sprint(extra)
}

func countVerbs(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '%' {
			i++
			continue
		}
		n++
	}
	return n
}
