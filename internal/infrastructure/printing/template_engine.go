package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateEngine renders HTML templates with the formatting helpers printed
// documents need.
type TemplateEngine struct {
	funcMap        template.FuncMap
	currencySymbol string
	location       *time.Location
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithCurrencySymbol prefixes formatted amounts, e.g. "$"
func WithCurrencySymbol(symbol string) TemplateEngineOption {
	return func(e *TemplateEngine) { e.currencySymbol = symbol }
}

// WithLocation sets the time zone dates are printed in
func WithLocation(loc *time.Location) TemplateEngineOption {
	return func(e *TemplateEngine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// NewTemplateEngine creates a new template engine with default configuration
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{location: time.UTC}
	for _, opt := range opts {
		opt(e)
	}

	e.funcMap = template.FuncMap{
		"formatMoney": func(d decimal.Decimal) string {
			return e.currencySymbol + formatMoneyRaw(d)
		},
		"formatMoneyRaw": formatMoneyRaw,
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(e.location).Format("2006-01-02")
		},
		"formatDateTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(e.location).Format("2006-01-02 15:04")
		},
		"statusText": statusText,
		"title":      titleCase,
		"upper":      strings.ToUpper,
		"default": func(fallback, v string) string {
			if strings.TrimSpace(v) == "" {
				return fallback
			}
			return v
		},
		"inc": func(i int) int { return i + 1 },
	}
	return e
}

// Parse compiles a named template with the engine's helpers plus extra
func (e *TemplateEngine) Parse(name, content string, extra template.FuncMap) (*template.Template, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewRenderError(ErrCodeTemplate, "template content is empty", nil)
	}
	funcMap := make(template.FuncMap, len(e.funcMap)+len(extra))
	maps.Copy(funcMap, e.funcMap)
	maps.Copy(funcMap, extra)

	tmpl, err := template.New(name).Funcs(funcMap).Parse(content)
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplate, "failed to parse template", err)
	}
	return tmpl, nil
}

// Execute renders a parsed template to a string
func (e *TemplateEngine) Execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplate, "failed to execute template", err)
	}
	return buf.String(), nil
}

// RenderString parses and executes content in one step
func (e *TemplateEngine) RenderString(name, content string, data any) (string, error) {
	tmpl, err := e.Parse(name, content, nil)
	if err != nil {
		return "", err
	}
	return e.Execute(tmpl, data)
}

// formatMoneyRaw formats an amount with thousand separators and two decimals.
// Example: 1234.5 -> "1,234.50"
func formatMoneyRaw(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	intPart, decPart, _ := strings.Cut(d.StringFixed(2), ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(c)
	}
	return fmt.Sprintf("%s%s.%s", sign, b.String(), decPart)
}

// statusText turns an enum such as PARTIALLY_PAID into "Partially Paid"
func statusText(status string) string {
	return titleCase(strings.ReplaceAll(strings.ToLower(status), "_", " "))
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
