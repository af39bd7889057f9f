// Package i18n renders user-facing messages for domain error codes.
//
// Rule-violation rejections are surfaced verbatim to the acting player, so
// every rule code carries a message template precise enough to drive a
// corrected retry. Templates execute against the error's metadata map.
// Locale resolution uses golang.org/x/text language matching with an en-US
// fallback.
package i18n

import (
	"strings"
	"text/template"

	"golang.org/x/text/language"

	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

// BaseLocale is the fallback locale used when no catalog matches.
const BaseLocale = "en-US"

// Catalog maps error codes to message templates for a set of locales.
type Catalog struct {
	matcher language.Matcher
	tags    []language.Tag
	locales map[string]map[errors.Code]*template.Template
}

// NewCatalog builds a catalog from per-locale template sources. The base
// locale must be present.
func NewCatalog(sources map[string]map[errors.Code]string) (*Catalog, error) {
	if _, ok := sources[BaseLocale]; !ok {
		return nil, errors.New(errors.CodeUnknown, "base locale "+BaseLocale+" missing from catalog")
	}

	c := &Catalog{locales: make(map[string]map[errors.Code]*template.Template)}

	// Base locale first so matcher index 0 is the fallback.
	order := []string{BaseLocale}
	for locale := range sources {
		if locale != BaseLocale {
			order = append(order, locale)
		}
	}

	for _, locale := range order {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, errors.Wrap(errors.CodeUnknown, "parse locale "+locale, err)
		}
		compiled := make(map[errors.Code]*template.Template, len(sources[locale]))
		for code, src := range sources[locale] {
			tmpl, err := template.New(string(code)).Parse(src)
			if err != nil {
				return nil, errors.Wrap(errors.CodeUnknown, "parse template for "+string(code), err)
			}
			compiled[code] = tmpl
		}
		c.tags = append(c.tags, tag)
		c.locales[tag.String()] = compiled
	}

	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// Resolve returns the catalog locale best matching the requested locale,
// falling back to the base locale.
func (c *Catalog) Resolve(requested string) string {
	if strings.TrimSpace(requested) == "" {
		return BaseLocale
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return BaseLocale
	}
	_, index, _ := c.matcher.Match(tag)
	return c.tags[index].String()
}

// Message renders the user-facing message for a domain error in the
// requested locale. Unknown codes fall back to the error's internal message.
func (c *Catalog) Message(locale string, err *errors.Error) string {
	resolved := c.Resolve(locale)

	tmpl := c.lookup(resolved, err.Code)
	if tmpl == nil {
		tmpl = c.lookup(BaseLocale, err.Code)
	}
	if tmpl == nil {
		return err.Message
	}

	var sb strings.Builder
	if execErr := tmpl.Execute(&sb, err.Metadata); execErr != nil {
		return err.Message
	}
	return sb.String()
}

func (c *Catalog) lookup(locale string, code errors.Code) *template.Template {
	templates, ok := c.locales[locale]
	if !ok {
		return nil
	}
	return templates[code]
}
