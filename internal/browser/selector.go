package browser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-rod/rod"
)

const hasTextPseudo = ":has-text("

// Selector is one alternative of a compound selector: a CSS selector,
// optionally narrowed to elements whose text contains Text (case-insensitive).
type Selector struct {
	CSS  string
	Text string
}

// Regex returns the JS regex literal used to match Text.
func (s Selector) Regex() string {
	quoted := strings.ReplaceAll(regexp.QuoteMeta(s.Text), "/", `\/`)
	return "/" + quoted + "/i"
}

// ParseSelector splits a comma separated selector list into alternatives.
// Plain CSS parts are kept together as one CSS list so the document order
// decides between them; each part using :has-text("...") becomes its own alternative.
func ParseSelector(raw string) ([]Selector, error) {
	parts := splitTopLevel(raw)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty selector")
	}

	var css []string
	var textual []Selector
	for _, part := range parts {
		idx := strings.Index(part, hasTextPseudo)
		if idx < 0 {
			css = append(css, part)
			continue
		}
		sel, err := parseHasText(part, idx)
		if err != nil {
			return nil, err
		}
		textual = append(textual, sel)
	}

	var out []Selector
	if len(css) > 0 {
		out = append(out, Selector{CSS: strings.Join(css, ", ")})
	}
	return append(out, textual...), nil
}

func parseHasText(part string, idx int) (Selector, error) {
	base := strings.TrimSpace(part[:idx])
	rest := part[idx+len(hasTextPseudo):]
	if !strings.HasSuffix(rest, ")") {
		return Selector{}, fmt.Errorf("unterminated :has-text in %q", part)
	}
	text := strings.TrimSpace(strings.TrimSuffix(rest, ")"))
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') && text[len(text)-1] == text[0] {
		text = text[1 : len(text)-1]
	}
	if text == "" {
		return Selector{}, fmt.Errorf("empty :has-text in %q", part)
	}
	if base == "" {
		base = "*"
	}
	return Selector{CSS: base, Text: text}, nil
}

// splitTopLevel splits on commas that are outside quotes, brackets and parentheses.
func splitTopLevel(raw string) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)
	flush := func(end int) {
		if p := strings.TrimSpace(raw[start:end]); p != "" {
			parts = append(parts, p)
		}
	}
	for i, r := range raw {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			if depth > 0 {
				depth--
			}
		case r == ',' && depth == 0:
			flush(i)
			start = i + 1
		}
	}
	flush(len(raw))
	return parts
}

// find waits until any alternative matches and returns the first element found.
func find(page *rod.Page, raw string) (*rod.Element, error) {
	sels, err := ParseSelector(raw)
	if err != nil {
		return nil, err
	}
	race := page.Race()
	for _, sel := range sels {
		if sel.Text == "" {
			race = race.Element(sel.CSS)
		} else {
			race = race.ElementR(sel.CSS, sel.Regex())
		}
	}
	el, err := race.Do()
	if err != nil {
		return nil, fmt.Errorf("element not found: %s: %w", raw, err)
	}
	return el, nil
}

// lookup checks the alternatives once without waiting.
func lookup(page *rod.Page, raw string) (*rod.Element, bool, error) {
	sels, err := ParseSelector(raw)
	if err != nil {
		return nil, false, err
	}
	for _, sel := range sels {
		var (
			has bool
			el  *rod.Element
		)
		if sel.Text == "" {
			has, el, err = page.Has(sel.CSS)
		} else {
			has, el, err = page.HasR(sel.CSS, sel.Regex())
		}
		if err != nil {
			return nil, false, err
		}
		if has {
			return el, true, nil
		}
	}
	return nil, false, nil
}
