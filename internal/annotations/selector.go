package annotations

import (
	"fmt"
	"strings"

	"github.com/toyz/ngcc/internal/output"
)

// selectorClassFlag marks the start of class names inside a compiled selector
const selectorClassFlag = 8

// CssSelector is one simple selector: element[attr=value].class
type CssSelector struct {
	Element string
	Attrs   []string // name, value pairs
	Classes []string
}

// ParseSelector splits a comma separated selector list into simple selectors.
// Only element, attribute and class parts are supported.
func ParseSelector(selector string) ([]CssSelector, error) {
	var result []CssSelector
	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty selector in '%s'", selector)
		}
		css, err := parseSimpleSelector(part)
		if err != nil {
			return nil, err
		}
		result = append(result, css)
	}
	return result, nil
}

func parseSimpleSelector(s string) (CssSelector, error) {
	var css CssSelector
	i := 0
	readName := func() string {
		start := i
		for i < len(s) && isSelectorNameChar(s[i]) {
			i++
		}
		return s[start:i]
	}

	css.Element = readName()
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			name := readName()
			if name == "" {
				return css, fmt.Errorf("missing class name in selector '%s'", s)
			}
			css.Classes = append(css.Classes, name)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return css, fmt.Errorf("unterminated attribute in selector '%s'", s)
			}
			body := s[i+1 : i+end]
			i += end + 1
			name, value, _ := strings.Cut(body, "=")
			name = strings.TrimSpace(name)
			if name == "" {
				return css, fmt.Errorf("missing attribute name in selector '%s'", s)
			}
			value = strings.Trim(strings.TrimSpace(value), `"'`)
			css.Attrs = append(css.Attrs, name, value)
		default:
			return css, fmt.Errorf("unsupported character %q in selector '%s'", s[i], s)
		}
	}
	return css, nil
}

func isSelectorNameChar(c byte) bool {
	return c == '-' || c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// selectorsExpression compiles selectors into the runtime's nested array form:
// [[element, attr, value, ..., 8, class, ...], ...]
func selectorsExpression(selectors []CssSelector) output.Expression {
	entries := make([]output.Expression, len(selectors))
	for i, css := range selectors {
		parts := []output.Expression{output.Literal(css.Element)}
		for _, attr := range css.Attrs {
			parts = append(parts, output.Literal(attr))
		}
		if len(css.Classes) > 0 {
			parts = append(parts, output.Literal(selectorClassFlag))
			for _, class := range css.Classes {
				parts = append(parts, output.Literal(class))
			}
		}
		entries[i] = output.LiteralArr(parts...)
	}
	return output.LiteralArr(entries...)
}
