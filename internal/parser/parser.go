// Package parser reads TypeScript and ES2015 sources into the declarations the
// analyzer works on: import bindings and decorated classes.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/host"
)

// Parser converts source text into host.ParsedFile values
type Parser struct {
	grammar *participle.Parser[program]
	host    host.ReflectionHost
}

// NewParser creates a parser that resolves decorator imports through h
func NewParser(h host.ReflectionHost) *Parser {
	return &Parser{
		grammar: newGrammar(),
		host:    h,
	}
}

// ParseFile parses src as the contents of fileName
func (p *Parser) ParseFile(fileName string, src []byte) (*host.ParsedFile, error) {
	return p.ParseSource(fileName, string(src))
}

// ParseSource parses source as the contents of fileName
func (p *Parser) ParseSource(fileName, source string) (*host.ParsedFile, error) {
	ast, err := p.grammar.ParseString(fileName, source)
	if err != nil {
		return nil, syntaxError(fileName, err)
	}

	sf := &host.SourceFile{FileName: fileName, Text: source}
	var quotes quoteCounter

	for _, it := range ast.Items {
		if it.Import != nil {
			quotes.add(it.Import.Module)
			imports, err := convertImport(it.Import)
			if err != nil {
				return nil, err
			}
			sf.Imports = append(sf.Imports, imports...)
		}
	}
	sf.SingleQuote = quotes.single()

	file := &host.ParsedFile{SourceFile: sf}
	for _, it := range ast.Items {
		switch {
		case it.Token == "@":
			err := errors.NewSyntaxError("unsupported decorator syntax", location(fileName, it.Pos))
			err.WithSuggestion("Decorator arguments must be literals, identifiers, property accesses or calls of those")
			return nil, err
		case it.Class != nil && len(it.Class.Decorators) > 0:
			class, err := p.convertClass(sf, it.Class)
			if err != nil {
				return nil, err
			}
			file.DecoratedClasses = append(file.DecoratedClasses, class)
		}
	}
	return file, nil
}

func syntaxError(fileName string, err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return errors.NewSyntaxError(perr.Message(), location(fileName, perr.Position()))
	}
	return errors.WrapParseError(fileName, err)
}

func location(fileName string, pos lexer.Position) errors.SourceLocation {
	return errors.SourceLocation{File: fileName, Line: pos.Line, Column: pos.Column}
}

func position(pos lexer.Position) host.Position {
	return host.Position{Line: pos.Line, Column: pos.Column}
}

func convertImport(decl *importDecl) ([]host.Import, error) {
	module, err := unquote(decl.Module)
	if err != nil {
		return nil, errors.NewSyntaxError(err.Error(), location(decl.Pos.Filename, decl.Pos))
	}
	if decl.Clause == nil {
		return nil, nil
	}

	var imports []host.Import
	if decl.Clause.Default != "" {
		imports = append(imports, host.Import{Name: "default", Local: decl.Clause.Default, Module: module})
	}
	if decl.Clause.Namespace != "" {
		imports = append(imports, host.Import{Local: decl.Clause.Namespace, Module: module, Namespace: true})
	}
	for _, spec := range decl.Clause.Named {
		local := spec.Name
		if spec.Alias != "" {
			local = spec.Alias
		}
		imports = append(imports, host.Import{Name: spec.Name, Local: local, Module: module})
	}
	return imports, nil
}

func (p *Parser) convertClass(sf *host.SourceFile, c *classDecl) (*host.DecoratedClass, error) {
	decl := &host.ClassDeclaration{
		Name:       c.Name,
		Exported:   c.Export,
		Extends:    strings.Join(c.Extends, "."),
		Pos:        position(c.Pos),
		SourceFile: sf,
	}

	decorators, err := p.convertDecorators(sf, c.Decorators)
	if err != nil {
		return nil, err
	}

	for _, m := range c.Members {
		if m.Constructor == nil {
			continue
		}
		if decl.HasCtor {
			return nil, errors.NewSyntaxError(fmt.Sprintf("class '%s' has multiple constructor implementations", c.Name),
				location(sf.FileName, m.Constructor.Pos))
		}
		decl.HasCtor = true
		params, err := p.convertParams(sf, m.Constructor.Params)
		if err != nil {
			return nil, err
		}
		decl.Constructor = params
	}

	name := c.Name
	if name == "" && c.Default {
		name = "default"
	}
	return &host.DecoratedClass{Name: name, Declaration: decl, Decorators: decorators}, nil
}

func (p *Parser) convertDecorators(sf *host.SourceFile, decorators []*decorator) ([]host.Decorator, error) {
	result := make([]host.Decorator, 0, len(decorators))
	for _, d := range decorators {
		name := strings.Join(d.Name, ".")
		converted := host.Decorator{
			Name:       name,
			Identifier: d.Name[0],
			Import:     p.host.ResolveImport(sf, name),
			Pos:        position(d.Pos),
		}
		if d.Call != nil {
			args, err := convertValues(d.Call.Args)
			if err != nil {
				return nil, err
			}
			converted.Args = args
		}
		result = append(result, converted)
	}
	return result, nil
}

func (p *Parser) convertParams(sf *host.SourceFile, params []*param) ([]host.Parameter, error) {
	result := make([]host.Parameter, 0, len(params))
	for _, prm := range params {
		decorators, err := p.convertDecorators(sf, prm.Decorators)
		if err != nil {
			return nil, err
		}
		converted := host.Parameter{Name: prm.Name, Decorators: decorators, Pos: position(prm.Pos)}
		if prm.Type != nil && isTypeReference(prm.Type) {
			converted.Type = referenceValue(prm.Type.Parts)
		}
		result = append(result, converted)
	}
	return result, nil
}

// isTypeReference reports whether a type annotation names a class or token.
// Primitive keywords, unions and literal types carry no injection token.
func isTypeReference(t *typeRef) bool {
	if len(t.Parts) == 1 {
		switch t.Parts[0] {
		case "string", "number", "boolean", "any", "unknown", "object", "void", "never", "symbol", "bigint":
			return false
		}
	}
	for _, tok := range t.Rest {
		if tok == "|" || tok == "&" {
			return false
		}
	}
	return true
}

func referenceValue(parts []string) host.Value {
	var v host.Value = &host.Identifier{Name: parts[0]}
	for _, part := range parts[1:] {
		v = &host.PropertyAccess{Receiver: v, Name: part}
	}
	return v
}

func convertValues(values []*value) ([]host.Value, error) {
	result := make([]host.Value, len(values))
	for i, v := range values {
		converted, err := convertValue(v)
		if err != nil {
			return nil, err
		}
		result[i] = converted
	}
	return result, nil
}

func convertValue(v *value) (host.Value, error) {
	switch {
	case v.String != nil:
		s, err := unquote(*v.String)
		if err != nil {
			return nil, errors.NewSyntaxError(err.Error(), location(v.Pos.Filename, v.Pos))
		}
		return &host.StringLiteral{Value: s}, nil
	case v.Template != nil:
		raw := *v.Template
		return &host.StringLiteral{Value: raw[1 : len(raw)-1], Template: true}, nil
	case v.Number != nil:
		return &host.NumberLiteral{Raw: *v.Number}, nil
	case v.Bool != nil:
		return &host.BoolLiteral{Value: *v.Bool == "true"}, nil
	case v.Null != nil:
		return &host.NullLiteral{Undefined: *v.Null == "undefined"}, nil
	case v.Array != nil:
		elements, err := convertValues(v.Array.Elements)
		if err != nil {
			return nil, err
		}
		return &host.ArrayLiteral{Elements: elements}, nil
	case v.Object != nil:
		return convertObject(v.Object)
	case v.Ref != nil:
		var result = referenceValue(v.Ref.Parts)
		for _, call := range v.Ref.Calls {
			args, err := convertValues(call.Args)
			if err != nil {
				return nil, err
			}
			result = &host.CallExpression{Callee: result, Args: args}
		}
		return result, nil
	default:
		return nil, errors.NewSyntaxError("empty value", location(v.Pos.Filename, v.Pos))
	}
}

func convertObject(o *objectLit) (host.Value, error) {
	obj := &host.ObjectLiteral{}
	for _, prop := range o.Properties {
		key := prop.Key
		if strings.HasPrefix(key, `"`) || strings.HasPrefix(key, `'`) {
			unquoted, err := unquote(key)
			if err != nil {
				return nil, err
			}
			key = unquoted
		}

		var val host.Value = &host.Identifier{Name: key}
		if prop.Value != nil {
			converted, err := convertValue(prop.Value)
			if err != nil {
				return nil, err
			}
			val = converted
		}
		obj.Properties = append(obj.Properties, host.Property{Key: key, Value: val})
	}
	return obj, nil
}

// unquote decodes a single or double quoted JavaScript string literal
func unquote(lit string) (string, error) {
	if len(lit) < 2 || (lit[0] != '"' && lit[0] != '\'') || lit[len(lit)-1] != lit[0] {
		return "", fmt.Errorf("malformed string literal %s", lit)
	}
	body := lit[1 : len(lit)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i == len(body)-1 {
			sb.WriteByte(c)
			continue
		}
		i++
		switch esc := body[i]; esc {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case 'x':
			r, ok := hexRune(body, i+1, 2)
			if !ok {
				return "", fmt.Errorf("invalid escape in string literal %s", lit)
			}
			sb.WriteRune(r)
			i += 2
		case 'u':
			if i+1 < len(body) && body[i+1] == '{' {
				end := strings.IndexByte(body[i+2:], '}')
				if end <= 0 {
					return "", fmt.Errorf("invalid escape in string literal %s", lit)
				}
				r, ok := hexRune(body, i+2, end)
				if !ok || r > unicode.MaxRune {
					return "", fmt.Errorf("invalid escape in string literal %s", lit)
				}
				sb.WriteRune(r)
				i += end + 2
				continue
			}
			r, ok := hexRune(body, i+1, 4)
			if !ok {
				return "", fmt.Errorf("invalid escape in string literal %s", lit)
			}
			i += 4
			// a high surrogate followed by \uXXXX may form one code point
			if utf16.IsSurrogate(r) && strings.HasPrefix(body[i+1:], "\\u") {
				if low, ok := hexRune(body, i+3, 4); ok {
					if combined := utf16.DecodeRune(r, low); combined != unicode.ReplacementChar {
						sb.WriteRune(combined)
						i += 6
						continue
					}
				}
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte(esc)
		}
	}
	return sb.String(), nil
}

// hexRune reads width hex digits of s starting at start
func hexRune(s string, start, width int) (rune, bool) {
	if start+width > len(s) {
		return 0, false
	}
	code, err := strconv.ParseUint(s[start:start+width], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(code), true
}

// quoteCounter tracks which quote character module specifiers use
type quoteCounter struct {
	singles, doubles int
}

func (q *quoteCounter) add(lit string) {
	if strings.HasPrefix(lit, "'") {
		q.singles++
	} else {
		q.doubles++
	}
}

func (q *quoteCounter) single() bool {
	return q.singles > q.doubles
}
