package host

import (
	"strconv"
	"strings"
)

// Value is a literal expression as it appears in decorator arguments and type positions
type Value interface {
	// Text renders the value back into source form
	Text() string
	value()
}

// StringLiteral is a quoted or template string
type StringLiteral struct {
	Value    string
	Template bool
}

// NumberLiteral keeps the raw numeric token
type NumberLiteral struct {
	Raw string
}

// BoolLiteral is true or false
type BoolLiteral struct {
	Value bool
}

// NullLiteral is null or undefined
type NullLiteral struct {
	Undefined bool
}

// Identifier is a bare name reference
type Identifier struct {
	Name string
}

// PropertyAccess is receiver.name
type PropertyAccess struct {
	Receiver Value
	Name     string
}

// CallExpression is callee(args...)
type CallExpression struct {
	Callee Value
	Args   []Value
}

// ArrayLiteral is [a, b, c]
type ArrayLiteral struct {
	Elements []Value
}

// Property is one key: value entry of an object literal
type Property struct {
	Key   string
	Value Value
}

// ObjectLiteral is { key: value, ... }
type ObjectLiteral struct {
	Properties []Property
}

func (*StringLiteral) value()  {}
func (*NumberLiteral) value()  {}
func (*BoolLiteral) value()    {}
func (*NullLiteral) value()    {}
func (*Identifier) value()     {}
func (*PropertyAccess) value() {}
func (*CallExpression) value() {}
func (*ArrayLiteral) value()   {}
func (*ObjectLiteral) value()  {}

func (s *StringLiteral) Text() string {
	if s.Template {
		return "`" + s.Value + "`"
	}
	return strconv.Quote(s.Value)
}

func (n *NumberLiteral) Text() string { return n.Raw }

func (b *BoolLiteral) Text() string { return strconv.FormatBool(b.Value) }

func (n *NullLiteral) Text() string {
	if n.Undefined {
		return "undefined"
	}
	return "null"
}

func (i *Identifier) Text() string { return i.Name }

func (p *PropertyAccess) Text() string { return p.Receiver.Text() + "." + p.Name }

func (c *CallExpression) Text() string {
	args := make([]string, len(c.Args))
	for i, arg := range c.Args {
		args[i] = arg.Text()
	}
	return c.Callee.Text() + "(" + strings.Join(args, ", ") + ")"
}

func (a *ArrayLiteral) Text() string {
	elements := make([]string, len(a.Elements))
	for i, el := range a.Elements {
		elements[i] = el.Text()
	}
	return "[" + strings.Join(elements, ", ") + "]"
}

func (o *ObjectLiteral) Text() string {
	if len(o.Properties) == 0 {
		return "{}"
	}
	props := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		props[i] = p.Key + ": " + p.Value.Text()
	}
	return "{ " + strings.Join(props, ", ") + " }"
}

// Get returns the value stored under key
func (o *ObjectLiteral) Get(key string) (Value, bool) {
	for _, p := range o.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Keys returns the property names in source order
func (o *ObjectLiteral) Keys() []string {
	keys := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		keys[i] = p.Key
	}
	return keys
}

// StringValue extracts the string of a string literal
func StringValue(v Value) (string, bool) {
	if s, ok := v.(*StringLiteral); ok {
		return s.Value, true
	}
	return "", false
}

// StringArray extracts a list of strings from an array literal of string literals
func StringArray(v Value) ([]string, bool) {
	arr, ok := v.(*ArrayLiteral)
	if !ok {
		return nil, false
	}
	result := make([]string, 0, len(arr.Elements))
	for _, el := range arr.Elements {
		s, ok := StringValue(el)
		if !ok {
			return nil, false
		}
		result = append(result, s)
	}
	return result, true
}

// ReferenceName returns the dotted name of an identifier or property access chain
func ReferenceName(v Value) (string, bool) {
	switch node := v.(type) {
	case *Identifier:
		return node.Name, true
	case *PropertyAccess:
		receiver, ok := ReferenceName(node.Receiver)
		if !ok {
			return "", false
		}
		return receiver + "." + node.Name, true
	default:
		return "", false
	}
}
