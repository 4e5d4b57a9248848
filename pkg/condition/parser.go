// Package condition parses and evaluates the edge-condition micro-language
// used to gate traversal between workflow nodes.
//
// The grammar, in precedence order:
//
//	{{path}}          truthiness of a dot-path into the node output
//	left == right     loose equality
//	left != right     loose inequality
//	anything else     always satisfied
//
// Operands are quoted string literals, numbers, true/false, or dot-paths
// resolved against the node output.
package condition

import (
	"strconv"
	"strings"
)

// Expr is a parsed condition. The concrete types form a small tagged union so
// the "unknown condition is always satisfied" fallback is an explicit case
// rather than a string-pattern miss.
type Expr interface {
	eval(output any) bool
}

// TemplateRef is a {{path}} truthiness check: satisfied iff the path
// resolves to a non-nil value.
type TemplateRef struct {
	Path string
}

// Equals compares two operands with loose equality.
type Equals struct {
	Left  Operand
	Right Operand
}

// NotEquals is the negation of Equals.
type NotEquals struct {
	Left  Operand
	Right Operand
}

// Always is the fallback for empty or unrecognized conditions.
type Always struct{}

// Operand is one side of a comparison, resolved against the node output.
type Operand interface {
	resolve(output any) any
}

// Literal is a string, number or boolean operand.
type Literal struct {
	Value any
}

func (l Literal) resolve(any) any {
	return l.Value
}

// PathRef resolves a dot-path into the node output; an unresolvable path
// yields nil.
type PathRef struct {
	Path string
}

func (p PathRef) resolve(output any) any {
	return Resolve(p.Path, output)
}

// Parse translates a condition string into its Expr form. Parse never fails:
// unrecognized input becomes Always.
func Parse(raw string) Expr {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "{{") && strings.HasSuffix(s, "}}") {
		path := strings.TrimSpace(s[2 : len(s)-2])

		return TemplateRef{Path: path}
	}

	if left, right, found := strings.Cut(s, "=="); found {
		return Equals{Left: parseOperand(left), Right: parseOperand(right)}
	}

	if left, right, found := strings.Cut(s, "!="); found {
		return NotEquals{Left: parseOperand(left), Right: parseOperand(right)}
	}

	return Always{}
}

func parseOperand(token string) Operand {
	t := strings.TrimSpace(token)

	if len(t) >= 2 {
		if (t[0] == '"' && t[len(t)-1] == '"') || (t[0] == '\'' && t[len(t)-1] == '\'') {
			return Literal{Value: t[1 : len(t)-1]}
		}
	}

	if n, err := strconv.ParseFloat(t, 64); err == nil {
		return Literal{Value: n}
	}

	switch t {
	case "true":
		return Literal{Value: true}
	case "false":
		return Literal{Value: false}
	}

	return PathRef{Path: t}
}

// Resolve walks a dot-notation path through nested map values. It
// short-circuits to nil as soon as a segment is missing or the current value
// is not indexable. Numeric segments are plain map keys, there is no array
// index syntax.
func Resolve(path string, value any) any {
	if path == "" {
		return value
	}

	current := value

	for _, segment := range strings.Split(path, ".") {
		switch v := current.(type) {
		case map[string]any:
			next, ok := v[segment]
			if !ok {
				return nil
			}

			current = next
		case map[string]string:
			next, ok := v[segment]
			if !ok {
				return nil
			}

			current = next
		default:
			return nil
		}
	}

	return current
}
