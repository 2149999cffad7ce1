package console

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Coercion selects how the text of an update value becomes an attribute
// value.
type Coercion int

const (
	// CoerceLiteral interprets integers, floats, True, False, None and
	// bracketed lists or mappings. Anything else stays text.
	CoerceLiteral Coercion = iota

	// CoerceString keeps every value as text.
	CoerceString
)

// ErrUnknownCoercion is returned by ParseCoercion for an unrecognized name.
var ErrUnknownCoercion = errors.New("unknown coercion policy")

// ParseCoercion maps a config value to a Coercion. The empty string selects
// CoerceLiteral.
func ParseCoercion(s string) (Coercion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "literal":
		return CoerceLiteral, nil
	case "string":
		return CoerceString, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCoercion, s)
}

func (c Coercion) String() string {
	switch c {
	case CoerceLiteral:
		return "literal"
	case CoerceString:
		return "string"
	}
	return fmt.Sprintf("Coercion(%d)", int(c))
}

var (
	intLiteral   = regexp.MustCompile(`^[+-]?(0|[1-9][0-9]*)$`)
	floatLiteral = regexp.MustCompile(`^[+-]?(([0-9]+\.[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?|[0-9]+[eE][+-]?[0-9]+)$`)
)

// Coerce converts the text of an update value according to the policy.
func (c Coercion) Coerce(text string) any {
	if c == CoerceString {
		return text
	}
	return literal(text)
}

// literal returns the value text denotes, or text itself when it is not a
// recognizable literal.
func literal(text string) any {
	switch text {
	case "True":
		return true
	case "False":
		return false
	case "None":
		return nil
	}
	if intLiteral.MatchString(text) {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return n
		}
		return text
	}
	if floatLiteral.MatchString(text) {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f
		}
		return text
	}
	if n := len(text); n >= 2 {
		first, last := text[0], text[n-1]
		switch {
		case (first == '\'' || first == '"') && last == first:
			return text[1 : n-1]
		case first == '[' && last == ']', first == '{' && last == '}':
			if v, err := parseFlow(text, CoerceLiteral); err == nil {
				return v
			}
		}
	}
	return text
}

// parseFlow parses a YAML flow collection and converts it to plain values.
func parseFlow(text string, policy Coercion) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, errors.New("expected a single value")
	}
	return nodeValue(doc.Content[0], policy)
}

// nodeValue converts a parsed node. Quoted scalars are always text; plain
// scalars go through the coercion policy.
func nodeValue(n *yaml.Node, policy Coercion) (any, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) != 0 {
			return n.Value, nil
		}
		if n.Tag == "!!null" && n.Value == "" {
			return nil, nil
		}
		return policy.Coerce(n.Value), nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := nodeValue(item, policy)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		pairs, err := mappingPairs(n, policy)
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, len(pairs))
		for _, p := range pairs {
			out[p.name] = p.value
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value at line %d", n.Line)
}

// attrPair is one name/value entry of an update mapping.
type attrPair struct {
	name  string
	value any
}

// mappingPairs returns the entries of a mapping node in source order.
// Keys must be scalars.
func mappingPairs(n *yaml.Node, policy Coercion) ([]attrPair, error) {
	pairs := make([]attrPair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("mapping key at line %d is not a scalar", key.Line)
		}
		v, err := nodeValue(n.Content[i+1], policy)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, attrPair{name: key.Value, value: v})
	}
	return pairs, nil
}
