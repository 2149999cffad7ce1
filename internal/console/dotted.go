package console

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// callPattern matches "<Class>.<method>(<args>)".
var callPattern = regexp.MustCompile(`^([^.\s(]*)\.(\w+)\((.*)\)$`)

// methodCall is a parsed "<Class>.<method>(<args>)" line.
type methodCall struct {
	class  string
	method string
	args   string
}

func parseCall(line string) (methodCall, bool) {
	m := callPattern.FindStringSubmatch(line)
	if m == nil {
		return methodCall{}, false
	}
	return methodCall{class: m[1], method: m[2], args: strings.TrimSpace(m[3])}, true
}

// dispatchCall translates a method call into the equivalent command. It
// returns false when the call cannot be translated, in which case the line
// is reported as unknown syntax.
func (c *Console) dispatchCall(call methodCall) bool {
	switch call.method {
	case "all", "count", "show", "destroy":
		args, err := splitWords(call.args, isArgSep)
		if err != nil {
			return false
		}
		c.commands[call.method](c, append([]string{call.class}, args...))
		return true
	case "update":
		if open, ok := mappingStart(call.args); ok {
			ids, err := splitWords(call.args[:open], isArgSep)
			if err != nil {
				return false
			}
			c.updateFromMapping(append([]string{call.class}, ids...), call.args[open:])
			return true
		}
		args, err := splitWords(call.args, isArgSep)
		if err != nil {
			return false
		}
		c.doUpdate(append([]string{call.class}, args...))
		return true
	}
	return false
}

// updateFromMapping handles `<Class>.update(<id>, {name: value, ...})`.
// Class and id are checked before the mapping is parsed. Pairs are applied
// in order; the first rejected pair stops the update, and pairs applied
// before it are saved.
func (c *Console) updateFromMapping(args []string, mapping string) {
	ent, ok := c.lookup(args)
	if !ok {
		return
	}

	pairs, ok := c.parseMapping(mapping)
	if !ok {
		return
	}
	if len(pairs) == 0 {
		c.println(msgAttrMissing)
		return
	}

	applied := 0
	for _, p := range pairs {
		if !c.setAttr(ent, p.name, p.value) {
			break
		}
		applied++
	}
	if applied == 0 {
		return
	}
	if err := c.store.SaveEntity(ent); err != nil {
		c.saveFailed(err)
	}
}

// parseMapping parses a flow mapping such as {'name': "Loft", 'rooms': 3}.
func (c *Console) parseMapping(text string) ([]attrPair, bool) {
	end := strings.LastIndex(text, "}")
	if end < 0 || strings.TrimSpace(text[end+1:]) != "" {
		c.println(msgInvalidDict)
		return nil, false
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text[:end+1]), &doc); err != nil {
		c.logger.Debug("invalid update mapping", "error", err)
		c.println(msgInvalidDict)
		return nil, false
	}
	if len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		c.println(msgInvalidDict)
		return nil, false
	}
	pairs, err := mappingPairs(doc.Content[0], c.coercion)
	if err != nil {
		c.logger.Debug("invalid update mapping", "error", err)
		c.println(msgInvalidDict)
		return nil, false
	}
	return pairs, true
}
