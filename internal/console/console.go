// Package console implements the hbnb command interpreter: a line-oriented
// read-eval-print loop that maps commands onto a types.Storage.
//
// Every input error is reported as a fixed diagnostic on the output stream
// and the loop continues; only quit and EOF stop it.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// DefaultPrompt is printed before each line is read.
const DefaultPrompt = "(hbnb) "

// Diagnostics printed for rejected commands.
const (
	msgClassMissing  = "** class name missing **"
	msgClassUnknown  = "** class doesn't exist **"
	msgIDMissing     = "** instance id missing **"
	msgNotFound      = "** no instance found **"
	msgAttrMissing   = "** attribute name or value missing **"
	msgInvalidDict   = "** invalid dictionary format **"
	msgReadOnly      = "** attribute can't be updated **"
	msgInvalidValue  = "** invalid value for attribute **"
	msgStorageError  = "** storage error **"
	msgUnknownSyntax = "*** Unknown syntax: "
	msgNoHelp        = "*** No help on "
)

// Scanner buffer sizes. Lines longer than maxLineBytes end the loop with
// an error.
const (
	initialLineBuffer = 64 * 1024
	maxLineBytes      = 1 << 20
)

// handler runs one command. args are the tokens after the command word.
type handler func(c *Console, args []string)

// Console is the interpreter state. It holds no entities of its own; every
// lookup goes through the store.
type Console struct {
	store    types.Storage
	out      io.Writer
	prompt   string
	coercion Coercion
	logger   *slog.Logger
	commands map[string]handler
}

// Option configures a Console.
type Option func(*Console)

// WithPrompt replaces DefaultPrompt.
func WithPrompt(prompt string) Option {
	return func(c *Console) { c.prompt = prompt }
}

// WithCoercion sets how update values are interpreted.
func WithCoercion(policy Coercion) Option {
	return func(c *Console) { c.coercion = policy }
}

// WithLogger sets the logger used for storage failures and command tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a Console that operates on store and writes to out.
func New(store types.Storage, out io.Writer, opts ...Option) *Console {
	c := &Console{
		store:    store,
		out:      out,
		prompt:   DefaultPrompt,
		coercion: CoerceLiteral,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	c.commands = map[string]handler{
		"create":  (*Console).doCreate,
		"show":    (*Console).doShow,
		"destroy": (*Console).doDestroy,
		"all":     (*Console).doAll,
		"count":   (*Console).doCount,
		"update":  (*Console).doUpdate,
		"help":    (*Console).doHelp,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run reads commands from in until quit or end of input. It returns only
// read errors.
func (c *Console) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineBytes)
	for {
		fmt.Fprint(c.out, c.prompt)
		if !scanner.Scan() {
			break
		}
		if c.Execute(scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// Execute runs a single input line and reports whether the loop should stop.
func (c *Console) Execute(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	word, rest := line, ""
	if i := strings.IndexFunc(line, isSpace); i >= 0 {
		word, rest = line[:i], line[i:]
	}
	switch word {
	case "quit", "EOF":
		return true
	case "?":
		word = "help"
	}

	if h, ok := c.commands[word]; ok {
		args, err := splitWords(rest, isSpace)
		if err != nil {
			c.println(msgUnknownSyntax + line)
			return false
		}
		c.logger.Debug("command", "name", word, "args", len(args))
		h(c, args)
		return false
	}

	if call, ok := parseCall(line); ok {
		c.logger.Debug("method call", "class", call.class, "method", call.method)
		if c.dispatchCall(call) {
			return false
		}
	}
	c.println(msgUnknownSyntax + line)
	return false
}

func (c *Console) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// checkClass validates the class argument, printing the diagnostic for the
// first failure.
func (c *Console) checkClass(args []string) (string, bool) {
	if len(args) == 0 || args[0] == "" {
		c.println(msgClassMissing)
		return "", false
	}
	if !types.IsClass(args[0]) {
		c.println(msgClassUnknown)
		return "", false
	}
	return args[0], true
}

// lookup validates class and id arguments and fetches the entity.
func (c *Console) lookup(args []string) (types.Entity, bool) {
	class, ok := c.checkClass(args)
	if !ok {
		return nil, false
	}
	if len(args) < 2 {
		c.println(msgIDMissing)
		return nil, false
	}
	ent, err := c.store.Get(class, args[1])
	if err != nil {
		c.println(msgNotFound)
		return nil, false
	}
	return ent, true
}

// storageFailed reports a persistence error.
func (c *Console) storageFailed(op string, err error) {
	c.logger.Error("storage operation failed", "op", op, "error", err)
	c.println(msgStorageError)
}

// saveFailed reports a failed save and reloads the registry, dropping the
// unsaved change so memory matches the backing store again.
func (c *Console) saveFailed(err error) {
	c.storageFailed("save", err)
	if err := c.store.Reload(); err != nil {
		c.logger.Error("reload after failed save", "error", err)
	}
}

func (c *Console) doCreate(args []string) {
	class, ok := c.checkClass(args)
	if !ok {
		return
	}
	ent, err := c.store.Create(class)
	if err != nil {
		c.storageFailed("create", err)
		return
	}
	if err := c.store.Save(); err != nil {
		c.saveFailed(err)
		return
	}
	c.println(ent.Base().ID)
}

func (c *Console) doShow(args []string) {
	ent, ok := c.lookup(args)
	if !ok {
		return
	}
	c.println(ent.Describe())
}

func (c *Console) doDestroy(args []string) {
	ent, ok := c.lookup(args)
	if !ok {
		return
	}
	if err := c.store.Delete(ent.ClassName(), ent.Base().ID); err != nil {
		c.storageFailed("delete", err)
		return
	}
	if err := c.store.Save(); err != nil {
		c.saveFailed(err)
	}
}

func (c *Console) doAll(args []string) {
	class := ""
	if len(args) > 0 && args[0] != "" {
		if !types.IsClass(args[0]) {
			c.println(msgClassUnknown)
			return
		}
		class = args[0]
	}
	for _, ent := range c.store.All() {
		if class == "" || ent.ClassName() == class {
			c.println(ent.Describe())
		}
	}
}

func (c *Console) doCount(args []string) {
	class, ok := c.checkClass(args)
	if !ok {
		return
	}
	c.println(c.store.Count(class))
}

func (c *Console) doUpdate(args []string) {
	ent, ok := c.lookup(args)
	if !ok {
		return
	}
	if len(args) < 4 || args[2] == "" {
		c.println(msgAttrMissing)
		return
	}
	if !c.setAttr(ent, args[2], c.coercion.Coerce(args[3])) {
		return
	}
	if err := c.store.SaveEntity(ent); err != nil {
		c.saveFailed(err)
	}
}

// setAttr assigns one attribute and prints the diagnostic on rejection.
func (c *Console) setAttr(ent types.Entity, name string, value any) bool {
	err := ent.SetAttr(name, value)
	switch {
	case err == nil:
		return true
	case errors.Is(err, types.ErrReadOnlyAttribute):
		c.println(msgReadOnly)
	case errors.Is(err, types.ErrTypeMismatch):
		c.println(msgInvalidValue)
	default:
		c.logger.Error("set attribute", "key", ent.Key(), "attr", name, "error", err)
		c.println(msgInvalidValue)
	}
	return false
}
