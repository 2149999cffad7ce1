package console

import (
	"fmt"
	"sort"
	"strings"
)

// helpTopics holds the usage text printed by "help <command>".
var helpTopics = map[string]string{
	"EOF":     "Exit the console at end of input (Ctrl+D).",
	"quit":    "Quit command to exit the program.",
	"help":    "List available commands with \"help\" or detailed help with \"help <command>\".",
	"create":  "Create a new instance of a class, save it and print its id.\nUsage: create <class>",
	"show":    "Print the string representation of an instance.\nUsage: show <class> <id>\n       <class>.show(<id>)",
	"destroy": "Delete an instance and save the change.\nUsage: destroy <class> <id>\n       <class>.destroy(<id>)",
	"all":     "Print every instance, or every instance of one class.\nUsage: all [<class>]\n       <class>.all()",
	"count":   "Print the number of instances of a class.\nUsage: count <class>\n       <class>.count()",
	"update": "Set an attribute on an instance and save it.\n" +
		"Usage: update <class> <id> <attribute> \"<value>\"\n" +
		"       <class>.update(<id>, <attribute>, <value>)\n" +
		"       <class>.update(<id>, {<attribute>: <value>, ...})",
}

func (c *Console) doHelp(args []string) {
	if len(args) > 0 {
		text, ok := helpTopics[args[0]]
		if !ok {
			c.println(msgNoHelp + args[0])
			return
		}
		c.println(text)
		return
	}

	names := make([]string, 0, len(helpTopics))
	for name := range helpTopics {
		names = append(names, name)
	}
	sort.Strings(names)

	const header = "Documented commands (type help <topic>):"
	fmt.Fprintf(c.out, "\n%s\n%s\n%s\n\n", header, strings.Repeat("=", len(header)), strings.Join(names, "  "))
}
