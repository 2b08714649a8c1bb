package main

import (
	"fmt"
	"sort"
	"strings"
)

// commands maps a subcommand name to its handler. Each handler parses its
// own flags from the remaining arguments.
type commands map[string]func(args []string) error

func (c commands) execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("command expected, one of %v", c.names())
	}
	var handler, found = c[args[0]]
	if !found {
		return fmt.Errorf("command not found %v, expected one of %v", args[0], c.names())
	}
	return handler(args[1:])
}

func (c commands) names() string {
	var names []string
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
