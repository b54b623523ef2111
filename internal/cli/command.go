// Package cli implements the command-line interface for issues.
package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command is one issues subcommand. Its name is the first word of Usage.
type Command struct {
	Flags *flag.FlagSet

	// Usage follows "issues" in help, e.g. "block <id> <blocker-id>".
	Usage string

	// Aliases are alternative names accepted on the command line and in the shell.
	Aliases []string

	// Short is the one-line summary in the command list.
	Short string

	// Long is shown by "issues <cmd> --help". Short is used when empty.
	Long string

	// Examples are printed under "Examples:" in command help, one per line.
	Examples []string

	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// Matches reports whether name selects this command.
func (c *Command) Matches(name string) bool {
	return name == c.Name() || slices.Contains(c.Aliases, name)
}

// HelpLine is the command's row in the command list.
func (c *Command) HelpLine() string {
	short := c.Short
	if len(c.Aliases) > 0 {
		short += " (alias: " + strings.Join(c.Aliases, ", ") + ")"
	}

	return fmt.Sprintf("  %-30s %s", c.Usage, short)
}

// PrintHelp writes usage, description, flags and examples to o.
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: issues", c.Usage)
	o.Println()

	if c.Long != "" {
		o.Println(c.Long)
	} else {
		o.Println(c.Short)
	}

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")
		o.Printf("%s", c.Flags.FlagUsages())
	}

	if len(c.Examples) > 0 {
		o.Println()
		o.Println("Examples:")

		for _, example := range c.Examples {
			o.Println("  issues", example)
		}
	}
}

// Run parses args, runs Exec and returns the exit code. Errors and usage
// problems go to stderr; warnings collected on o decide the final code.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{})

	parseErr := c.Flags.Parse(args)

	switch {
	case errors.Is(parseErr, flag.ErrHelp):
		c.PrintHelp(o)

		return 0
	case parseErr != nil:
		o.ErrPrintln("error:", parseErr)
		o.ErrPrintln()
		c.PrintHelp(o.Stderr())

		return 1
	}

	execErr := c.Exec(ctx, o, c.Flags.Args())
	if execErr != nil {
		o.ErrPrintln("error:", execErr)

		return 1
	}

	return o.Finish()
}
