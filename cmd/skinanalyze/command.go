package main

import (
	"context"
	"flag"
	"fmt"
	"io"
)

// Command is one subcommand of the CLI.
type Command struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Run         func(ctx context.Context, e *env, args []string) error
}

// NewFlagSet returns a flag set that reports errors instead of exiting.
func (c *Command) NewFlagSet(w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(c.Name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() {
		c.PrintUsage(w)
		fmt.Fprintln(w, "\nFLAGS:")
		fs.PrintDefaults()
	}
	return fs
}

func (c *Command) PrintUsage(w io.Writer) {
	fmt.Fprintf(w, "%s\n\n", c.Description)
	fmt.Fprintf(w, "USAGE:\n    %s\n", c.Usage)
	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "\nEXAMPLES:\n")
		for _, example := range c.Examples {
			fmt.Fprintf(w, "    %s\n", example)
		}
	}
}

type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// CommandRegistry keeps commands in registration order for help output.
type CommandRegistry struct {
	commands map[string]*Command
	order    []string
	version  VersionInfo
}

func NewCommandRegistry(v VersionInfo) *CommandRegistry {
	return &CommandRegistry{commands: make(map[string]*Command), version: v}
}

func (r *CommandRegistry) Register(cmd *Command) {
	if _, dup := r.commands[cmd.Name]; !dup {
		r.order = append(r.order, cmd.Name)
	}
	r.commands[cmd.Name] = cmd
}

func (r *CommandRegistry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

func (r *CommandRegistry) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "skinanalyze - client for the Skin Analyze service")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "    skinanalyze [--config file] [--server url] <command> [arguments]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "COMMANDS:")
	for _, name := range r.order {
		fmt.Fprintf(w, "    %-15s %s\n", name, r.commands[name].Description)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'skinanalyze <command> --help' for more information on a command.")
}
