// Command skinanalyze signs in to the Skin Analyze backend, uploads skin
// images and renders reports and dashboards in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skinanalyze/internal/forms"
	"skinanalyze/internal/view"
)

// Set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	registry := NewCommandRegistry(VersionInfo{Version: version, Commit: commit, Date: date})
	registerCommands(registry)

	global := flag.NewFlagSet("skinanalyze", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { registry.PrintHelp(stderr) }
	configPath := global.String("config", "", "config file (default ~/.skinanalyze/config.yaml)")
	server := global.String("server", "", "backend origin, overrides the config file")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	rest := global.Args()
	if len(rest) == 0 {
		registry.PrintHelp(stderr)
		return exitUsage
	}
	if rest[0] == "help" {
		registry.PrintHelp(stdout)
		return exitOK
	}
	cmd, ok := registry.Lookup(rest[0])
	if !ok {
		fmt.Fprintf(stderr, "unknown command: %s\n\n", rest[0])
		registry.PrintHelp(stderr)
		return exitUsage
	}

	e := &env{
		cmd:        cmd,
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		configPath: *configPath,
		server:     *server,
		version:    registry.version,
		now:        time.Now,
	}
	defer e.close()
	return e.exitCode(cmd, cmd.Run(ctx, e, rest[1:]))
}

// exitCode prints err for the user and maps it to a process exit status.
// Details stay in the log.
func (e *env) exitCode(cmd *Command, err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if errors.Is(err, errBadFlags) {
		return exitUsage
	}
	e.logError(cmd.Name, err)

	var (
		usage  *usageError
		fields forms.FieldErrors
		shown  *view.ShownError
		failed *failure
	)
	switch {
	case errors.As(err, &usage):
		fmt.Fprintf(e.stderr, "%s\n\n", usage.msg)
		cmd.PrintUsage(e.stderr)
		return exitUsage
	case errors.As(err, &fields):
		for _, name := range fields.Fields() {
			fmt.Fprintf(e.stderr, "%s: %s\n", name, fields[name])
		}
		return exitUsage
	case errors.As(err, &shown):
		return exitFailure
	case errors.As(err, &failed):
		fmt.Fprintln(e.stderr, failed.msg)
		return exitFailure
	default:
		fmt.Fprintln(e.stderr, view.Message(err))
		return exitFailure
	}
}

// errBadFlags means the flag package already reported the problem.
var errBadFlags = errors.New("invalid flags")

func parseFlags(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, flag.ErrHelp):
		return err
	default:
		return errBadFlags
	}
}

// usageError is a malformed invocation.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// failure pairs a user-facing message with the underlying error.
type failure struct {
	msg string
	err error
}

func (f *failure) Error() string { return f.msg + ": " + f.err.Error() }

func (f *failure) Unwrap() error { return f.err }

func fail(msg string, err error) error {
	return &failure{msg: msg, err: err}
}
