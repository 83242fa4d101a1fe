package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"skinanalyze/internal/auth"
	"skinanalyze/internal/forms"
	"skinanalyze/internal/models"
	"skinanalyze/internal/route"
	"skinanalyze/internal/view"
)

var errNoSession = errors.New("no stored session")

const msgSignInFirst = "You are not signed in. Run 'skinanalyze login' first."

// roleFlag returns the zero Role for unknown input so form validation
// reports it against the role field.
func roleFlag(s string) models.Role {
	r, err := models.ParseRole(s)
	if err != nil {
		return 0
	}
	return r
}

func (e *env) readLine() string {
	sc := bufio.NewScanner(e.stdin)
	if sc.Scan() {
		return strings.TrimRight(sc.Text(), "\r\n")
	}
	return ""
}

func loginCommand(ctx context.Context, e *env, args []string) error {
	form := forms.NewLoginForm()
	fs := e.cmd.NewFlagSet(e.stderr)
	fs.StringVar(&form.Email, "email", "", "account email")
	fs.StringVar(&form.Password, "password", "", "password, read from stdin when omitted")
	role := fs.String("role", "patient", "patient or doctor")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	form.Role = roleFlag(*role)
	if form.Password == "" {
		form.Password = e.readLine()
	}

	a, err := e.load()
	if err != nil {
		return err
	}
	landing, err := a.auth.Login(ctx, form)
	if err != nil {
		var fe forms.FieldErrors
		if errors.As(err, &fe) {
			return err
		}
		return fail(auth.MsgLoginFailed, err)
	}
	e.printf("Login Successful\nWelcome back to Skin Analyze!\n\n")
	showLanding(ctx, e, a, landing)
	return nil
}

func registerCommand(ctx context.Context, e *env, args []string) error {
	form := forms.NewRegisterForm()
	fs := e.cmd.NewFlagSet(e.stderr)
	fs.StringVar(&form.Name, "name", "", "full name")
	fs.StringVar(&form.Email, "email", "", "account email")
	fs.StringVar(&form.Password, "password", "", "password")
	fs.StringVar(&form.ConfirmPassword, "confirm", "", "password again")
	role := fs.String("role", "patient", "patient or doctor")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	form.Role = roleFlag(*role)

	a, err := e.load()
	if err != nil {
		return err
	}
	next, err := a.auth.Register(ctx, form)
	if err != nil {
		var fe forms.FieldErrors
		if errors.As(err, &fe) {
			return err
		}
		return fail(auth.MsgRegistrationFailed, err)
	}
	e.printf("Registration Successful\nYour account has been created. You can now log in.\n")
	e.printf("[Sign in] -> %s\n", next)
	return nil
}

func logoutCommand(ctx context.Context, e *env, args []string) error {
	if err := parseFlags(e.cmd.NewFlagSet(e.stderr), args); err != nil {
		return err
	}
	a, err := e.load()
	if err != nil {
		return err
	}
	if err := a.auth.Logout(ctx); err != nil {
		return fail("Could not remove the stored session.", err)
	}
	e.printf("Signed out\n")
	return nil
}

func whoamiCommand(_ context.Context, e *env, args []string) error {
	if err := parseFlags(e.cmd.NewFlagSet(e.stderr), args); err != nil {
		return err
	}
	a, err := e.load()
	if err != nil {
		return err
	}
	sess, ok := a.auth.Current()
	if !ok {
		return fail(msgSignInFirst, errNoSession)
	}
	e.printf("Signed in as %s\nHome: %s\n", sess.Role, route.Landing(sess.Role))
	return nil
}

// showLanding renders the post-login page. The session is already stored,
// so a page that fails to load is reported without failing the login.
func showLanding(ctx context.Context, e *env, a *app, path string) {
	role, _ := a.store.Role()
	if !route.Allowed(path, role) {
		return
	}
	err := showPath(ctx, e, a, path)
	if err == nil {
		return
	}
	e.logError(e.cmd.Name, err)
	var shown *view.ShownError
	if !errors.As(err, &shown) {
		fmt.Fprintln(e.stderr, view.Message(err))
	}
}

// showPath renders the view behind an application path. Role-gated pages
// are not refused here; the backend decides what the session may read.
func showPath(ctx context.Context, e *env, a *app, path string) error {
	return view.Show(ctx, view.ForRoute(route.Resolve(path), e.viewDeps(a)), e.stdout)
}
