package main

import (
	"context"
	"strings"

	"skinanalyze/internal/forms"
	"skinanalyze/internal/route"
	"skinanalyze/internal/view"
)

func dashboardCommand(ctx context.Context, e *env, args []string) error {
	fs := e.cmd.NewFlagSet(e.stderr)
	tab := fs.String("tab", "", "tab to open")
	day := fs.String("day", "", "calendar day for the doctor dashboard, "+dayLayout)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	a, err := e.load()
	if err != nil {
		return err
	}
	role, ok := a.store.Role()
	if !ok {
		return fail(msgSignInFirst, errNoSession)
	}

	v := view.ForRoute(route.Resolve(route.Landing(role)), e.viewDeps(a))
	if *tab != "" {
		sel, ok := v.(interface{ Select(string) error })
		if !ok {
			return usagef("this dashboard has no tabs")
		}
		if err := sel.Select(*tab); err != nil {
			ids := make([]string, 0, len(route.Tabs(role)))
			for _, t := range route.Tabs(role) {
				ids = append(ids, t.ID)
			}
			return usagef("unknown tab %q, expected one of %s", *tab, strings.Join(ids, ", "))
		}
	}
	if *day != "" {
		doc, ok := v.(*view.DoctorDashboard)
		if !ok {
			return usagef("--day only applies to the doctor dashboard")
		}
		t, err := parseDay("day", *day, e.now().Location())
		if err != nil {
			return err
		}
		doc.SelectDay(t)
	}
	return view.Show(ctx, v, e.stdout)
}

func openCommand(ctx context.Context, e *env, args []string) error {
	fs := e.cmd.NewFlagSet(e.stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("expected one path, e.g. /reports")
	}
	a, err := e.load()
	if err != nil {
		return err
	}
	if err := view.RenderNav(e.stdout, fs.Arg(0)); err != nil {
		return err
	}
	return showPath(ctx, e, a, fs.Arg(0))
}

const msgContactSent = "Message sent successfully! We'll get back to you soon."

// contactCommand validates the message locally. There is no backend
// endpoint for it.
func contactCommand(ctx context.Context, e *env, args []string) error {
	var form forms.ContactForm
	fs := e.cmd.NewFlagSet(e.stderr)
	fs.StringVar(&form.Name, "name", "", "your name")
	fs.StringVar(&form.Email, "email", "", "your email")
	fs.StringVar(&form.Subject, "subject", "", "subject")
	fs.StringVar(&form.Message, "message", "", "message")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	sub := forms.NewSubmission(&form, func(ctx context.Context) error {
		if a, err := e.load(); err == nil {
			a.logger.Info("contact message", "subject", form.Subject, "length", len(form.Message))
		}
		return ctx.Err()
	})
	if err := sub.Submit(ctx); err != nil {
		return err
	}
	e.printf("%s\n", msgContactSent)
	return nil
}

func versionCommand(_ context.Context, e *env, args []string) error {
	if err := parseFlags(e.cmd.NewFlagSet(e.stderr), args); err != nil {
		return err
	}
	e.printf("skinanalyze %s (commit %s, built %s)\n", e.version.Version, e.version.Commit, e.version.Date)
	return nil
}
