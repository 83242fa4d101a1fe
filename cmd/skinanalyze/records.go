package main

import (
	"context"
	"flag"
	"time"

	"skinanalyze/internal/models"
	"skinanalyze/internal/view"
)

const (
	dayLayout = "2006-01-02"

	msgPatientUpdateFailed = "Failed to update patient. Please try again later."
	msgProfileFailed       = "Failed to load profile. Please try again later."
	msgProfileUpdateFailed = "Failed to update profile. Please try again later."
)

func parseDay(name, v string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, v, loc)
	if err != nil {
		return time.Time{}, usagef("--%s must look like %s", name, dayLayout)
	}
	return t, nil
}

func reportsCommand(ctx context.Context, e *env, args []string) error {
	fs := e.cmd.NewFlagSet(e.stderr)
	patient := fs.String("patient", "", "only reports for this patient id")
	severity := fs.String("severity", "", "low, medium or high")
	from := fs.String("from", "", "first day, "+dayLayout)
	to := fs.String("to", "", "last day, "+dayLayout)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	filter := models.ReportFilter{PatientID: *patient}
	if *severity != "" {
		sev, err := models.ParseSeverity(*severity)
		if err != nil {
			return usagef("--severity must be low, medium or high")
		}
		filter.Severity = sev
	}
	loc := e.now().Location()
	if *from != "" {
		t, err := parseDay("from", *from, loc)
		if err != nil {
			return err
		}
		filter.From = t
	}
	if *to != "" {
		t, err := parseDay("to", *to, loc)
		if err != nil {
			return err
		}
		filter.To = t.AddDate(0, 0, 1).Add(-time.Second)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return usagef("--to is before --from")
	}

	a, err := e.load()
	if err != nil {
		return err
	}
	return view.Show(ctx, view.NewReportList(a.api, filter), e.stdout)
}

func reportCommand(ctx context.Context, e *env, args []string) error {
	fs := e.cmd.NewFlagSet(e.stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("expected one report id")
	}
	a, err := e.load()
	if err != nil {
		return err
	}
	return view.Show(ctx, view.NewReportDetail(a.api, fs.Arg(0)), e.stdout)
}

func patientsCommand(ctx context.Context, e *env, args []string) error {
	if err := parseFlags(e.cmd.NewFlagSet(e.stderr), args); err != nil {
		return err
	}
	a, err := e.load()
	if err != nil {
		return err
	}
	return view.Show(ctx, view.NewPatientList(a.api), e.stdout)
}

// setFlags lists the flags given on the command line, so partial updates
// only carry what the user asked to change.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func patientUpdateCommand(ctx context.Context, e *env, args []string) error {
	fs := e.cmd.NewFlagSet(e.stderr)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	age := fs.Int("age", 0, "age in years")
	condition := fs.String("condition", "", "current condition")
	image := fs.String("image", "", "image url")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("expected one patient id")
	}

	var upd models.PatientUpdate
	set := setFlags(fs)
	if set["name"] {
		upd.Name = name
	}
	if set["email"] {
		upd.Email = email
	}
	if set["age"] {
		upd.Age = age
	}
	if set["condition"] {
		upd.Condition = condition
	}
	if set["image"] {
		upd.ImageURL = image
	}
	if len(set) == 0 {
		return usagef("nothing to update")
	}

	a, err := e.load()
	if err != nil {
		return err
	}
	p, err := a.api.UpdatePatient(ctx, fs.Arg(0), upd)
	if err != nil {
		return fail(msgPatientUpdateFailed, err)
	}
	e.printf("Updated patient %s\n(%s) %s <%s>\n", p.ID, p.Initials(), p.Name, p.Email)
	if p.Condition != "" {
		e.printf("Condition: %s\n", p.Condition)
	}
	return nil
}

func printProfile(e *env, p models.Profile) {
	e.printf("Name:  %s\nEmail: %s\nRole:  %s\n", p.Name, p.Email, p.Role)
	if p.Age > 0 {
		e.printf("Age:   %d\n", p.Age)
	}
	if p.Phone != "" {
		e.printf("Phone: %s\n", p.Phone)
	}
	if p.ImageURL != "" {
		e.printf("Image: %s\n", p.ImageURL)
	}
}

func profileCommand(ctx context.Context, e *env, args []string) error {
	if err := parseFlags(e.cmd.NewFlagSet(e.stderr), args); err != nil {
		return err
	}
	a, err := e.load()
	if err != nil {
		return err
	}
	p, err := a.api.GetProfile(ctx)
	if err != nil {
		return fail(msgProfileFailed, err)
	}
	printProfile(e, p)
	return nil
}

func profileUpdateCommand(ctx context.Context, e *env, args []string) error {
	fs := e.cmd.NewFlagSet(e.stderr)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	age := fs.Int("age", 0, "age in years")
	phone := fs.String("phone", "", "phone number")
	image := fs.String("image", "", "avatar url")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var upd models.ProfileUpdate
	set := setFlags(fs)
	if set["name"] {
		upd.Name = name
	}
	if set["email"] {
		upd.Email = email
	}
	if set["age"] {
		upd.Age = age
	}
	if set["phone"] {
		upd.Phone = phone
	}
	if set["image"] {
		upd.ImageURL = image
	}
	if len(set) == 0 {
		return usagef("nothing to update")
	}

	a, err := e.load()
	if err != nil {
		return err
	}
	p, err := a.api.UpdateProfile(ctx, upd)
	if err != nil {
		return fail(msgProfileUpdateFailed, err)
	}
	printProfile(e, p)
	return nil
}
