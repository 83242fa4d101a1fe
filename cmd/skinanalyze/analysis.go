package main

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"skinanalyze/internal/forms"
	"skinanalyze/internal/view"
)

const (
	msgUploadFailed   = "There was an error uploading your image. Please try again."
	msgSymptomsFailed = "There was a problem submitting your symptoms. Please try again."
)

// imageType guesses from the extension, then from the first bytes.
func imageType(f *os.File) (string, error) {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name()))); ct != "" {
		return ct, nil
	}
	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

func uploadCommand(ctx context.Context, e *env, args []string) error {
	fs := e.cmd.NewFlagSet(e.stderr)
	desc := fs.String("description", "", "optional notes sent with the image")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("expected exactly one image file")
	}
	a, err := e.load()
	if err != nil {
		return err
	}

	path := fs.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		return fail("Cannot read "+path+".", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fail("Cannot read "+path+".", err)
	}
	ct, err := imageType(f)
	if err != nil {
		return fail("Cannot read "+path+".", err)
	}

	form := &forms.UploadForm{
		Filename:    filepath.Base(path),
		ContentType: ct,
		Size:        info.Size(),
		Body:        f,
		Description: *desc,
		MaxBytes:    a.cfg.MaxUploadBytes,
	}
	sub := forms.NewSubmission(form, func(ctx context.Context) error {
		res, err := a.api.UploadImage(ctx, form.Payload())
		if err != nil {
			return err
		}
		return a.store.SaveAnalysis(res)
	})
	if err := sub.Submit(ctx); err != nil {
		if sub.Outcome() == forms.StateRejected {
			return err
		}
		return fail(msgUploadFailed, err)
	}
	e.printf("Upload Successful\nYour image has been uploaded and is being analyzed.\n\n")
	return view.Show(ctx, view.NewAnalysis(a.store), e.stdout)
}

func analysisCommand(ctx context.Context, e *env, args []string) error {
	fs := e.cmd.NewFlagSet(e.stderr)
	discard := fs.Bool("clear", false, "discard the stored result")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	a, err := e.load()
	if err != nil {
		return err
	}
	if *discard {
		if err := a.store.ClearAnalysis(); err != nil {
			return fail("Could not discard the stored analysis.", err)
		}
		e.printf("Analysis result discarded\n")
		return nil
	}
	return view.Show(ctx, view.NewAnalysis(a.store), e.stdout)
}

func optionsHelp(opts []forms.Option) string {
	return strings.Join(forms.OptionValues(opts), "|")
}

func symptomsCommand(ctx context.Context, e *env, args []string) error {
	var form forms.SymptomsForm
	fs := e.cmd.NewFlagSet(e.stderr)
	fs.StringVar(&form.Location, "location", "", optionsHelp(forms.LocationOptions))
	fs.StringVar(&form.Duration, "duration", "", optionsHelp(forms.DurationOptions))
	fs.StringVar(&form.Severity, "severity", "", optionsHelp(forms.SeverityOptions))
	fs.StringVar(&form.Itchiness, "itchiness", "", optionsHelp(forms.ItchinessOptions))
	fs.StringVar(&form.Pain, "pain", "", optionsHelp(forms.PainOptions))
	fs.StringVar(&form.Description, "description", "", "what you are experiencing, at least 10 characters")
	fs.StringVar(&form.PreviousTreatment, "previous-treatment", "", "treatments already tried")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	a, err := e.load()
	if err != nil {
		return err
	}
	sub := forms.NewSubmission(&form, func(ctx context.Context) error {
		_, err := a.api.SubmitSymptoms(ctx, form.Submission())
		return err
	})
	if err := sub.Submit(ctx); err != nil {
		if sub.Outcome() == forms.StateRejected {
			return err
		}
		return fail(msgSymptomsFailed, err)
	}
	e.printf("Symptoms Submitted\nYour symptoms have been recorded and will be reviewed.\n")
	return nil
}
