package view

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// View is one screen. Static views ignore Mount and Unmount.
type View interface {
	Mount(ctx context.Context)
	Unmount()
	// Wait blocks until loads started by Mount have settled.
	Wait(ctx context.Context) error
	Render(w io.Writer) error
}

// printer keeps the first write error so render code can stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) linef(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) line(s string) { p.linef("%s", s) }

func (p *printer) blank() { p.line("") }

func (p *printer) heading(s string) {
	p.line(s)
	p.line(strings.Repeat("=", len([]rune(s))))
}

func (p *printer) link(label, path string) {
	p.linef("[%s] -> %s", label, path)
}

const (
	dateShort = "Jan 2, 2006"
	dateLong  = "January 2, 2006"
)

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Format(layout)
}

// static is embedded by views that never load anything.
type static struct{}

func (static) Mount(context.Context) {}

func (static) Unmount() {}

func (static) Wait(context.Context) error { return nil }

// ShownError is a load failure whose user-facing message has already been
// rendered.
type ShownError struct{ Err error }

func (e *ShownError) Error() string { return e.Err.Error() }

func (e *ShownError) Unwrap() error { return e.Err }

// Show mounts v, waits for its loads, renders it to w and unmounts it. A
// failed load is returned as a *ShownError.
func Show(ctx context.Context, v View, w io.Writer) error {
	v.Mount(ctx)
	defer v.Unmount()
	if err := v.Wait(ctx); err != nil {
		return err
	}
	if err := v.Render(w); err != nil {
		return err
	}
	if f, ok := v.(interface{ Err() error }); ok {
		if err := f.Err(); err != nil {
			return &ShownError{Err: err}
		}
	}
	return nil
}
