package view

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"skinanalyze/internal/models"
)

type PatientLister interface {
	ListPatients(ctx context.Context) ([]models.Patient, error)
}

const (
	MsgNoPatients      = "No patients found. New patients will appear here."
	msgLoadingPatients = "Loading patients..."
)

// PatientList is the doctor's patient roster.
type PatientList struct {
	src   PatientLister
	fetch Fetch[[]models.Patient]
	now   func() time.Time
}

func NewPatientList(src PatientLister) *PatientList {
	return &PatientList{src: src, now: time.Now}
}

func (v *PatientList) Mount(ctx context.Context) {
	v.fetch.Mount(ctx, v.src.ListPatients)
}

func (v *PatientList) Unmount() { v.fetch.Unmount() }

func (v *PatientList) Wait(ctx context.Context) error { return v.fetch.Wait(ctx) }

func (v *PatientList) State() Snapshot[[]models.Patient] { return v.fetch.State() }

func (v *PatientList) Err() error { return v.fetch.State().Err }

func (v *PatientList) Render(w io.Writer) error {
	p := &printer{w: w}
	v.render(p)
	return p.err
}

func (v *PatientList) render(p *printer) {
	s := v.fetch.State()
	switch s.Status {
	case StatusIdle, StatusLoading:
		p.line(msgLoadingPatients)
	case StatusError:
		p.line(MsgPatientsFailed)
	case StatusLoaded:
		if len(s.Data) == 0 {
			p.line(MsgNoPatients)
			return
		}
		now := v.now()
		for _, pt := range s.Data {
			renderPatient(p, pt, now)
		}
	}
}

func renderPatient(p *printer, pt models.Patient, now time.Time) {
	head := []string{"(" + pt.Initials() + ")", pt.Name}
	if pt.Email != "" {
		head = append(head, "<"+pt.Email+">")
	}
	p.line(strings.Join(head, " "))
	var meta []string
	if pt.Age > 0 {
		meta = append(meta, strconv.Itoa(pt.Age)+" years")
	}
	if ago := pt.LastVisitAgo(now); ago != "" {
		meta = append(meta, "Last visit: "+ago)
	}
	if len(meta) > 0 {
		p.linef("  %s", strings.Join(meta, " | "))
	}
	if pt.Condition != "" {
		p.linef("  Condition: %s", pt.Condition)
	}
	p.linef("  id: %s", pt.ID)
}

// AppointmentStatus is scheduled, completed or cancelled.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID          string
	PatientName string
	Date        time.Time
	Status      AppointmentStatus
	Notes       string
}

// SampleAppointments is the fixed appointment book shown until the backend
// exposes one.
func SampleAppointments(loc *time.Location) []Appointment {
	return []Appointment{
		{
			ID:          "1",
			PatientName: "John Doe",
			Date:        time.Date(2025, time.April, 24, 10, 0, 0, 0, loc),
			Status:      AppointmentScheduled,
			Notes:       "Follow-up on skin treatment",
		},
		{
			ID:          "2",
			PatientName: "Sarah Wilson",
			Date:        time.Date(2025, time.April, 24, 14, 30, 0, 0, loc),
			Status:      AppointmentScheduled,
			Notes:       "Initial consultation",
		},
	}
}

// AppointmentsOn returns the appointments that fall on day's calendar date.
func AppointmentsOn(all []Appointment, day time.Time) []Appointment {
	y, m, d := day.Date()
	var out []Appointment
	for _, a := range all {
		ay, am, ad := a.Date.In(day.Location()).Date()
		if ay == y && am == m && ad == d {
			out = append(out, a)
		}
	}
	return out
}

func renderCalendar(p *printer, all []Appointment, day time.Time) {
	p.linef("Appointments for %s", day.Format(dateLong))
	todays := AppointmentsOn(all, day)
	if len(todays) == 0 {
		p.line("  No appointments scheduled for this day.")
		return
	}
	for _, a := range todays {
		p.linef("  %s  %s  (%s)", a.Date.In(day.Location()).Format("15:04"), a.PatientName, a.Status)
		if a.Notes != "" {
			p.linef("    %s", a.Notes)
		}
	}
}
