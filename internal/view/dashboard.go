package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"skinanalyze/internal/models"
	"skinanalyze/internal/route"
)

// tabs tracks the selected dashboard tab for one role.
type tabs struct {
	mu     sync.Mutex
	role   models.Role
	active string
}

func newTabs(role models.Role) *tabs {
	return &tabs{role: role, active: route.Tabs(role)[0].ID}
}

func (t *tabs) Select(id string) error {
	if !route.HasTab(t.role, id) {
		return fmt.Errorf("unknown %s tab %q", t.role, id)
	}
	t.mu.Lock()
	t.active = id
	t.mu.Unlock()
	return nil
}

func (t *tabs) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *tabs) render(p *printer) {
	active := t.Active()
	var parts []string
	for _, tab := range route.Tabs(t.role) {
		if tab.ID == active {
			parts = append(parts, "["+tab.Label+"]")
		} else {
			parts = append(parts, " "+tab.Label+" ")
		}
	}
	p.line(strings.Join(parts, " "))
	p.blank()
}

// PatientDashboard has reports, upload and symptoms tabs. Reports load on
// mount whichever tab is active.
type PatientDashboard struct {
	*tabs
	reports *ReportList
}

func NewPatientDashboard(src ReportLister) *PatientDashboard {
	return &PatientDashboard{
		tabs:    newTabs(models.RolePatient),
		reports: NewReportList(src, models.ReportFilter{}),
	}
}

func (v *PatientDashboard) Mount(ctx context.Context) { v.reports.Mount(ctx) }

func (v *PatientDashboard) Unmount() { v.reports.Unmount() }

func (v *PatientDashboard) Wait(ctx context.Context) error { return v.reports.Wait(ctx) }

func (v *PatientDashboard) Reports() *ReportList { return v.reports }

func (v *PatientDashboard) Err() error { return v.reports.Err() }

func (v *PatientDashboard) Render(w io.Writer) error {
	p := &printer{w: w}
	p.heading("Patient Dashboard")
	p.line("Track your skin condition, submit symptoms, and view your analysis reports")
	p.blank()
	v.tabs.render(p)
	switch v.Active() {
	case "reports":
		p.line("My Analysis Reports")
		p.line("View all your skin condition analysis reports and recommendations")
		p.blank()
		v.reports.render(p)
	case "upload":
		p.line("Upload New Image")
		p.line("Upload a clear photo of your skin to get an AI-powered analysis")
	case "symptoms":
		p.line("Submit Symptoms")
		p.line("Provide details about your symptoms for a more accurate analysis")
	}
	return p.err
}

// DoctorDashboard has patients, reports, calendar and notes tabs.
type DoctorDashboard struct {
	*tabs
	patients     *PatientList
	reports      *ReportList
	appointments []Appointment

	dayMu sync.Mutex
	day   time.Time
}

// DoctorSource is what the doctor dashboard loads from.
type DoctorSource interface {
	PatientLister
	ReportLister
}

func NewDoctorDashboard(src DoctorSource, now time.Time) *DoctorDashboard {
	return &DoctorDashboard{
		tabs:         newTabs(models.RoleDoctor),
		patients:     NewPatientList(src),
		reports:      NewReportList(src, models.ReportFilter{}),
		appointments: SampleAppointments(now.Location()),
		day:          now,
	}
}

func (v *DoctorDashboard) Mount(ctx context.Context) {
	v.patients.Mount(ctx)
	v.reports.Mount(ctx)
}

func (v *DoctorDashboard) Unmount() {
	v.patients.Unmount()
	v.reports.Unmount()
}

func (v *DoctorDashboard) Wait(ctx context.Context) error {
	return errors.Join(v.patients.Wait(ctx), v.reports.Wait(ctx))
}

func (v *DoctorDashboard) Patients() *PatientList { return v.patients }

func (v *DoctorDashboard) Reports() *ReportList { return v.reports }

func (v *DoctorDashboard) Err() error { return errors.Join(v.patients.Err(), v.reports.Err()) }

// SelectDay picks the calendar date.
func (v *DoctorDashboard) SelectDay(day time.Time) {
	v.dayMu.Lock()
	v.day = day
	v.dayMu.Unlock()
}

func (v *DoctorDashboard) Render(w io.Writer) error {
	p := &printer{w: w}
	p.heading("Doctor Dashboard")
	p.line("Manage patients, view reports, and schedule appointments")
	p.blank()
	v.tabs.render(p)
	switch v.Active() {
	case "patients":
		p.line("Patient List")
		p.blank()
		v.patients.render(p)
	case "reports":
		p.line("Analysis Reports")
		p.line("View all patient skin analysis reports")
		p.blank()
		v.reports.render(p)
	case "calendar":
		p.line("Appointments Calendar")
		p.blank()
		v.dayMu.Lock()
		day := v.day
		v.dayMu.Unlock()
		renderCalendar(p, v.appointments, day)
	case "notes":
		p.line("Patient Notes")
		p.line("No active conversations")
		p.line("Select a patient to view or add notes.")
	}
	return p.err
}
