package view

import (
	"context"
	"io"

	"skinanalyze/internal/models"
	"skinanalyze/internal/route"
)

type ReportLister interface {
	ListReports(ctx context.Context, f models.ReportFilter) ([]models.Report, error)
}

type ReportGetter interface {
	GetReport(ctx context.Context, id string) (models.Report, error)
}

const (
	MsgNoReports        = "You haven't created any skin analysis reports yet."
	LabelFirstReport    = "Create Your First Report"
	msgLoadingReports   = "Loading reports..."
	msgLoadingReport    = "Loading report..."
	msgNoNotes          = "No additional notes provided."
	msgNoIssues         = "No issues detected"
	msgNoRecommendation = "No recommendations available"
)

// ReportList shows the caller's reports, or every report for a doctor.
type ReportList struct {
	src    ReportLister
	filter models.ReportFilter
	fetch  Fetch[[]models.Report]
}

func NewReportList(src ReportLister, filter models.ReportFilter) *ReportList {
	return &ReportList{src: src, filter: filter}
}

func (v *ReportList) Mount(ctx context.Context) {
	v.fetch.Mount(ctx, func(ctx context.Context) ([]models.Report, error) {
		return v.src.ListReports(ctx, v.filter)
	})
}

func (v *ReportList) Unmount() { v.fetch.Unmount() }

func (v *ReportList) Wait(ctx context.Context) error { return v.fetch.Wait(ctx) }

func (v *ReportList) State() Snapshot[[]models.Report] { return v.fetch.State() }

func (v *ReportList) Err() error { return v.fetch.State().Err }

func (v *ReportList) Render(w io.Writer) error {
	p := &printer{w: w}
	v.render(p)
	return p.err
}

func (v *ReportList) render(p *printer) {
	s := v.fetch.State()
	switch s.Status {
	case StatusIdle, StatusLoading:
		p.line(msgLoadingReports)
	case StatusError:
		p.line(MsgReportsFailed)
	case StatusLoaded:
		if len(s.Data) == 0 {
			p.line("No Reports Yet")
			p.line(MsgNoReports)
			p.link(LabelFirstReport, route.Upload)
			return
		}
		for _, r := range s.Data {
			title := "Skin Analysis"
			if r.PatientName != "" {
				title += " - " + r.PatientName
			}
			p.linef("%s  %s  [%s]", title, formatDate(r.Date, dateShort), r.SkinType)
			p.linef("  -> %s", route.ReportPath(r.ID))
		}
	}
}

// ReportDetail shows one report by id.
type ReportDetail struct {
	src   ReportGetter
	id    string
	fetch Fetch[models.Report]
}

func NewReportDetail(src ReportGetter, id string) *ReportDetail {
	return &ReportDetail{src: src, id: id}
}

func (v *ReportDetail) Mount(ctx context.Context) {
	v.fetch.Mount(ctx, func(ctx context.Context) (models.Report, error) {
		return v.src.GetReport(ctx, v.id)
	})
}

func (v *ReportDetail) Unmount() { v.fetch.Unmount() }

func (v *ReportDetail) Wait(ctx context.Context) error { return v.fetch.Wait(ctx) }

func (v *ReportDetail) State() Snapshot[models.Report] { return v.fetch.State() }

func (v *ReportDetail) Err() error { return v.fetch.State().Err }

func (v *ReportDetail) Render(w io.Writer) error {
	p := &printer{w: w}
	s := v.fetch.State()
	switch s.Status {
	case StatusIdle, StatusLoading:
		p.line(msgLoadingReport)
	case StatusError:
		p.line("Error Loading Report")
		p.line(MsgReportFailed)
		p.link("Back to Reports", route.Reports)
	case StatusLoaded:
		renderReport(p, s.Data)
	}
	return p.err
}

func renderReport(p *printer, r models.Report) {
	p.heading("Skin Analysis Report")
	p.line(formatDate(r.Date, dateLong))
	if r.Severity != "" {
		p.linef("[%s]", r.Severity.Label())
	}
	if r.ImageURL != "" {
		p.linef("Image: %s", r.ImageURL)
	}
	if r.Condition != "" {
		p.linef("Identified Condition: %s", r.Condition)
	}
	p.blank()
	if r.SkinType != "" || len(r.Issues) > 0 || len(r.Recommendations) > 0 {
		renderResultCard(p, r.SkinType, r.Issues, r.Recommendations)
		p.blank()
	}
	if r.Diagnosis != "" {
		p.line("Medical Assessment")
		p.linef("  %s", r.Diagnosis)
	}
	if r.Treatment != "" {
		p.line("Recommended Treatment")
		p.linef("  %s", r.Treatment)
	}
	p.line("Additional Notes")
	if r.Notes != "" {
		p.linef("  %s", r.Notes)
	} else {
		p.linef("  %s", msgNoNotes)
	}
	if r.DoctorName != "" {
		p.linef("Report prepared by: %s", r.DoctorName)
	}
	if r.PatientName != "" {
		p.linef("Patient: %s", r.PatientName)
	}
	p.linef("Report ID: %s", r.ID)
	p.link("Back to Reports", route.Reports)
}

func renderResultCard(p *printer, skinType string, issues []models.Issue, recs []models.Recommendation) {
	p.linef("Skin Analysis Results  [%s]", skinType)
	p.line("Detected Issues")
	if len(issues) == 0 {
		p.linef("  %s", msgNoIssues)
	}
	for _, is := range issues {
		p.linef("  - %s  %d%%", is.Type, is.Percent())
		if is.Description != "" {
			p.linef("    %s", is.Description)
		}
	}
	p.line("Recommendations")
	if len(recs) == 0 {
		p.linef("  %s", msgNoRecommendation)
	}
	for _, r := range recs {
		p.linef("  - %s", r.Title)
		if r.Description != "" {
			p.linef("    %s", r.Description)
		}
	}
}
