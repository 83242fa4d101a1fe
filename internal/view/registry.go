package view

import (
	"time"

	"skinanalyze/internal/models"
	"skinanalyze/internal/route"
)

// Backend is every read the views perform.
type Backend interface {
	ReportLister
	ReportGetter
	PatientLister
}

// Deps are the collaborators a view may need.
type Deps struct {
	Backend  Backend
	Analysis AnalysisSource
	Now      func() time.Time
}

// ForRoute builds the view for a resolved route.
func ForRoute(m route.Match, d Deps) View {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	switch m.View {
	case route.ViewHome:
		return Home{}
	case route.ViewAbout:
		return About{}
	case route.ViewReports:
		return NewReportList(d.Backend, models.ReportFilter{})
	case route.ViewReportDetail:
		return NewReportDetail(d.Backend, m.Params["id"])
	case route.ViewAnalysis:
		return NewAnalysis(d.Analysis)
	case route.ViewPatientDashboard:
		return NewPatientDashboard(d.Backend)
	case route.ViewDoctorDashboard:
		v := NewDoctorDashboard(d.Backend, now())
		v.patients.now = now
		return v
	case route.ViewLogin:
		return FormPage{
			Title:  "Welcome Back",
			Lead:   "Sign in to access your Skin Analyze account and continue your skin health journey.",
			Fields: []string{"Email", "Password", "Role (patient or doctor)"},
		}
	case route.ViewRegister:
		return FormPage{
			Title:  "Join Skin Analyze",
			Lead:   "Create an account to access personalized skin analysis, track your skin health, and get professional recommendations.",
			Fields: []string{"Full Name", "Email", "Password", "Confirm Password", "Role (patient or doctor)"},
		}
	case route.ViewUpload:
		return FormPage{
			Title:  "Upload Your Skin Photo",
			Lead:   "Take a clear, well-lit photo of your skin for the most accurate analysis",
			Fields: []string{"Image (JPEG or PNG, under 10MB)", "Description (optional)"},
		}
	case route.ViewContact:
		return FormPage{
			Title:  "Contact Us",
			Lead:   "Have questions or feedback? We'd love to hear from you.",
			Fields: []string{"Name", "Email", "Subject", "Message"},
		}
	default:
		return NotFound{}
	}
}
