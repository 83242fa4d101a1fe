// Package route maps application paths to views and selects what each role
// can reach through normal navigation. Nothing here performs I/O or holds
// state beyond the static route table.
package route

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"skinanalyze/internal/models"
)

const (
	Home             = "/"
	Login            = "/login"
	Register         = "/register"
	Upload           = "/upload"
	Analysis         = "/analysis"
	Reports          = "/reports"
	ReportDetail     = "/reports/{id}"
	About            = "/about"
	Contact          = "/contact"
	PatientDashboard = "/p-dashboard"
	DoctorDashboard  = "/d-dashboard"
)

type View string

const (
	ViewHome             View = "home"
	ViewLogin            View = "login"
	ViewRegister         View = "register"
	ViewUpload           View = "upload"
	ViewAnalysis         View = "analysis"
	ViewReports          View = "reports"
	ViewReportDetail     View = "report-detail"
	ViewAbout            View = "about"
	ViewContact          View = "contact"
	ViewPatientDashboard View = "patient-dashboard"
	ViewDoctorDashboard  View = "doctor-dashboard"
	ViewNotFound         View = "not-found"
)

// Match is the result of resolving a path.
type Match struct {
	View   View
	Path   string
	Params map[string]string
}

var table = newTable()

func newTable() *mux.Router {
	r := mux.NewRouter()
	for path, v := range map[string]View{
		Home:             ViewHome,
		Login:            ViewLogin,
		Register:         ViewRegister,
		Upload:           ViewUpload,
		Analysis:         ViewAnalysis,
		Reports:          ViewReports,
		ReportDetail:     ViewReportDetail,
		About:            ViewAbout,
		Contact:          ViewContact,
		PatientDashboard: ViewPatientDashboard,
		DoctorDashboard:  ViewDoctorDashboard,
	} {
		r.Path(path).Name(string(v))
	}
	return r
}

// Resolve returns the view for path. Query strings and a trailing slash are
// ignored; unknown paths resolve to ViewNotFound.
func Resolve(path string) Match {
	clean := normalize(path)
	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Path: clean}}
	var rm mux.RouteMatch
	if !table.Match(req, &rm) || rm.Route == nil {
		return Match{View: ViewNotFound, Path: clean, Params: map[string]string{}}
	}
	params := rm.Vars
	if params == nil {
		params = map[string]string{}
	}
	return Match{View: View(rm.Route.GetName()), Path: clean, Params: params}
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

// ReportPath builds /reports/{id}.
func ReportPath(id string) string {
	return "/reports/" + url.PathEscape(id)
}

// Landing is where a freshly logged-in user is sent.
func Landing(role models.Role) string {
	switch role {
	case models.RolePatient:
		return PatientDashboard
	case models.RoleDoctor:
		return DoctorDashboard
	default:
		return Login
	}
}

// Allowed reports whether normal navigation exposes path to role. The zero
// Role means no session. This is not an enforcement point: the backend
// rejects unauthorized calls on its own.
func Allowed(path string, role models.Role) bool {
	switch Resolve(path).View {
	case ViewPatientDashboard:
		return role == models.RolePatient
	case ViewDoctorDashboard:
		return role == models.RoleDoctor
	default:
		return true
	}
}
