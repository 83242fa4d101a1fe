package route

import "skinanalyze/internal/models"

type Tab struct {
	ID    string
	Label string
}

var (
	patientTabs = []Tab{
		{ID: "reports", Label: "My Reports"},
		{ID: "upload", Label: "Upload Image"},
		{ID: "symptoms", Label: "Symptoms"},
	}
	doctorTabs = []Tab{
		{ID: "patients", Label: "Patients"},
		{ID: "reports", Label: "Reports"},
		{ID: "calendar", Label: "Calendar"},
		{ID: "notes", Label: "Notes"},
	}
)

// Tabs lists the dashboard tabs for role; the first one is the default.
func Tabs(role models.Role) []Tab {
	var tabs []Tab
	switch role {
	case models.RolePatient:
		tabs = patientTabs
	case models.RoleDoctor:
		tabs = doctorTabs
	default:
		return nil
	}
	return append([]Tab(nil), tabs...)
}

// HasTab reports whether id is one of role's tabs.
func HasTab(role models.Role, id string) bool {
	for _, t := range Tabs(role) {
		if t.ID == id {
			return true
		}
	}
	return false
}

type NavItem struct {
	Label string
	Path  string
}

var navItems = []NavItem{
	{Label: "Home", Path: Home},
	{Label: "Analyze", Path: Upload},
	{Label: "Reports", Path: Reports},
	{Label: "About", Path: About},
	{Label: "Contact", Path: Contact},
}

func NavItems() []NavItem {
	return append([]NavItem(nil), navItems...)
}

// Active is true only on an exact path match.
func (n NavItem) Active(current string) bool {
	return normalize(current) == n.Path
}
