package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

type Patient struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Age       int        `json:"age,omitempty"`
	LastVisit *time.Time `json:"lastVisit,omitempty"`
	Condition string     `json:"condition,omitempty"`
	ImageURL  string     `json:"imageUrl,omitempty"`
}

// Initials are the upper-cased first letters of each name part.
func (p Patient) Initials() string {
	var b strings.Builder
	for _, part := range strings.Fields(p.Name) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteString(strings.ToUpper(string(r)))
	}
	return b.String()
}

// LastVisitAgo renders LastVisit relative to now. Empty when unknown.
func (p Patient) LastVisitAgo(now time.Time) string {
	if p.LastVisit == nil {
		return ""
	}
	days := int(now.Sub(*p.LastVisit).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 30:
		return fmt.Sprintf("%d days ago", days)
	}
	months := days / 30
	if months == 1 {
		return "1 month ago"
	}
	return fmt.Sprintf("%d months ago", months)
}

// PatientUpdate is the partial body of PUT /patients/{id}.
type PatientUpdate struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Age       *int    `json:"age,omitempty"`
	Condition *string `json:"condition,omitempty"`
	ImageURL  *string `json:"imageUrl,omitempty"`
}
