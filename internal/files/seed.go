package files

import (
	"time"

	"skinanalyze/internal/models"
)

// SampleIssues and SampleRecommendations are the canned analysis the
// development backend returns for every upload.
var SampleIssues = []models.Issue{
	{Type: "Mild Acne", Probability: 0.85, Description: "Few inflammatory papules and comedones detected in the T-zone area."},
	{Type: "Dryness", Probability: 0.65, Description: "Some dry patches detected on cheeks and around the mouth area."},
}

var SampleRecommendations = []models.Recommendation{
	{Title: "Gentle Cleanser", Description: "Use a pH-balanced cleanser twice daily to remove excess oil without drying your skin."},
	{Title: "Moisturizer", Description: "Apply a lightweight, non-comedogenic moisturizer to hydrate dry areas."},
	{Title: "Exfoliation", Description: "Use a BHA exfoliant 2-3 times weekly to help with acne and oil control."},
}

// Seed loads fixture patients and reports into an empty store.
func (d *DB) Seed() error {
	if !d.Empty() {
		return nil
	}
	lastVisit := func(s string) *time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return &t
	}
	patients := []models.Patient{
		{ID: "p-1", Name: "John Doe", Email: "john.doe@example.com", Age: 34, LastVisit: lastVisit("2025-04-18T14:22:00Z"), Condition: "Mild Acne"},
		{ID: "p-2", Name: "Sarah Wilson", Email: "sarah.wilson@example.com", Age: 28, LastVisit: lastVisit("2025-04-10T09:15:00Z"), Condition: "Dryness"},
	}
	for _, p := range patients {
		if _, err := d.AddPatient(p); err != nil {
			return err
		}
	}
	reports := []models.Report{
		{
			ID:              "1",
			Date:            time.Date(2025, 4, 18, 14, 22, 0, 0, time.UTC),
			SkinType:        "Combination",
			ImageURL:        "https://images.unsplash.com/photo-1581091226825-a6a2a5aee158",
			Thumbnail:       "https://images.unsplash.com/photo-1581091226825-a6a2a5aee158?w=150",
			Issues:          SampleIssues,
			Recommendations: SampleRecommendations,
			PatientID:       "p-1",
			PatientName:     "John Doe",
			Condition:       "Mild Acne",
			Severity:        models.SeverityMedium,
			Diagnosis:       "Mild inflammatory acne concentrated in the T-zone.",
			Treatment:       "Topical benzoyl peroxide 2.5% once daily.",
		},
		{
			ID:              "2",
			Date:            time.Date(2025, 4, 10, 9, 15, 0, 0, time.UTC),
			SkinType:        "Dry",
			Thumbnail:       "https://images.unsplash.com/photo-1518770660439-4636190af475?w=150",
			Issues:          SampleIssues[1:],
			Recommendations: SampleRecommendations[1:2],
			PatientID:       "p-2",
			PatientName:     "Sarah Wilson",
			Condition:       "Dryness",
			Severity:        models.SeverityLow,
			Diagnosis:       "Xerosis on cheeks and perioral area.",
			Treatment:       "Fragrance-free emollient twice daily.",
		},
	}
	for _, r := range reports {
		if _, err := d.AddReport(r); err != nil {
			return err
		}
	}
	return nil
}
