package view

import (
	"io"
	"strings"

	"skinanalyze/internal/route"
)

type NotFound struct{ static }

func (NotFound) Render(w io.Writer) error {
	p := &printer{w: w}
	p.line("404")
	p.line("Page Not Found")
	p.line("Sorry, the page you are looking for doesn't exist or has been moved.")
	p.link("Back to Home", route.Home)
	return p.err
}

type Home struct{ static }

func (Home) Render(w io.Writer) error {
	p := &printer{w: w}
	p.heading("AI-Powered Skin Analysis")
	p.line("Upload a photo of your skin and get personalized recommendations based on AI analysis.")
	p.blank()
	p.line("How It Works")
	p.line("  1. Take a clear photo of your skin and upload it to our secure platform.")
	p.line("  2. Our AI analyzes your skin's condition, identifying issues and determining your skin type.")
	p.line("  3. Get personalized recommendations and a detailed report about your skin health.")
	p.blank()
	p.link("Analyze Now", route.Upload)
	p.link("Learn More", route.About)
	return p.err
}

type About struct{ static }

var aboutSections = []struct{ title, tagline, body string }{
	{"Our Mission", "Making skin health accessible to everyone",
		"SkinSavvy was created to make professional-level skin analysis accessible to everyone."},
	{"Our Technology", "Advanced AI for accurate skin analysis",
		"Deep learning models trained on thousands of skin images identify skin conditions and types."},
	{"Privacy & Security", "Your data is safe with us",
		"All uploaded images are encrypted and used solely for the purpose of analysis."},
	{"Our Team", "Experts in dermatology and artificial intelligence",
		"Dermatologists, data scientists and software engineers passionate about accessible skin care."},
}

func (About) Render(w io.Writer) error {
	p := &printer{w: w}
	p.heading("About SkinSavvy")
	p.line("Revolutionizing skin care with artificial intelligence")
	for _, s := range aboutSections {
		p.blank()
		p.linef("%s - %s", s.title, s.tagline)
		p.linef("  %s", s.body)
	}
	return p.err
}

// FormPage describes a form-driven screen: its title, lead text and fields.
type FormPage struct {
	static
	Title  string
	Lead   string
	Fields []string
}

func (v FormPage) Render(w io.Writer) error {
	p := &printer{w: w}
	p.heading(v.Title)
	if v.Lead != "" {
		p.line(v.Lead)
	}
	p.blank()
	for _, f := range v.Fields {
		p.linef("  %s", f)
	}
	return p.err
}

// RenderNav prints the navigation bar with the item for current in brackets.
func RenderNav(w io.Writer, current string) error {
	p := &printer{w: w}
	labels := make([]string, 0, len(route.NavItems()))
	for _, item := range route.NavItems() {
		if item.Active(current) {
			labels = append(labels, "["+item.Label+"]")
			continue
		}
		labels = append(labels, item.Label)
	}
	p.line("Skin Analyze  " + strings.Join(labels, " | "))
	p.blank()
	return p.err
}
