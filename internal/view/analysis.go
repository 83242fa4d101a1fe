package view

import (
	"context"
	"io"
	"sync"

	"skinanalyze/internal/models"
	"skinanalyze/internal/route"
)

// AnalysisSource yields the result handed off by the last upload.
type AnalysisSource interface {
	LoadAnalysis() (models.AnalysisResult, bool)
}

// Analysis shows the most recent upload result. It reads local state only.
type Analysis struct {
	static
	src AnalysisSource

	mu     sync.Mutex
	result models.AnalysisResult
	found  bool
}

func NewAnalysis(src AnalysisSource) *Analysis {
	return &Analysis{src: src}
}

func (v *Analysis) Mount(context.Context) {
	res, ok := v.src.LoadAnalysis()
	v.mu.Lock()
	v.result, v.found = res, ok
	v.mu.Unlock()
}

func (v *Analysis) Unmount() {
	v.mu.Lock()
	v.result, v.found = models.AnalysisResult{}, false
	v.mu.Unlock()
}

func (v *Analysis) Render(w io.Writer) error {
	v.mu.Lock()
	res, ok := v.result, v.found
	v.mu.Unlock()

	p := &printer{w: w}
	if !ok {
		p.line("No analysis result found")
		p.link("Upload an Image", route.Upload)
		return p.err
	}
	p.heading("Your Skin Analysis")
	p.line("Based on the image you uploaded, our AI has analyzed your skin condition")
	if res.ImageURL != "" {
		p.linef("Image: %s", res.ImageURL)
	}
	p.blank()
	renderResultCard(p, res.SkinType, res.Issues, res.Recommendations)
	p.blank()
	p.link("Save to My Reports", route.Reports)
	return p.err
}
