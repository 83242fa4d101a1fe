package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"skinanalyze/internal/models"
)

// Backend paths.
const (
	PathLogin    = "/auth/login"
	PathRegister = "/auth/register"
	PathLogout   = "/auth/logout"
	PathAnalyze  = "/analyze"
	PathSymptoms = "/symptoms"
	PathReports  = "/reports"
	PathPatients = "/patients"
	PathProfile  = "/profile"
)

func (c *Client) Login(ctx context.Context, in models.LoginRequest) (models.LoginResponse, error) {
	var out models.LoginResponse
	r, err := c.jsonRequest(http.MethodPost, PathLogin, in)
	if err != nil {
		return out, err
	}
	if err := c.do(ctx, r, &out); err != nil {
		return out, err
	}
	if out.Token == "" {
		return out, ErrNoToken
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in models.RegisterRequest) (models.User, error) {
	var out models.User
	r, err := c.jsonRequest(http.MethodPost, PathRegister, in)
	if err != nil {
		return out, err
	}
	return out, c.do(ctx, r, &out)
}

func (c *Client) Logout(ctx context.Context) (models.Ack, error) {
	var out models.Ack
	return out, c.do(ctx, request{method: http.MethodPost, path: PathLogout}, &out)
}

// UploadImage sends the image as multipart/form-data with an "image" file
// part and an optional "description" field.
func (c *Client) UploadImage(ctx context.Context, in models.UploadPayload) (models.AnalysisResult, error) {
	var out models.AnalysisResult
	if in.Body == nil {
		return out, fmt.Errorf("upload %s: no image data", in.Filename)
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, in.Filename))
	ct := in.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	part, err := mw.CreatePart(h)
	if err != nil {
		return out, err
	}
	if _, err := io.Copy(part, in.Body); err != nil {
		return out, fmt.Errorf("read image %s: %w", in.Filename, err)
	}
	if in.Description != "" {
		if err := mw.WriteField("description", in.Description); err != nil {
			return out, err
		}
	}
	if err := mw.Close(); err != nil {
		return out, err
	}
	r := request{
		method:      http.MethodPost,
		path:        PathAnalyze,
		body:        &buf,
		contentType: mw.FormDataContentType(),
	}
	return out, c.do(ctx, r, &out)
}

func (c *Client) SubmitSymptoms(ctx context.Context, in models.SymptomSubmission) (models.Ack, error) {
	var out models.Ack
	r, err := c.jsonRequest(http.MethodPost, PathSymptoms, in)
	if err != nil {
		return out, err
	}
	return out, c.do(ctx, r, &out)
}

// ReportQuery encodes the non-zero filter fields.
func ReportQuery(f models.ReportFilter) url.Values {
	q := url.Values{}
	if f.PatientID != "" {
		q.Set("patientId", f.PatientID)
	}
	if f.Severity != "" {
		q.Set("severity", string(f.Severity))
	}
	if !f.From.IsZero() {
		q.Set("from", f.From.UTC().Format(time.RFC3339))
	}
	if !f.To.IsZero() {
		q.Set("to", f.To.UTC().Format(time.RFC3339))
	}
	return q
}

func (c *Client) ListReports(ctx context.Context, f models.ReportFilter) ([]models.Report, error) {
	out := []models.Report{}
	r := request{method: http.MethodGet, path: PathReports, query: ReportQuery(f)}
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Report{}
	}
	return out, nil
}

func (c *Client) GetReport(ctx context.Context, id string) (models.Report, error) {
	var out models.Report
	if strings.TrimSpace(id) == "" {
		return out, fmt.Errorf("report id is required")
	}
	r := request{method: http.MethodGet, path: PathReports + "/" + url.PathEscape(id)}
	return out, c.do(ctx, r, &out)
}

// ListPatients uses the method from config.Config.PatientsMethod.
func (c *Client) ListPatients(ctx context.Context) ([]models.Patient, error) {
	out := []models.Patient{}
	r := request{method: c.patientsMethod, path: PathPatients}
	if c.patientsMethod == http.MethodPost {
		var err error
		if r, err = c.jsonRequest(http.MethodPost, PathPatients, struct{}{}); err != nil {
			return nil, err
		}
	}
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Patient{}
	}
	return out, nil
}

func (c *Client) UpdatePatient(ctx context.Context, id string, in models.PatientUpdate) (models.Patient, error) {
	var out models.Patient
	if strings.TrimSpace(id) == "" {
		return out, fmt.Errorf("patient id is required")
	}
	r, err := c.jsonRequest(http.MethodPut, PathPatients+"/"+url.PathEscape(id), in)
	if err != nil {
		return out, err
	}
	return out, c.do(ctx, r, &out)
}

func (c *Client) GetProfile(ctx context.Context) (models.Profile, error) {
	var out models.Profile
	return out, c.do(ctx, request{method: http.MethodGet, path: PathProfile}, &out)
}

func (c *Client) UpdateProfile(ctx context.Context, in models.ProfileUpdate) (models.Profile, error) {
	var out models.Profile
	r, err := c.jsonRequest(http.MethodPut, PathProfile, in)
	if err != nil {
		return out, err
	}
	return out, c.do(ctx, r, &out)
}
