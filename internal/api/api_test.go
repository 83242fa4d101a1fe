package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinanalyze/internal/client"
	"skinanalyze/internal/config"
	"skinanalyze/internal/files"
	"skinanalyze/internal/models"
)

var testSecret = bytes.Repeat([]byte("k"), 32)

type tokenBox struct {
	mu    sync.Mutex
	token string
}

func (b *tokenBox) Token() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token, b.token != ""
}

func (b *tokenBox) set(tok string) {
	b.mu.Lock()
	b.token = tok
	b.mu.Unlock()
}

type fixture struct {
	db     *files.DB
	tokens *Tokens
	url    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := files.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	require.NoError(t, db.Seed())
	tokens, err := NewTokens(testSecret, time.Hour)
	require.NoError(t, err)
	srv := httptest.NewServer(NewServer(db, tokens, WithMaxUpload(1024)).Router())
	t.Cleanup(srv.Close)
	return &fixture{db: db, tokens: tokens, url: srv.URL}
}

func (f *fixture) client(t *testing.T, method string) (*client.Client, *tokenBox) {
	t.Helper()
	box := &tokenBox{}
	c, err := client.New(config.Config{Server: f.url, PatientsMethod: method}, box)
	require.NoError(t, err)
	return c, box
}

func (f *fixture) signIn(t *testing.T, c *client.Client, box *tokenBox, email string, role models.Role) models.User {
	t.Helper()
	ctx := context.Background()
	u, err := c.Register(ctx, models.RegisterRequest{Name: "Test User", Email: email, Password: "secret1", Role: role})
	require.NoError(t, err)
	resp, err := c.Login(ctx, models.LoginRequest{Email: email, Password: "secret1", Role: role})
	require.NoError(t, err)
	box.set(resp.Token)
	return u
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var he *client.HTTPError
	require.ErrorAs(t, err, &he)
	return he.StatusCode
}

func TestNewTokensRejectsShortSecret(t *testing.T) {
	_, err := NewTokens([]byte("short"), time.Hour)
	assert.Error(t, err)
}

func TestTokens_IssueVerifyRevoke(t *testing.T) {
	tokens, err := NewTokens(testSecret, time.Hour)
	require.NoError(t, err)

	raw, err := tokens.Issue("u-1", models.RoleDoctor)
	require.NoError(t, err)
	claims, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, models.RoleDoctor, claims.Role)

	tokens.Revoke(claims)
	_, err = tokens.Verify(raw)
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestTokens_Expired(t *testing.T) {
	tokens, err := NewTokens(testSecret, time.Minute)
	require.NoError(t, err)
	start := time.Now()
	tokens.now = func() time.Time { return start }
	raw, err := tokens.Issue("u-1", models.RolePatient)
	require.NoError(t, err)

	tokens.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = tokens.Verify(raw)
	assert.Error(t, err)
}

func TestTokens_WrongKey(t *testing.T) {
	a, err := NewTokens(testSecret, time.Hour)
	require.NoError(t, err)
	b, err := NewTokens(bytes.Repeat([]byte("z"), 32), time.Hour)
	require.NoError(t, err)
	raw, err := a.Issue("u-1", models.RolePatient)
	require.NoError(t, err)
	_, err = b.Verify(raw)
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.url + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestUnknownEndpointIsJSON(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.url + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, CodeNotFound, body.Code)
}

func TestLoginFlow(t *testing.T) {
	f := newFixture(t)
	c, box := f.client(t, http.MethodGet)
	ctx := context.Background()

	u := f.signIn(t, c, box, "doc@example.com", models.RoleDoctor)
	assert.Equal(t, models.RoleDoctor, u.Role)

	rec, err := f.db.UserByEmail("doc@example.com")
	require.NoError(t, err)
	assert.False(t, rec.LastLogin.IsZero())

	_, err = c.Register(ctx, models.RegisterRequest{Name: "Dup", Email: "doc@example.com", Password: "secret1", Role: models.RoleDoctor})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	_, err = c.Login(ctx, models.LoginRequest{Email: "doc@example.com", Password: "wrong!", Role: models.RoleDoctor})
	assert.True(t, client.IsUnauthorized(err))

	_, err = c.Login(ctx, models.LoginRequest{Email: "doc@example.com", Password: "secret1", Role: models.RolePatient})
	assert.True(t, client.IsUnauthorized(err))
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	c, _ := f.client(t, http.MethodGet)
	cases := map[string]struct {
		req  models.RegisterRequest
		want string
	}{
		"short name": {models.RegisterRequest{Name: " A ", Email: "a@b.com", Password: "secret1", Role: models.RolePatient}, "name: Name must be at least 2 characters"},
		"bad email":  {models.RegisterRequest{Name: "Al", Email: "not-an-email", Password: "secret1", Role: models.RolePatient}, "email: Invalid email address"},
		"no dot":     {models.RegisterRequest{Name: "Al", Email: "al@localhost", Password: "secret1", Role: models.RolePatient}, "email: Invalid email address"},
		"password":   {models.RegisterRequest{Name: "Al", Email: "a@b.com", Password: "123", Role: models.RolePatient}, "password: Password must be at least 6 characters"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Register(context.Background(), tc.req)
			var he *client.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, http.StatusBadRequest, he.StatusCode)
			assert.Equal(t, CodeValidation, he.Code)
			assert.Equal(t, tc.want, he.Message)
		})
	}
}

func TestRegisterPatientJoinsRoster(t *testing.T) {
	f := newFixture(t)
	c, _ := f.client(t, http.MethodGet)
	u, err := c.Register(context.Background(), models.RegisterRequest{Name: "Pat", Email: "pat@example.com", Password: "secret1", Role: models.RolePatient})
	require.NoError(t, err)
	var ids []string
	for _, p := range f.db.Patients() {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, u.ID)
}

func TestAuthRequired(t *testing.T) {
	f := newFixture(t)
	c, box := f.client(t, http.MethodGet)
	_, err := c.ListReports(context.Background(), models.ReportFilter{})
	assert.True(t, client.IsUnauthorized(err))

	box.set("garbage")
	_, err = c.GetProfile(context.Background())
	assert.True(t, client.IsUnauthorized(err))
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	c, box := f.client(t, http.MethodGet)
	ctx := context.Background()
	f.signIn(t, c, box, "pat@example.com", models.RolePatient)

	_, err := c.Logout(ctx)
	require.NoError(t, err)
	_, err = c.GetProfile(ctx)
	assert.True(t, client.IsUnauthorized(err))
}

func TestAnalyzeStoresReport(t *testing.T) {
	f := newFixture(t)
	c, box := f.client(t, http.MethodGet)
	ctx := context.Background()
	u := f.signIn(t, c, box, "pat@example.com", models.RolePatient)

	res, err := c.UploadImage(ctx, models.UploadPayload{
		Filename:    "face.png",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("\x89PNG"),
		Description: "itchy patch",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Contains(t, skinTypes, res.SkinType)
	assert.Len(t, res.Issues, len(files.SampleIssues))

	rep, err := c.GetReport(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, rep.PatientID)
	assert.Equal(t, "itchy patch", rep.Notes)

	list, err := c.ListReports(ctx, models.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, res.ID, list[0].ID)
}

func TestAnalyzeRejectsUploads(t *testing.T) {
	f := newFixture(t)
	c, box := f.client(t, http.MethodGet)
	ctx := context.Background()
	f.signIn(t, c, box, "pat@example.com", models.RolePatient)

	_, err := c.UploadImage(ctx, models.UploadPayload{Filename: "notes.txt", ContentType: "text/plain", Body: strings.NewReader("hello")})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	big := bytes.Repeat([]byte{0xff}, 1024)
	_, err = c.UploadImage(ctx, models.UploadPayload{Filename: "big.jpg", ContentType: "image/jpeg", Size: 1024, Body: bytes.NewReader(big)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, statusOf(t, err))
}

func TestSymptoms(t *testing.T) {
	f := newFixture(t)
	c, box := f.client(t, http.MethodGet)
	ctx := context.Background()
	u := f.signIn(t, c, box, "pat@example.com", models.RolePatient)

	sub := models.SymptomSubmission{
		Location: "face", Duration: "days", Severity: "mild", Itchiness: "none", Pain: "none",
		Description: "Red patches on both cheeks",
	}
	_, err := c.SubmitSymptoms(ctx, sub)
	require.NoError(t, err)
	assert.Len(t, f.db.Symptoms(u.ID), 1)

	sub.Description = "short"
	_, err = c.SubmitSymptoms(ctx, sub)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	sub.Description, sub.Pain = "Red patches on both cheeks", ""
	_, err = c.SubmitSymptoms(ctx, sub)
	var he *client.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "pain: required", he.Message)
}

func TestPatientCannotSeeOthersReports(t *testing.T) {
	f := newFixture(t)
	c, box := f.client(t, http.MethodGet)
	ctx := context.Background()
	f.signIn(t, c, box, "pat@example.com", models.RolePatient)

	list, err := c.ListReports(ctx, models.ReportFilter{PatientID: "p-1"})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = c.GetReport(ctx, "1")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, err = c.ListPatients(ctx)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
}

func TestDoctorReports(t *testing.T) {
	f := newFixture(t)
	c, box := f.client(t, http.MethodGet)
	ctx := context.Background()
	f.signIn(t, c, box, "doc@example.com", models.RoleDoctor)

	all, err := c.ListReports(ctx, models.ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyP1, err := c.ListReports(ctx, models.ReportFilter{PatientID: "p-1"})
	require.NoError(t, err)
	require.Len(t, onlyP1, 1)
	assert.Equal(t, "1", onlyP1[0].ID)

	rep, err := c.GetReport(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, models.SeverityMedium, rep.Severity)

	_, err = c.GetReport(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestReportFilterBadSeverity(t *testing.T) {
	f := newFixture(t)
	c, box := f.client(t, http.MethodGet)
	f.signIn(t, c, box, "doc@example.com", models.RoleDoctor)
	_, err := c.ListReports(context.Background(), models.ReportFilter{Severity: "extreme"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestPatientsBothMethods(t *testing.T) {
	f := newFixture(t)
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			c, box := f.client(t, method)
			f.signIn(t, c, box, strings.ToLower(method)+"@example.com", models.RoleDoctor)
			list, err := c.ListPatients(context.Background())
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "John Doe", list[0].Name)
		})
	}
}

func TestUpdatePatient(t *testing.T) {
	f := newFixture(t)
	c, box := f.client(t, http.MethodGet)
	ctx := context.Background()
	f.signIn(t, c, box, "doc@example.com", models.RoleDoctor)

	cond := "Eczema"
	p, err := c.UpdatePatient(ctx, "p-2", models.PatientUpdate{Condition: &cond})
	require.NoError(t, err)
	assert.Equal(t, "Eczema", p.Condition)
	assert.Equal(t, "Sarah Wilson", p.Name)

	_, err = c.UpdatePatient(ctx, "nobody", models.PatientUpdate{Condition: &cond})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	c, box := f.client(t, http.MethodGet)
	ctx := context.Background()
	f.signIn(t, c, box, "pat@example.com", models.RolePatient)

	p, err := c.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", p.Email)
	assert.Equal(t, models.RolePatient, p.Role)

	age, phone := 41, "555-0100"
	p, err = c.UpdateProfile(ctx, models.ProfileUpdate{Age: &age, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, 41, p.Age)
	assert.Equal(t, "555-0100", p.Phone)
	assert.Equal(t, "Test User", p.Name)

	bad := "nope"
	_, err = c.UpdateProfile(ctx, models.ProfileUpdate{Email: &bad})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}
