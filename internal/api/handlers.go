package api

import (
	"crypto/sha256"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"skinanalyze/internal/files"
	"skinanalyze/internal/forms"
	"skinanalyze/internal/models"
)

var skinTypes = []string{"Normal", "Dry", "Oily", "Combination", "Sensitive"}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid login request")
		return
	}
	u, err := s.db.UserByEmail(strings.TrimSpace(req.Email))
	if err != nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, CodeInvalidLogin, "Invalid email or password")
		return
	}
	if req.Role.Valid() && req.Role != u.Role {
		writeError(w, http.StatusUnauthorized, CodeInvalidLogin, "Account is not registered as a "+req.Role.String())
		return
	}
	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		s.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, CodeInternal, "Could not sign in")
		return
	}
	if _, err := s.db.UpdateUser(u.ID, func(rec *files.UserRecord) { rec.LastLogin = time.Now().UTC() }); err != nil {
		s.logger.Warn("record last login", "user_id", u.ID, "error", err)
	}
	pub := u.Public()
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token, User: &pub})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid registration request")
		return
	}
	req.Name, req.Email = strings.TrimSpace(req.Name), strings.TrimSpace(req.Email)
	if err := forms.Check(&req, requestMessages); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "Could not create account")
		return
	}
	u, err := s.db.CreateUser(files.UserRecord{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	})
	if errors.Is(err, files.ErrDuplicate) {
		writeError(w, http.StatusConflict, CodeConflict, "An account with this email already exists")
		return
	}
	if err != nil {
		s.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, CodeInternal, "Could not create account")
		return
	}
	if u.Role == models.RolePatient {
		if _, err := s.db.AddPatient(models.Patient{ID: u.ID, Name: u.Name, Email: u.Email}); err != nil {
			s.logger.Warn("add patient roster entry", "user_id", u.ID, "error", err)
		}
	}
	writeJSON(w, http.StatusCreated, u.Public())
}

var requestMessages = forms.Messages{
	"name":        "Name must be at least 2 characters",
	"email":       "Invalid email address",
	"password":    "Password must be at least 6 characters",
	"role":        "Role must be patient or doctor",
	"description": "description must be at least 10 characters",
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.tokens.Revoke(claimsFrom(r.Context()))
	writeJSON(w, http.StatusOK, models.Ack{Status: "ok", Message: "Logged out"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+(1<<20))
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeError(w, http.StatusBadRequest, CodeUploadRejected, "Expected a multipart form with an image")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, hdr, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeUploadRejected, "Missing image")
		return
	}
	defer file.Close()
	if !strings.HasPrefix(hdr.Header.Get("Content-Type"), "image/") {
		writeError(w, http.StatusBadRequest, CodeUploadRejected, "Please upload an image file")
		return
	}
	if hdr.Size >= s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, CodeUploadRejected, "Image is too large")
		return
	}
	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		writeError(w, http.StatusBadRequest, CodeUploadRejected, "Could not read image")
		return
	}
	sum := h.Sum(nil)

	rep := models.Report{
		Date:            time.Now().UTC(),
		SkinType:        skinTypes[int(sum[0])%len(skinTypes)],
		Issues:          files.SampleIssues,
		Recommendations: files.SampleRecommendations,
		PatientID:       claims.Subject,
		Condition:       files.SampleIssues[0].Type,
		Severity:        models.SeverityLow,
		Notes:           strings.TrimSpace(r.FormValue("description")),
	}
	if u, err := s.db.UserByID(claims.Subject); err == nil {
		rep.PatientName = u.Name
	}
	rep, err = s.db.AddReport(rep)
	if err != nil {
		s.logger.Error("store report", "error", err)
		writeError(w, http.StatusInternalServerError, CodeInternal, "Could not store analysis")
		return
	}
	writeJSON(w, http.StatusOK, models.AnalysisResult{
		ID:              rep.ID,
		SkinType:        rep.SkinType,
		Issues:          rep.Issues,
		Recommendations: rep.Recommendations,
		ImageURL:        rep.ImageURL,
	})
}

func (s *Server) handleSymptoms(w http.ResponseWriter, r *http.Request) {
	var sub models.SymptomSubmission
	if err := decodeJSON(w, r, &sub); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid symptom submission")
		return
	}
	if err := forms.Check(&sub, requestMessages); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	rec, err := s.db.AddSymptoms(claimsFrom(r.Context()).Subject, sub)
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "Could not record symptoms")
		return
	}
	writeJSON(w, http.StatusCreated, models.Ack{Status: "ok", Message: "Symptoms recorded " + rec.ID})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	f, err := parseReportFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if claims.Role == models.RolePatient {
		f.PatientID = claims.Subject
	}
	writeJSON(w, http.StatusOK, s.db.Reports(f))
}

func parseReportFilter(r *http.Request) (models.ReportFilter, error) {
	q := r.URL.Query()
	f := models.ReportFilter{PatientID: q.Get("patientId")}
	if v := q.Get("severity"); v != "" {
		sev, err := models.ParseSeverity(v)
		if err != nil {
			return f, err
		}
		f.Severity = sev
	}
	for key, dst := range map[string]*time.Time{"from": &f.From, "to": &f.To} {
		if v := q.Get(key); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return f, errors.New(key + " must be an RFC 3339 timestamp")
			}
			*dst = t
		}
	}
	return f, nil
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	rep, err := s.db.Report(mux.Vars(r)["id"])
	// Patients cannot tell other people's reports from missing ones.
	if err != nil || (claims.Role == models.RolePatient && rep.PatientID != claims.Subject) {
		writeError(w, http.StatusNotFound, CodeNotFound, "Report not found")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleListPatients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.db.Patients())
}

func (s *Server) handleUpdatePatient(w http.ResponseWriter, r *http.Request) {
	var upd models.PatientUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid patient update")
		return
	}
	p, err := s.db.UpdatePatient(mux.Vars(r)["id"], upd)
	if errors.Is(err, files.ErrNotFound) {
		writeError(w, http.StatusNotFound, CodeNotFound, "Patient not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "Could not update patient")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.db.UserByID(claimsFrom(r.Context()).Subject)
	if err != nil {
		writeError(w, http.StatusNotFound, CodeNotFound, "Profile not found")
		return
	}
	writeJSON(w, http.StatusOK, u.Profile())
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd models.ProfileUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid profile update")
		return
	}
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		upd.Email = &email
	}
	if err := forms.Check(&upd, requestMessages); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	u, err := s.db.UpdateUser(claimsFrom(r.Context()).Subject, func(rec *files.UserRecord) {
		if upd.Name != nil {
			rec.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Email != nil {
			rec.Email = strings.TrimSpace(*upd.Email)
		}
		if upd.Age != nil {
			rec.Age = *upd.Age
		}
		if upd.Phone != nil {
			rec.Phone = *upd.Phone
		}
		if upd.ImageURL != nil {
			rec.ImageURL = *upd.ImageURL
		}
	})
	if errors.Is(err, files.ErrNotFound) {
		writeError(w, http.StatusNotFound, CodeNotFound, "Profile not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "Could not update profile")
		return
	}
	writeJSON(w, http.StatusOK, u.Profile())
}
