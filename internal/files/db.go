package files

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"skinanalyze/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// UserRecord is an account as stored by the development backend.
type UserRecord struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"password_hash"`
	Role         models.Role `json:"role"`
	Age          int         `json:"age,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	ImageURL     string      `json:"image_url,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	LastLogin    time.Time   `json:"last_login,omitempty"`
}

func (u UserRecord) Profile() models.Profile {
	return models.Profile{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Age:      u.Age,
		Phone:    u.Phone,
		ImageURL: u.ImageURL,
	}
}

func (u UserRecord) Public() models.User {
	return models.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type SymptomRecord struct {
	ID          string                   `json:"id"`
	UserID      string                   `json:"user_id"`
	Submission  models.SymptomSubmission `json:"submission"`
	SubmittedAt time.Time                `json:"submitted_at"`
}

type data struct {
	Users    []UserRecord     `json:"users"`
	Reports  []models.Report  `json:"reports"`
	Patients []models.Patient `json:"patients"`
	Symptoms []SymptomRecord  `json:"symptoms"`
}

// DB is a JSON-file backed store. An empty path keeps everything in memory.
type DB struct {
	path string
	mu   sync.RWMutex
	data data
}

func Open(path string) (*DB, error) {
	db := &DB{path: path}
	if path == "" {
		return db, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return db, nil
		}
		return nil, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&db.data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return db, nil
}

func (v data) clone() data {
	return data{
		Users:    append([]UserRecord(nil), v.Users...),
		Reports:  append([]models.Report(nil), v.Reports...),
		Patients: append([]models.Patient(nil), v.Patients...),
		Symptoms: append([]SymptomRecord(nil), v.Symptoms...),
	}
}

// commit writes next to disk and only then makes it the current state, so a
// failed write leaves the store unchanged. mu must be held for writing.
func (d *DB) commit(next data) error {
	if d.path != "" {
		b, err := json.MarshalIndent(next, "", "  ")
		if err != nil {
			return err
		}
		if err := WriteFileAtomic(d.path, b, 0600); err != nil {
			return fmt.Errorf("save %s: %w", d.path, err)
		}
	}
	d.data = next
	return nil
}

func newID() string { return uuid.NewString() }

func (d *DB) CreateUser(u UserRecord) (UserRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.data.Users {
		if strings.EqualFold(existing.Email, u.Email) {
			return UserRecord{}, fmt.Errorf("user %s: %w", u.Email, ErrDuplicate)
		}
	}
	if u.ID == "" {
		u.ID = newID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	next := d.data.clone()
	next.Users = append(next.Users, u)
	if err := d.commit(next); err != nil {
		return UserRecord{}, err
	}
	return u, nil
}

func (d *DB) UserByEmail(email string) (UserRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.data.Users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return UserRecord{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
}

func (d *DB) UserByID(id string) (UserRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.data.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return UserRecord{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
}

// UpdateUser applies fn to the stored user and persists the result.
func (d *DB) UpdateUser(id string, fn func(*UserRecord)) (UserRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.data.Users {
		if d.data.Users[i].ID == id {
			next := d.data.clone()
			fn(&next.Users[i])
			if err := d.commit(next); err != nil {
				return UserRecord{}, err
			}
			return next.Users[i], nil
		}
	}
	return UserRecord{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
}

// Reports returns matching reports, newest first.
func (d *DB) Reports(f models.ReportFilter) []models.Report {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Report, 0, len(d.data.Reports))
	for _, r := range d.data.Reports {
		if f.PatientID != "" && r.PatientID != f.PatientID {
			continue
		}
		if f.Severity != "" && r.Severity != f.Severity {
			continue
		}
		if !f.From.IsZero() && r.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && r.Date.After(f.To) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (d *DB) Report(id string) (models.Report, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, r := range d.data.Reports {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Report{}, fmt.Errorf("report %s: %w", id, ErrNotFound)
}

func (d *DB) AddReport(r models.Report) (models.Report, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r.ID == "" {
		r.ID = newID()
	}
	if r.Date.IsZero() {
		r.Date = time.Now().UTC()
	}
	next := d.data.clone()
	next.Reports = append(next.Reports, r)
	if err := d.commit(next); err != nil {
		return models.Report{}, err
	}
	return r, nil
}

func (d *DB) Patients() []models.Patient {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Patient, len(d.data.Patients))
	copy(out, d.data.Patients)
	return out
}

func (d *DB) AddPatient(p models.Patient) (models.Patient, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p.ID == "" {
		p.ID = newID()
	}
	next := d.data.clone()
	next.Patients = append(next.Patients, p)
	if err := d.commit(next); err != nil {
		return models.Patient{}, err
	}
	return p, nil
}

func (d *DB) UpdatePatient(id string, u models.PatientUpdate) (models.Patient, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.data.Patients {
		if d.data.Patients[i].ID != id {
			continue
		}
		next := d.data.clone()
		p := &next.Patients[i]
		if u.Name != nil {
			p.Name = *u.Name
		}
		if u.Email != nil {
			p.Email = *u.Email
		}
		if u.Age != nil {
			p.Age = *u.Age
		}
		if u.Condition != nil {
			p.Condition = *u.Condition
		}
		if u.ImageURL != nil {
			p.ImageURL = *u.ImageURL
		}
		if err := d.commit(next); err != nil {
			return models.Patient{}, err
		}
		return *p, nil
	}
	return models.Patient{}, fmt.Errorf("patient %s: %w", id, ErrNotFound)
}

func (d *DB) AddSymptoms(userID string, s models.SymptomSubmission) (SymptomRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec := SymptomRecord{ID: newID(), UserID: userID, Submission: s, SubmittedAt: time.Now().UTC()}
	next := d.data.clone()
	next.Symptoms = append(next.Symptoms, rec)
	if err := d.commit(next); err != nil {
		return SymptomRecord{}, err
	}
	return rec, nil
}

func (d *DB) Symptoms(userID string) []SymptomRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []SymptomRecord
	for _, s := range d.data.Symptoms {
		if userID == "" || s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}

// Empty reports whether the store holds no reports and no patients.
func (d *DB) Empty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.data.Reports) == 0 && len(d.data.Patients) == 0
}
