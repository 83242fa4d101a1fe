package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinanalyze/internal/crypto"
	"skinanalyze/internal/models"
)

func TestReadOrCreateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.key")

	k1, err := ReadOrCreateKey(path)
	require.NoError(t, err)
	assert.Len(t, k1, crypto.KeySize)

	k2, err := ReadOrCreateKey(path)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWriteHexKey_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.key")
	require.NoError(t, WriteHexKey(path, crypto.MustRandom(crypto.KeySize)))
	assert.Error(t, WriteHexKey(path, crypto.MustRandom(crypto.KeySize)))
}

func TestReadMasterKey_Env(t *testing.T) {
	key := crypto.MustRandom(crypto.KeySize)
	path := filepath.Join(t.TempDir(), "master.key")
	require.NoError(t, WriteHexKey(path, key))

	got, err := ReadMasterKey("SKINANALYZE_TEST_MASTER_KEY", path)
	require.NoError(t, err)
	assert.Equal(t, key, got)

	t.Setenv("SKINANALYZE_TEST_MASTER_KEY", "zz")
	_, err = ReadMasterKey("SKINANALYZE_TEST_MASTER_KEY", path)
	assert.Error(t, err)
}

func TestDB_UsersPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	db, err := Open(path)
	require.NoError(t, err)

	u, err := db.CreateUser(UserRecord{Name: "Ada", Email: "ada@example.com", Role: models.RoleDoctor})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	_, err = db.CreateUser(UserRecord{Name: "Ada 2", Email: "ADA@example.com", Role: models.RolePatient})
	assert.ErrorIs(t, err, ErrDuplicate)

	reopened, err := Open(path)
	require.NoError(t, err)
	got, err := reopened.UserByEmail("ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, models.RoleDoctor, got.Role)

	_, err = reopened.UserByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDB_ReportsFilter(t *testing.T) {
	db, err := Open("")
	require.NoError(t, err)
	require.NoError(t, db.Seed())
	require.NoError(t, db.Seed(), "seeding twice is a no-op")

	all := db.Reports(models.ReportFilter{})
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].ID, "newest first")

	low := db.Reports(models.ReportFilter{Severity: models.SeverityLow})
	require.Len(t, low, 1)
	assert.Equal(t, "2", low[0].ID)

	since := db.Reports(models.ReportFilter{From: time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)})
	require.Len(t, since, 1)
	assert.Equal(t, "1", since[0].ID)

	byPatient := db.Reports(models.ReportFilter{PatientID: "p-2"})
	require.Len(t, byPatient, 1)

	_, err = db.Report("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDB_UpdatePatient(t *testing.T) {
	db, err := Open("")
	require.NoError(t, err)
	require.NoError(t, db.Seed())

	cond := "Eczema"
	p, err := db.UpdatePatient("p-1", models.PatientUpdate{Condition: &cond})
	require.NoError(t, err)
	assert.Equal(t, "Eczema", p.Condition)
	assert.Equal(t, "John Doe", p.Name)

	_, err = db.UpdatePatient("p-9", models.PatientUpdate{Condition: &cond})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDB_Symptoms(t *testing.T) {
	db, err := Open("")
	require.NoError(t, err)
	_, err = db.AddSymptoms("u1", models.SymptomSubmission{Location: "face", Description: "itchy red patches"})
	require.NoError(t, err)
	_, err = db.AddSymptoms("u2", models.SymptomSubmission{Location: "arms"})
	require.NoError(t, err)

	assert.Len(t, db.Symptoms("u1"), 1)
	assert.Len(t, db.Symptoms(""), 2)
}

func TestDB_FailedSaveLeavesStoreUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	db, err := Open(path)
	require.NoError(t, err)
	// a directory at the target path makes every rename fail
	require.NoError(t, os.Mkdir(path, 0700))

	_, err = db.CreateUser(UserRecord{Name: "Ada", Email: "ada@example.com", Role: models.RolePatient})
	require.Error(t, err)
	_, err = db.UserByEmail("ada@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.AddPatient(models.Patient{ID: "p-9", Name: "Ada"})
	require.Error(t, err)
	_, err = db.AddSymptoms("u-1", models.SymptomSubmission{Location: "face"})
	require.Error(t, err)
	assert.True(t, db.Empty())
	assert.Empty(t, db.Symptoms(""))

	require.NoError(t, os.Remove(path))
	_, err = db.CreateUser(UserRecord{Name: "Ada", Email: "ada@example.com", Role: models.RolePatient})
	require.NoError(t, err, "a retry after the disk recovers is not a duplicate")
}

func TestDB_FailedUpdateKeepsOldValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	db, err := Open(path)
	require.NoError(t, err)
	u, err := db.CreateUser(UserRecord{Name: "Ada", Email: "ada@example.com", Role: models.RolePatient})
	require.NoError(t, err)
	_, err = db.AddPatient(models.Patient{ID: "p-1", Name: "Ada"})
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0700))

	_, err = db.UpdateUser(u.ID, func(rec *UserRecord) { rec.Phone = "555" })
	require.Error(t, err)
	got, err := db.UserByID(u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Phone)

	cond := "Eczema"
	_, err = db.UpdatePatient("p-1", models.PatientUpdate{Condition: &cond})
	require.Error(t, err)
	assert.Empty(t, db.Patients()[0].Condition)
}
