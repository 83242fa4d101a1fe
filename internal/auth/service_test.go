package auth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinanalyze/internal/client"
	"skinanalyze/internal/forms"
	"skinanalyze/internal/models"
	"skinanalyze/internal/session"
	"skinanalyze/internal/utils"
)

type fakeAPI struct {
	login    func(ctx context.Context, in models.LoginRequest) (models.LoginResponse, error)
	register func(ctx context.Context, in models.RegisterRequest) (models.User, error)
	logout   func(ctx context.Context) (models.Ack, error)
	calls    []string
}

func (f *fakeAPI) Login(ctx context.Context, in models.LoginRequest) (models.LoginResponse, error) {
	f.calls = append(f.calls, "login")
	return f.login(ctx, in)
}

func (f *fakeAPI) Register(ctx context.Context, in models.RegisterRequest) (models.User, error) {
	f.calls = append(f.calls, "register")
	return f.register(ctx, in)
}

func (f *fakeAPI) Logout(ctx context.Context) (models.Ack, error) {
	f.calls = append(f.calls, "logout")
	if f.logout == nil {
		return models.Ack{}, nil
	}
	return f.logout(ctx)
}

type memStore struct {
	sess    models.Session
	ok      bool
	events  []string
	failSet error
}

func (m *memStore) Set(token string, role models.Role) error {
	if m.failSet != nil {
		return m.failSet
	}
	m.events = append(m.events, "set")
	m.sess, m.ok = models.Session{Token: token, Role: role}, true
	return nil
}

func (m *memStore) Current() (models.Session, bool) { return m.sess, m.ok }

func (m *memStore) Clear() error {
	m.events = append(m.events, "clear")
	m.sess, m.ok = models.Session{}, false
	return nil
}

func loginForm(email, password string, role models.Role) *forms.LoginForm {
	f := forms.NewLoginForm()
	f.Email, f.Password, f.Role = email, password, role
	return f
}

func TestLoginStoresSessionAndLands(t *testing.T) {
	api := &fakeAPI{login: func(ctx context.Context, in models.LoginRequest) (models.LoginResponse, error) {
		assert.Equal(t, models.LoginRequest{Email: "a@b.com", Password: "secret", Role: models.RoleDoctor}, in)
		return models.LoginResponse{Token: "abc123"}, nil
	}}
	store, err := session.Open(t.TempDir())
	require.NoError(t, err)
	svc := NewService(api, store, nil)

	landing, err := svc.Login(context.Background(), loginForm("a@b.com", "secret", models.RoleDoctor))
	require.NoError(t, err)
	assert.Equal(t, "/d-dashboard", landing)

	tok, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "abc123", tok)
	role, ok := store.Role()
	require.True(t, ok)
	assert.Equal(t, models.RoleDoctor, role)

	reopened, err := session.Open(store.Dir())
	require.NoError(t, err)
	sess, ok := reopened.Current()
	require.True(t, ok)
	assert.Equal(t, models.Session{Token: "abc123", Role: models.RoleDoctor}, sess)
}

func TestLoginPatientLanding(t *testing.T) {
	api := &fakeAPI{login: func(ctx context.Context, in models.LoginRequest) (models.LoginResponse, error) {
		return models.LoginResponse{Token: "t", User: &models.User{ID: "u1", Role: models.RolePatient}}, nil
	}}
	store := &memStore{}
	landing, err := NewService(api, store, nil).Login(context.Background(), loginForm("p@x.io", "secret", models.RolePatient))
	require.NoError(t, err)
	assert.Equal(t, "/p-dashboard", landing)
	assert.Equal(t, []string{"set"}, store.events)
}

func TestLoginValidationSkipsNetwork(t *testing.T) {
	api := &fakeAPI{}
	store := &memStore{}
	_, err := NewService(api, store, nil).Login(context.Background(), loginForm("bad", "123", models.RolePatient))
	var fe forms.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Empty(t, api.calls)
	assert.Empty(t, store.events)
}

func TestLoginRejected(t *testing.T) {
	api := &fakeAPI{login: func(ctx context.Context, in models.LoginRequest) (models.LoginResponse, error) {
		return models.LoginResponse{}, &client.HTTPError{StatusCode: http.StatusUnauthorized, Status: "401 Unauthorized"}
	}}
	store := &memStore{}
	landing, err := NewService(api, store, nil).Login(context.Background(), loginForm("a@b.com", "wrong1", models.RolePatient))
	assert.Empty(t, landing)
	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.True(t, client.IsUnauthorized(err))
	assert.False(t, store.ok)
}

func TestLoginSessionWriteFailure(t *testing.T) {
	api := &fakeAPI{login: func(ctx context.Context, in models.LoginRequest) (models.LoginResponse, error) {
		return models.LoginResponse{Token: "t"}, nil
	}}
	store := &memStore{failSet: errors.New("disk full")}
	landing, err := NewService(api, store, nil).Login(context.Background(), loginForm("a@b.com", "secret", models.RolePatient))
	assert.Error(t, err)
	assert.Empty(t, landing)
}

func TestRegister(t *testing.T) {
	api := &fakeAPI{register: func(ctx context.Context, in models.RegisterRequest) (models.User, error) {
		assert.Equal(t, "Ann", in.Name)
		return models.User{ID: "u1", Name: in.Name, Role: in.Role}, nil
	}}
	store := &memStore{}
	f := forms.NewRegisterForm()
	f.Name, f.Email, f.Password, f.ConfirmPassword = "Ann", "ann@x.io", "secret", "secret"

	landing, err := NewService(api, store, nil).Register(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, "/login", landing)
	assert.Empty(t, store.events, "registration does not log in")
}

func TestRegisterMismatchSkipsNetwork(t *testing.T) {
	api := &fakeAPI{}
	f := forms.NewRegisterForm()
	f.Name, f.Email, f.Password, f.ConfirmPassword = "Ann", "ann@x.io", "secret", "other1"

	_, err := NewService(api, &memStore{}, nil).Register(context.Background(), f)
	var fe forms.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "confirmPassword")
	assert.Empty(t, api.calls)
}

func TestRegisterFailure(t *testing.T) {
	api := &fakeAPI{register: func(ctx context.Context, in models.RegisterRequest) (models.User, error) {
		return models.User{}, &client.HTTPError{StatusCode: http.StatusConflict}
	}}
	f := forms.NewRegisterForm()
	f.Name, f.Email, f.Password, f.ConfirmPassword = "Ann", "ann@x.io", "secret", "secret"
	_, err := NewService(api, &memStore{}, nil).Register(context.Background(), f)
	assert.ErrorIs(t, err, ErrRegistrationFailed)
}

func TestLogoutClearsEvenWhenCallFails(t *testing.T) {
	api := &fakeAPI{logout: func(ctx context.Context) (models.Ack, error) {
		return models.Ack{}, &client.TransportError{Method: "POST", Path: "/auth/logout", Err: errors.New("refused")}
	}}
	store := &memStore{sess: models.Session{Token: "t", Role: models.RolePatient}, ok: true}
	svc := NewService(api, store, nil)

	require.NoError(t, svc.Logout(context.Background()))
	assert.Equal(t, []string{"logout"}, api.calls)
	_, ok := svc.Current()
	assert.False(t, ok)

	require.NoError(t, svc.Logout(context.Background()), "idempotent")
	assert.Equal(t, []string{"logout"}, api.calls, "no call without a session")
}

func TestRejectedAttemptsDoNotLogEmail(t *testing.T) {
	var logs bytes.Buffer
	api := &fakeAPI{
		login: func(ctx context.Context, in models.LoginRequest) (models.LoginResponse, error) {
			return models.LoginResponse{}, &client.HTTPError{StatusCode: http.StatusUnauthorized}
		},
		register: func(ctx context.Context, in models.RegisterRequest) (models.User, error) {
			return models.User{}, &client.HTTPError{StatusCode: http.StatusConflict}
		},
	}
	svc := NewService(api, &memStore{}, utils.NewLoggerTo(&logs, slog.LevelDebug))

	_, err := svc.Login(context.Background(), loginForm("ann@example.com", "secret", models.RolePatient))
	require.Error(t, err)
	reg := forms.NewRegisterForm()
	reg.Name, reg.Email, reg.Password, reg.ConfirmPassword = "Ann", "ann@example.com", "secret", "secret"
	_, err = svc.Register(context.Background(), reg)
	require.Error(t, err)

	assert.Contains(t, logs.String(), "login rejected")
	assert.Contains(t, logs.String(), "registration rejected")
	assert.NotContains(t, logs.String(), "ann@example.com")
}
