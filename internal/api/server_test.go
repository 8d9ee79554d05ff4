package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortiurbani/orti-api/internal/cache"
	"github.com/ortiurbani/orti-api/internal/config"
	"github.com/ortiurbani/orti-api/internal/db"
	"github.com/ortiurbani/orti-api/internal/repository"
	"github.com/ortiurbani/orti-api/internal/repository/dao"
	"github.com/ortiurbani/orti-api/internal/service"
)

const (
	testUserAgent = "orti-test"
	adminEmail    = "admin@comune.example"
	adminPassword = "Admin#2024"
)

type testAPI struct {
	t      *testing.T
	server *Server
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:   "test",
			BaseURL:       "localhost:8080",
			JWTSigningKey: "test-signing-key",
			TokenTTL:      time.Hour,
		},
		Gin:      &config.GinConfig{Mode: "test"},
		Database: &config.DatabaseConfig{Driver: "sqlite"},
		SQLite:   &config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "api.db")},
		Bootstrap: &config.BootstrapConfig{
			Municipality:  "Torino",
			Province:      "TO",
			Region:        "Piemonte",
			AdminEmail:    adminEmail,
			AdminPassword: adminPassword,
			AdminName:     "Admin",
		},
	}

	gormDB, err := db.Open(conf, "")
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, service.Bootstrap(context.Background(), conf.Bootstrap,
		repository.NewUserRepository(dao.NewUserDAO(gormDB)),
		repository.NewMunicipalityRepository(dao.NewMunicipalityDAO(gormDB)),
	))

	s := NewServer(conf, gormDB, cache.Noop{})
	ctx, cancel := context.WithCancel(context.Background())
	go s.Feed.Run(ctx)
	t.Cleanup(cancel)

	return &testAPI{t: t, server: s}
}

// do sends body as JSON and decodes the response into out when out is set.
func (a *testAPI) do(method, path, token string, body any, out any) int {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", testUserAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.server.Router.ServeHTTP(w, req)

	if out != nil && w.Code < http.StatusBadRequest {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}

	return w.Code
}

func (a *testAPI) login(email, password string) string {
	a.t.Helper()

	var resp struct {
		Token string `json:"token"`
	}
	code := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password}, &resp)
	require.Equal(a.t, http.StatusOK, code)

	return resp.Token
}

type idResponse struct {
	ID uint `json:"id"`
}

func (a *testAPI) signup(email string) (uint, string) {
	a.t.Helper()

	var user idResponse
	code := a.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":            email,
		"password":         "Secret#123",
		"confirm_password": "Secret#123",
		"nome":             "Test User",
	}, &user)
	require.Equal(a.t, http.StatusCreated, code)

	return user.ID, a.login(email, "Secret#123")
}

func (a *testAPI) create(path, token string, body any) uint {
	a.t.Helper()

	var created idResponse
	code := a.do(http.MethodPost, path, token, body, &created)
	require.Equal(a.t, http.StatusCreated, code, path)
	require.NotZero(a.t, created.ID)

	return created.ID
}

func TestHealthcheck(t *testing.T) {
	a := newTestAPI(t)

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/", "", nil, nil))
}

func TestAuthorizationGate(t *testing.T) {
	a := newTestAPI(t)
	_, citizen := a.signup("cittadino@example.com")
	admin := a.login(adminEmail, adminPassword)

	tests := []struct {
		name           string
		method         string
		path           string
		token          string
		body           any
		expectedStatus int
	}{
		{"no token", http.MethodGet, "/api/v1/orti", "", nil, http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/v1/orti", "not-a-jwt", nil, http.StatusUnauthorized},
		{"any principal may read", http.MethodGet, "/api/v1/orti", citizen, nil, http.StatusOK},
		{"citizen cannot create gardens", http.MethodPost, "/api/v1/orti", citizen, map[string]any{"nome": "Orto", "comune_id": 1}, http.StatusForbidden},
		{"citizen cannot list users", http.MethodGet, "/api/v1/utenti", citizen, nil, http.StatusForbidden},
		{"admin lists users", http.MethodGet, "/api/v1/utenti", admin, nil, http.StatusOK},
		{"admin cannot request plots", http.MethodPost, "/api/v1/affidaLotti", admin, map[string]any{"lotto_id": 1}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, a.do(tt.method, tt.path, tt.token, tt.body, nil))
		})
	}
}

func TestDeleteAssociation(t *testing.T) {
	a := newTestAPI(t)
	admin := a.login(adminEmail, adminPassword)
	_, requester := a.signup("richiedente@example.com")
	memberID, member := a.signup("socio@example.com")

	var municipalities []idResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/v1/comuni", admin, nil, &municipalities))
	require.Len(t, municipalities, 1)
	municipalityID := municipalities[0].ID

	associationID := a.create("/api/v1/associazioni", admin, map[string]any{"nome": "Verde Comune", "comune_id": municipalityID})
	gardenID := a.create("/api/v1/orti", admin, map[string]any{"nome": "Orto Dora", "comune_id": municipalityID})
	plotID := a.create(fmt.Sprintf("/api/v1/orti/%d/lotti", gardenID), admin, map[string]any{"numero": 1, "superficie": 20})
	a.create("/api/v1/affidaOrti", admin, map[string]any{
		"orto_id":         gardenID,
		"associazione_id": associationID,
		"inizio":          "2024-01-01",
		"fine":            "2026-12-31",
	})

	code := a.do(http.MethodPost, fmt.Sprintf("/api/v1/associazioni/%d/membri", associationID), admin, map[string]any{"utente_id": memberID}, nil)
	require.Equal(t, http.StatusOK, code)
	a.create("/api/v1/affidaLotti", requester, map[string]any{"lotto_id": plotID, "colture": []string{"basilico"}})

	// The new member is authorized as such on the very next request.
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/v1/affidaLotti", member, nil, nil))

	var deletion struct {
		Message                  string `json:"message"`
		AssociationID            uint   `json:"associazione_id"`
		MembersDowngraded        int64  `json:"membri_aggiornati"`
		GardensReleased          int    `json:"orti_liberati"`
		PlotAssignmentsRemoved   int64  `json:"affidamenti_lotti_rimossi"`
		GardenAssignmentsRemoved int64  `json:"affidamenti_orti_rimossi"`
	}
	code = a.do(http.MethodDelete, fmt.Sprintf("/api/v1/associazioni/%d", associationID), admin, nil, &deletion)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, associationID, deletion.AssociationID)
	assert.Equal(t, int64(1), deletion.MembersDowngraded)
	assert.Equal(t, 1, deletion.GardensReleased)
	assert.Equal(t, int64(1), deletion.PlotAssignmentsRemoved)
	assert.Equal(t, int64(1), deletion.GardenAssignmentsRemoved)
	assert.NotEmpty(t, deletion.Message)

	// Former members are citizens again, gardens and plots survive.
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/api/v1/affidaLotti", member, nil, nil))
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, fmt.Sprintf("/api/v1/orti/%d", gardenID), admin, nil, nil))
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, fmt.Sprintf("/api/v1/lotti/%d", plotID), admin, nil, nil))

	var mine []idResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/v1/affidaLotti/miei", requester, nil, &mine))
	assert.Empty(t, mine)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, fmt.Sprintf("/api/v1/associazioni/%d", associationID), admin, nil, nil))
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/api/v1/associazioni/9999", admin, nil, nil))
}

func TestPlotAssignmentLifecycle(t *testing.T) {
	a := newTestAPI(t)
	admin := a.login(adminEmail, adminPassword)
	_, first := a.signup("primo@example.com")
	_, second := a.signup("secondo@example.com")

	gardenID := a.create("/api/v1/orti", admin, map[string]any{"nome": "Orto Po", "comune_id": 1})
	plotID := a.create(fmt.Sprintf("/api/v1/orti/%d/lotti", gardenID), admin, map[string]any{"numero": 4})

	firstID := a.create("/api/v1/affidaLotti", first, map[string]any{"lotto_id": plotID})
	secondID := a.create("/api/v1/affidaLotti", second, map[string]any{"lotto_id": plotID})

	manage := func(id uint, action string, out any) int {
		return a.do(http.MethodPut, fmt.Sprintf("/api/v1/affidaLotti/%d/gestisci", id), admin, map[string]string{"azione": action}, out)
	}

	var accepted struct {
		Status string     `json:"stato"`
		Start  *time.Time `json:"inizio"`
		End    *time.Time `json:"fine"`
	}
	require.Equal(t, http.StatusOK, manage(firstID, "accetta", &accepted))
	assert.Equal(t, "accettato", accepted.Status)
	require.NotNil(t, accepted.Start)
	require.NotNil(t, accepted.End)
	assert.True(t, accepted.Start.AddDate(1, 0, 0).Equal(*accepted.End))

	assert.Equal(t, http.StatusBadRequest, manage(firstID, "rifiuta", nil), "decided assignments are final")
	assert.Equal(t, http.StatusBadRequest, manage(secondID, "accetta", nil), "plot already taken")
	assert.Equal(t, http.StatusBadRequest, manage(secondID, "sospendi", nil))
	assert.Equal(t, http.StatusOK, manage(secondID, "rifiuta", nil))
	assert.Equal(t, http.StatusNotFound, manage(9999, "accetta", nil))

	var pending []idResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/v1/affidaLotti?stato=in_attesa", admin, nil, &pending))
	assert.Empty(t, pending)
}
