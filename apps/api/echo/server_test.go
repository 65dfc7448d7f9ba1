package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sakshiyadav/vidya/core"
	"github.com/sakshiyadav/vidya/core/auth"
	"github.com/sakshiyadav/vidya/core/fee"
	"github.com/sakshiyadav/vidya/core/user"
	slipsvc "github.com/sakshiyadav/vidya/services/slip"
	inmemdb "github.com/sakshiyadav/vidya/storage/database/inmem"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testConfig() *core.Config {
	return &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "Vidya Coaching",
		SecretKey: []byte("secret"),
		Org: core.OrgConfig{
			Name:            "Vidya Coaching",
			Tagline:         "Excellence in Education - Fee Structure Slip",
			Phone:           "8073465108",
			AddressLine1:    "No.31, 1st Cross, Ananthnagar",
			AddressLine2:    "Electronic City Phase 2, Bangalore - 560100",
			Email:           "info@vidyacoaching.com",
			AcademicSession: "2024-25",
		},
		Server: core.ServerConfig{
			Addr:                      ":8000",
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
		Auth: core.AuthConfig{
			Strategy:       core.AuthStrategyStatic,
			StaticUsername: "sakshiyadav",
			StaticPassword: "syssakshiyada",
		},
	}
}

func setup(t *testing.T) (Server, *fee.Service) {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	conf := testConfig()
	feeSvc := fee.NewService(inmemdb.NewFeeRepository(db), nopLogger{})
	if err = feeSvc.Load(context.Background()); err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	server := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         nopLogger{},
		FeeSvc:         feeSvc,
		Verifier:       auth.NewStatic(conf.Auth.StaticUsername, conf.Auth.StaticPassword),
		SlipRenderer:   slipsvc.NewPDFRenderer(),
		DisableReqLogs: true,
	})
	return server, feeSvc
}

func createFee(t *testing.T, svc *fee.Service, grade fee.Grade, board fee.Board, monthly, lab, lib, sports, misc int) fee.Fee {
	t.Helper()
	f, err := svc.Create(context.Background(), fee.NewFee{
		Grade:      grade,
		Board:      board,
		MonthlyFee: monthly,
		LabFee:     lab,
		LibraryFee: lib,
		SportsFee:  sports,
		MiscFee:    misc,
	})
	if err != nil {
		t.Fatalf("createFee() failed: %v", err)
	}
	return f
}

func adminToken(t *testing.T, conf *core.Config) string {
	t.Helper()
	token, err := GenerateToken(GetIdentityClaims(conf, auth.Identity{
		Name:     "sakshiyadav",
		Username: "sakshiyadav",
		Role:     user.RoleAdmin,
	}))
	if err != nil {
		t.Fatalf("adminToken() failed: %v", err)
	}
	return token
}

func viewerToken(t *testing.T, conf *core.Config) string {
	t.Helper()
	token, err := GenerateToken(GetIdentityClaims(conf, auth.Identity{
		Name:     "Viewer",
		Username: "viewer",
		Role:     user.RoleViewer,
	}))
	if err != nil {
		t.Fatalf("viewerToken() failed: %v", err)
	}
	return token
}

func doRequest(server Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response %q failed: %v", rec.Body.String(), err)
	}
}

func TestServer_home(t *testing.T) {
	server, _ := setup(t)

	rec := doRequest(server, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET / code = %d, want %d", rec.Code, http.StatusOK)
	}
}
