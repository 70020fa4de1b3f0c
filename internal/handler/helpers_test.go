package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sakif/rewear/internal/auth"
	"github.com/sakif/rewear/internal/handler"
	"github.com/sakif/rewear/internal/model"
	"github.com/sakif/rewear/internal/repository/sqlite"
	"github.com/sakif/rewear/internal/service"
)

// Handler tests run against the real service and sqlite layers — an
// in-memory database is cheap enough that mocking the service here
// would only test less. Only external collaborators (object storage,
// GitHub) are faked.

type testEnv struct {
	db     *sqlite.DB
	tokens *auth.TokenService

	auths *handler.AuthHandler
	items *handler.ItemHandler
	swaps *handler.SwapHandler
	admin *handler.AdminHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("creating test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("handler-test-secret-0123456789abcdef")
	if err != nil {
		t.Fatalf("creating token service: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(4)
	logger := testEnvLogger()

	authSvc := service.NewAuthService(db.Users, tokens, passwords, logger)
	itemSvc := service.NewItemService(db.Items, logger)
	swapSvc := service.NewSwapService(db.Swaps, db.Items, logger)
	adminSvc := service.NewAdminService(db.Users, db.Items, logger)

	return &testEnv{
		db:     db,
		tokens: tokens,
		auths:  handler.NewAuthHandler(authSvc, nil, logger),
		items:  handler.NewItemHandler(itemSvc, logger),
		swaps:  handler.NewSwapHandler(swapSvc, logger),
		admin:  handler.NewAdminHandler(adminSvc, logger),
	}
}

// signupUser registers an account through the real signup path and
// returns the created user and a valid bearer token.
func (e *testEnv) signupUser(t *testing.T, name, email string) (*model.User, string) {
	t.Helper()

	rr := httptest.NewRecorder()
	req := jsonRequest(t, "POST", "/api/auth/signup", map[string]string{
		"fullname":    name,
		"email":       email,
		"phoneNumber": "5550001",
		"password":    "hunter22",
	})
	e.auths.HandleSignup(rr, req)
	if rr.Code != 201 {
		t.Fatalf("signup failed with status %d: %s", rr.Code, rr.Body.String())
	}

	var env struct {
		Data struct {
			User  model.User `json:"user"`
			Token string     `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding signup response: %v", err)
	}
	return &env.Data.User, env.Data.Token
}

// adminToken mints a token with the admin role claim, the same way one
// would exist for a user whose role column is admin.
func (e *testEnv) adminToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := e.tokens.Generate(userID, model.RoleAdmin)
	if err != nil {
		t.Fatalf("generating admin token: %v", err)
	}
	return token
}

// testEnvLogger returns a logger that only surfaces errors.
func testEnvLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// jsonRequest builds an *http.Request with a JSON body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeEnvelope parses the uniform response body.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) handler.Envelope {
	t.Helper()
	var env handler.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding envelope from %q: %v", rr.Body.String(), err)
	}
	return env
}
