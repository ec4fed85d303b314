package login_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	"github.com/dalemusser/menucasa/internal/app/features/login"
	invitationstore "github.com/dalemusser/menucasa/internal/app/store/invitations"
	userstore "github.com/dalemusser/menucasa/internal/app/store/users"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/testutil"
)

func newTestHandler(t *testing.T) (*login.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	// Create a session manager for testing (dev mode, weak key allowed)
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	handler := login.NewHandler(db, sessionMgr, errLog, logger)
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func TestHandleRegister_Success(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewJSONRequest("POST", "/auth/register",
		`{"name":"Ana","email":"ana@example.com","password":"secret-pass"}`)
	rec := testutil.NewRecorder()

	handler.HandleRegister(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)

	var resp struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.User.Email != "ana@example.com" {
		t.Errorf("email = %q", resp.User.Email)
	}
	if resp.User.ID == "" {
		t.Error("missing user id")
	}

	// A session cookie should be set.
	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			found = true
		}
	}
	if !found {
		t.Error("expected session cookie to be set")
	}
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Ana", "ana@example.com", "secret-pass")

	req := testutil.NewJSONRequest("POST", "/auth/register",
		`{"name":"Ana Again","email":"ana@example.com","password":"secret-pass"}`)
	rec := testutil.NewRecorder()

	handler.HandleRegister(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusConflict)
}

func TestHandleRegister_ShortPassword(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewJSONRequest("POST", "/auth/register",
		`{"name":"Ana","email":"ana@example.com","password":"tiny"}`)
	rec := testutil.NewRecorder()

	handler.HandleRegister(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleRegister_SixCharPasswordAllowed(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewJSONRequest("POST", "/auth/register",
		`{"name":"Ana","email":"ana@example.com","password":"secret"}`)
	rec := testutil.NewRecorder()

	handler.HandleRegister(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)
}

func TestHandleRegister_ExistingEmailWithToken(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Ana", "ana@example.com", "secret-pass")
	casa := fixtures.CreateCasa(ctx, "Casa Azul", creator.ID)
	luis := fixtures.CreateUser(ctx, "Luis", "luis@example.com", "secret-pass")

	invitations := invitationstore.New(fixtures.DB())
	inv, err := invitations.Create(ctx, "luis@example.com", casa.ID)
	if err != nil {
		t.Fatalf("Create invitation failed: %v", err)
	}

	// Registering an email that already has an account joins the casa
	// when the invitation token checks out, instead of a 409.
	req := testutil.NewJSONRequest("POST", "/auth/register",
		`{"name":"Luis","email":"luis@example.com","password":"secret-pass","invitationToken":"`+inv.Token+`"}`)
	rec := testutil.NewRecorder()

	handler.HandleRegister(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"wasInvited":true`)
	rec.AssertContains(t, casa.ID.Hex())

	reloaded, err := userstore.New(fixtures.DB()).GetByID(ctx, luis.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if reloaded.CasaID == nil || *reloaded.CasaID != casa.ID {
		t.Errorf("CasaID = %v, want %s", reloaded.CasaID, casa.ID.Hex())
	}
	if _, err := invitations.GetValid(ctx, inv.Token); err == nil {
		t.Error("invitation should be spent after joining")
	}
}

func TestHandleRegister_ExistingEmailAlreadyInCasa(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Ana", "ana@example.com", "secret-pass")
	casa := fixtures.CreateCasa(ctx, "Casa Azul", creator.ID)

	luis := fixtures.CreateUser(ctx, "Luis", "luis@example.com", "secret-pass")
	fixtures.CreateCasa(ctx, "Casa Luis", luis.ID)

	invitations := invitationstore.New(fixtures.DB())
	inv, err := invitations.Create(ctx, "luis@example.com", casa.ID)
	if err != nil {
		t.Fatalf("Create invitation failed: %v", err)
	}

	req := testutil.NewJSONRequest("POST", "/auth/register",
		`{"name":"Luis","email":"luis@example.com","password":"secret-pass","invitationToken":"`+inv.Token+`"}`)
	rec := testutil.NewRecorder()

	handler.HandleRegister(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusConflict)
}

func TestHandleLogin_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Ana", "ana@example.com", "secret-pass")

	req := testutil.NewJSONRequest("POST", "/auth/login",
		`{"email":"ana@example.com","password":"secret-pass"}`)
	rec := testutil.NewRecorder()

	handler.HandleLogin(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "ana@example.com")
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Ana", "ana@example.com", "secret-pass")

	req := testutil.NewJSONRequest("POST", "/auth/login",
		`{"email":"ana@example.com","password":"wrong-pass"}`)
	rec := testutil.NewRecorder()

	handler.HandleLogin(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestHandleLogin_UnknownEmail(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewJSONRequest("POST", "/auth/login",
		`{"email":"nobody@example.com","password":"whatever-pass"}`)
	rec := testutil.NewRecorder()

	handler.HandleLogin(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestHandleLogin_GoogleOnlyAccount(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Empty password = Google-only account.
	fixtures.CreateUser(ctx, "Ana", "ana@example.com", "")

	req := testutil.NewJSONRequest("POST", "/auth/login",
		`{"email":"ana@example.com","password":"anything-here"}`)
	rec := testutil.NewRecorder()

	handler.HandleLogin(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusUnauthorized)

	// Same message as a wrong password; the response must not reveal
	// that the account exists or how it signs in.
	rec.AssertContains(t, "invalid email or password")
}

func TestHandleAssociate_JoinsCasa(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Ana", "ana@example.com", "secret-pass")
	casa := fixtures.CreateCasa(ctx, "Casa Azul", creator.ID)
	luis := fixtures.CreateUser(ctx, "Luis", "luis@example.com", "secret-pass")

	inv, err := invitationstore.New(fixtures.DB()).Create(ctx, "luis@example.com", casa.ID)
	if err != nil {
		t.Fatalf("Create invitation failed: %v", err)
	}

	req := testutil.NewJSONRequest("POST", "/auth/associate", `{"token":"`+inv.Token+`"}`)
	req = testutil.WithUser(req, testutil.AsTestUser(luis.ID, luis.Name, luis.Email, nil))
	rec := testutil.NewRecorder()

	handler.HandleAssociate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, casa.ID.Hex())
}

func TestHandleAssociate_AlreadyInCasa(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Ana", "ana@example.com", "secret-pass")
	casa := fixtures.CreateCasa(ctx, "Casa Azul", creator.ID)

	luis := fixtures.CreateUser(ctx, "Luis", "luis@example.com", "secret-pass")
	home := fixtures.CreateCasa(ctx, "Casa Luis", luis.ID)

	inv, err := invitationstore.New(fixtures.DB()).Create(ctx, "luis@example.com", casa.ID)
	if err != nil {
		t.Fatalf("Create invitation failed: %v", err)
	}

	req := testutil.NewJSONRequest("POST", "/auth/associate", `{"token":"`+inv.Token+`"}`)
	req = testutil.WithUser(req, testutil.AsTestUser(luis.ID, luis.Name, luis.Email, &home.ID))
	rec := testutil.NewRecorder()

	handler.HandleAssociate(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusConflict)

	// The single-use token survives the rejected attempt.
	if _, err := invitationstore.New(fixtures.DB()).GetValid(ctx, inv.Token); err != nil {
		t.Errorf("GetValid = %v, want live invitation", err)
	}

	reloaded, err := userstore.New(fixtures.DB()).GetByID(ctx, luis.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if reloaded.CasaID == nil || *reloaded.CasaID != home.ID {
		t.Errorf("CasaID = %v, want unchanged %s", reloaded.CasaID, home.ID.Hex())
	}
}

func TestHandleSession_SignedIn(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Ana", "ana@example.com", "secret-pass")

	req := testutil.NewAuthenticatedRequest("GET", "/auth/session",
		testutil.AsTestUser(u.ID, u.Name, u.Email, nil))
	rec := testutil.NewRecorder()

	handler.HandleSession(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "ana@example.com")
}

func TestHandleSession_RefreshesCasa(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Ana", "ana@example.com", "secret-pass")
	casa := fixtures.CreateCasa(ctx, "Casa Azul", u.ID)

	// Session still carries no casa; the handler should pick up the
	// fresh assignment from the database.
	req := testutil.NewAuthenticatedRequest("GET", "/auth/session",
		testutil.AsTestUser(u.ID, u.Name, u.Email, nil))
	rec := testutil.NewRecorder()

	handler.HandleSession(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, casa.ID.Hex())
}

func TestHandleSession_NotSignedIn(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewRequest("GET", "/auth/session")
	rec := testutil.NewRecorder()

	handler.HandleSession(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
}
