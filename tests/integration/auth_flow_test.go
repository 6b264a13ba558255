package integration

import (
	"net/http"
	"testing"
)

func TestAuthFlow_RegisterLoginMe(t *testing.T) {
	app := setupApp(t, "")

	token, userID := app.registerUser(t, "Abebe", "abebe@test.com", "password123")
	if token == "" {
		t.Fatal("expected non-empty token from registration")
	}
	if userID == 0 {
		t.Fatal("expected non-zero user ID")
	}

	rec := app.request("POST", "/api/auth/login",
		`{"email":"abebe@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	loginToken := parseJSON(t, rec)["token"].(string)

	rec = app.request("GET", "/api/auth/me", "", loginToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	me := parseJSON(t, rec)
	if me["email"] != "abebe@test.com" {
		t.Errorf("expected email abebe@test.com, got %v", me["email"])
	}
	if _, leaked := me["password_hash"]; leaked {
		t.Error("password hash must never appear in responses")
	}
}

func TestAuthFlow_RegisterDuplicateEmail(t *testing.T) {
	app := setupApp(t, "")

	app.registerUser(t, "Abebe", "dup@test.com", "password123")

	rec := app.request("POST", "/api/auth/register",
		`{"name":"Other","email":"dup@test.com","password":"password456"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "DUPLICATE_EMAIL" {
		t.Errorf("expected DUPLICATE_EMAIL, got %v", errObj["code"])
	}
}

func TestAuthFlow_LoginWrongPassword(t *testing.T) {
	app := setupApp(t, "")

	app.registerUser(t, "Abebe", "wrong@test.com", "password123")

	rec := app.request("POST", "/api/auth/login",
		`{"email":"wrong@test.com","password":"wrongpassword"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "INVALID_CREDENTIALS" {
		t.Errorf("expected INVALID_CREDENTIALS, got %v", errObj["code"])
	}
}

func TestAuthFlow_UpdateProfile(t *testing.T) {
	app := setupApp(t, "")

	token, _ := app.registerUser(t, "Abebe", "update@test.com", "password123")

	rec := app.request("PUT", "/api/auth/me", `{"name":"Abebe Kebede"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["name"] != "Abebe Kebede" {
		t.Errorf("expected updated name, got %v", parseJSON(t, rec)["name"])
	}

	// New password works, old one is refused.
	rec = app.request("PUT", "/api/auth/me", `{"password":"newpass456"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("password update failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("POST", "/api/auth/login",
		`{"email":"update@test.com","password":"newpass456"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login with new password failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("POST", "/api/auth/login",
		`{"email":"update@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected old password to be refused, got %d", rec.Code)
	}
}

func TestAuthFlow_DeleteAccount(t *testing.T) {
	app := setupApp(t, "")

	token, _ := app.registerUser(t, "Abebe", "delete@test.com", "password123")

	rec := app.request("DELETE", "/api/auth/me", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete failed: %d %s", rec.Code, rec.Body.String())
	}

	// The token structurally still parses but the row is gone.
	rec = app.request("GET", "/api/auth/me", "", token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after account deletion, got %d", rec.Code)
	}
}

func TestAuthFlow_ProtectedWithoutToken(t *testing.T) {
	app := setupApp(t, "")

	rec := app.request("GET", "/api/transactions", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
