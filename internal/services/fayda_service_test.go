package services

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"santimsentry/internal/config"
	"santimsentry/internal/middleware"
	"santimsentry/internal/models"
	"santimsentry/internal/testutil"
)

func testRSAKeyPEM(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	return string(pem.EncodeToMemory(block))
}

func faydaTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := *config.Get()
	cfg.FaydaClientID = "test-client"
	cfg.FaydaPrivateKey = testRSAKeyPEM(t)
	cfg.FaydaRedirectURI = "http://localhost:8080/callback"
	return &cfg
}

func TestAuthorizeURL(t *testing.T) {
	t.Run("carries_oidc_parameters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		cfg := faydaTestConfig(t)
		svc := NewFaydaService(db, NewUserService(db), cfg)

		raw, err := svc.AuthorizeURL()
		testutil.AssertNoError(t, err)

		parsed, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("unparseable authorize URL: %v", err)
		}
		q := parsed.Query()
		if q.Get("client_id") != "test-client" {
			t.Errorf("expected client_id test-client, got %q", q.Get("client_id"))
		}
		if q.Get("response_type") != "code" {
			t.Errorf("expected response_type code, got %q", q.Get("response_type"))
		}
		if q.Get("state") == "" || q.Get("nonce") == "" {
			t.Error("expected fresh state and nonce")
		}
	})

	t.Run("fresh_state_per_call", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFaydaService(db, NewUserService(db), faydaTestConfig(t))

		first, err := svc.AuthorizeURL()
		testutil.AssertNoError(t, err)
		second, err := svc.AuthorizeURL()
		testutil.AssertNoError(t, err)
		if first == second {
			t.Error("expected distinct state/nonce per call")
		}
	})

	t.Run("unconfigured", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		cfg := faydaTestConfig(t)
		cfg.FaydaClientID = ""
		svc := NewFaydaService(db, NewUserService(db), cfg)

		_, err := svc.AuthorizeURL()
		testutil.AssertAppError(t, err, "INTERNAL_ERROR")
	})
}

func TestHandleCallback(t *testing.T) {
	newProvider := func(t *testing.T, userinfoBody string) *httptest.Server {
		t.Helper()
		mux := http.NewServeMux()
		mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Errorf("bad token form: %v", err)
			}
			if r.PostForm.Get("client_assertion") == "" {
				t.Error("expected a client assertion")
			}
			if r.PostForm.Get("grant_type") != "authorization_code" {
				t.Errorf("unexpected grant_type %q", r.PostForm.Get("grant_type"))
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"provider-token"}`))
		})
		mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer provider-token" {
				t.Errorf("unexpected userinfo auth header %q", r.Header.Get("Authorization"))
			}
			w.Write([]byte(userinfoBody))
		})
		return httptest.NewServer(mux)
	}

	t.Run("creates_user_and_issues_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		server := newProvider(t, `{"sub":"FIN-123","email":"Selam@Example.com","name":"Selam T"}`)
		defer server.Close()

		cfg := faydaTestConfig(t)
		cfg.FaydaTokenURL = server.URL + "/token"
		cfg.FaydaUserinfoURL = server.URL + "/userinfo"
		svc := NewFaydaService(db, NewUserService(db), cfg)

		token, err := svc.HandleCallback("auth-code")
		testutil.AssertNoError(t, err)

		claims, err := middleware.ParseToken(token)
		testutil.AssertNoError(t, err)

		var user models.User
		testutil.AssertNoError(t, db.First(&user, claims.UserID).Error)
		if user.Email != "selam@example.com" {
			t.Errorf("expected lowered email, got %q", user.Email)
		}
		if user.FaydaID == nil || *user.FaydaID != "FIN-123" {
			t.Errorf("expected fayda id FIN-123, got %v", user.FaydaID)
		}
		if user.PasswordHash != nil {
			t.Error("fayda-created users must be passwordless")
		}
	})

	t.Run("backfills_fayda_id_on_email_match", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		existing := testutil.CreateTestUserWithEmail(t, db, "selam@example.com")

		server := newProvider(t, `{"sub":"FIN-456","email":"selam@example.com","name":"Selam T"}`)
		defer server.Close()

		cfg := faydaTestConfig(t)
		cfg.FaydaTokenURL = server.URL + "/token"
		cfg.FaydaUserinfoURL = server.URL + "/userinfo"
		svc := NewFaydaService(db, NewUserService(db), cfg)

		token, err := svc.HandleCallback("auth-code")
		testutil.AssertNoError(t, err)

		claims, err := middleware.ParseToken(token)
		testutil.AssertNoError(t, err)
		if claims.UserID != existing.ID {
			t.Errorf("expected existing user %d, got %d", existing.ID, claims.UserID)
		}

		var user models.User
		testutil.AssertNoError(t, db.First(&user, existing.ID).Error)
		if user.FaydaID == nil || *user.FaydaID != "FIN-456" {
			t.Errorf("expected backfilled fayda id, got %v", user.FaydaID)
		}
	})

	t.Run("synthesizes_email_from_sub", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		server := newProvider(t, `{"sub":"FIN-789","name":"No Email"}`)
		defer server.Close()

		cfg := faydaTestConfig(t)
		cfg.FaydaTokenURL = server.URL + "/token"
		cfg.FaydaUserinfoURL = server.URL + "/userinfo"
		svc := NewFaydaService(db, NewUserService(db), cfg)

		token, err := svc.HandleCallback("auth-code")
		testutil.AssertNoError(t, err)

		claims, err := middleware.ParseToken(token)
		testutil.AssertNoError(t, err)
		var user models.User
		testutil.AssertNoError(t, db.First(&user, claims.UserID).Error)
		if !strings.HasSuffix(user.Email, "@fayda.et") {
			t.Errorf("expected synthesized fayda email, got %q", user.Email)
		}
	})

	t.Run("missing_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFaydaService(db, NewUserService(db), faydaTestConfig(t))

		_, err := svc.HandleCallback("")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("provider_refuses_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":"invalid_grant"}`))
		}))
		defer server.Close()

		cfg := faydaTestConfig(t)
		cfg.FaydaTokenURL = server.URL
		svc := NewFaydaService(db, NewUserService(db), cfg)

		_, err := svc.HandleCallback("bad-code")
		testutil.AssertAppError(t, err, "INTERNAL_ERROR")
	})

	t.Run("repeat_login_reuses_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		server := newProvider(t, `{"sub":"FIN-123","email":"selam@example.com","name":"Selam T"}`)
		defer server.Close()

		cfg := faydaTestConfig(t)
		cfg.FaydaTokenURL = server.URL + "/token"
		cfg.FaydaUserinfoURL = server.URL + "/userinfo"
		svc := NewFaydaService(db, NewUserService(db), cfg)

		_, err := svc.HandleCallback("auth-code")
		testutil.AssertNoError(t, err)
		_, err = svc.HandleCallback("auth-code")
		testutil.AssertNoError(t, err)

		var count int64
		testutil.AssertNoError(t, db.Model(&models.User{}).
			Where("fayda_id = ?", "FIN-123").Count(&count).Error)
		if count != 1 {
			t.Errorf("expected a single user row, got %d", count)
		}
	})
}
