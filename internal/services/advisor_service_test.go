package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"santimsentry/internal/testutil"
)

func geminiReply(t *testing.T, text string) string {
	t.Helper()
	reply := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
	out, err := json.Marshal(reply)
	if err != nil {
		t.Fatalf("failed to marshal stub reply: %v", err)
	}
	return string(out)
}

func TestGenerateInsights(t *testing.T) {
	t.Run("relays_three_recommendations", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		var gotAPIKey string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAPIKey = r.Header.Get("x-goog-api-key")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(geminiReply(t, `["Cut dining out.", "Automate savings.", "Track every birr."]`)))
		}))
		defer server.Close()

		svc := NewAdvisorService(NewSummaryService(db), server.URL, "test-key")
		insights, err := svc.GenerateInsights(user.ID)
		testutil.AssertNoError(t, err)

		if len(insights) != insightCount {
			t.Fatalf("expected %d insights, got %d", insightCount, len(insights))
		}
		if insights[0] != "Cut dining out." {
			t.Errorf("unexpected first insight %q", insights[0])
		}
		if gotAPIKey != "test-key" {
			t.Errorf("expected api key header, got %q", gotAPIKey)
		}
	})

	t.Run("tolerates_markdown_fences", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(geminiReply(t, "```json\n[\"One.\", \"Two.\", \"Three.\"]\n```")))
		}))
		defer server.Close()

		svc := NewAdvisorService(NewSummaryService(db), server.URL, "test-key")
		insights, err := svc.GenerateInsights(user.ID)
		testutil.AssertNoError(t, err)
		if insights[2] != "Three." {
			t.Errorf("unexpected third insight %q", insights[2])
		}
	})

	t.Run("provider_error_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		svc := NewAdvisorService(NewSummaryService(db), server.URL, "test-key")
		_, err := svc.GenerateInsights(user.ID)
		testutil.AssertAppError(t, err, "ADVISORY_UNAVAILABLE")
	})

	t.Run("unparseable_reply", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(geminiReply(t, "Here are some tips: save more money")))
		}))
		defer server.Close()

		svc := NewAdvisorService(NewSummaryService(db), server.URL, "test-key")
		_, err := svc.GenerateInsights(user.ID)
		testutil.AssertAppError(t, err, "ADVISORY_UNAVAILABLE")
	})

	t.Run("too_few_recommendations", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(geminiReply(t, `["Only one."]`)))
		}))
		defer server.Close()

		svc := NewAdvisorService(NewSummaryService(db), server.URL, "test-key")
		_, err := svc.GenerateInsights(user.ID)
		testutil.AssertAppError(t, err, "ADVISORY_UNAVAILABLE")
	})

	t.Run("unreachable_provider", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		svc := NewAdvisorService(NewSummaryService(db), "http://127.0.0.1:1", "test-key")
		_, err := svc.GenerateInsights(user.ID)
		testutil.AssertAppError(t, err, "ADVISORY_UNAVAILABLE")
	})
}

func TestParseInsights(t *testing.T) {
	t.Run("extras_truncated", func(t *testing.T) {
		insights, err := parseInsights(`["a", "b", "c", "d"]`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(insights) != insightCount {
			t.Errorf("expected %d insights, got %d", insightCount, len(insights))
		}
	})

	t.Run("plain_fence", func(t *testing.T) {
		insights, err := parseInsights("```\n[\"a\", \"b\", \"c\"]\n```")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if insights[0] != "a" {
			t.Errorf("unexpected first insight %q", insights[0])
		}
	})
}
