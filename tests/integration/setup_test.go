package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"santimsentry/internal/handlers"
	"santimsentry/internal/logger"
	"santimsentry/internal/middleware"
	"santimsentry/internal/models"
	"santimsentry/internal/services"
	"santimsentry/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Transaction{},
		&models.Notification{},
		&models.Session{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite. The advisory endpoint points at geminiURL; pass "" for tests that
// never call it.
func setupApp(t *testing.T, geminiURL string) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	profileService := services.NewProfileService(db)
	notificationService := services.NewNotificationService(db)
	transactionService := services.NewTransactionService(db, notificationService)
	summaryService := services.NewSummaryService(db)
	walletService := services.NewWalletService(db, notificationService, 0)
	reportService := services.NewReportService(db)
	advisorService := services.NewAdvisorService(summaryService, geminiURL, "test-key")

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	profileHandler := handlers.NewProfileHandler(profileService, userService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, summaryService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	telebirrHandler := handlers.NewTelebirrHandler(walletService)
	reportHandler := handlers.NewReportHandler(reportService)
	advisorHandler := handlers.NewAdvisorHandler(advisorService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	api.POST("/profile", profileHandler.CreateProfile)
	api.GET("/profile/:username", profileHandler.GetProfile)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(db))

	protected.GET("/auth/me", authHandler.Me)
	protected.PUT("/auth/me", authHandler.UpdateMe)
	protected.DELETE("/auth/me", authHandler.DeleteMe)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/categories", transactionHandler.GetCategories)
	transactions.GET("/summary", transactionHandler.GetSummary)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.PUT("/read-all", notificationHandler.MarkAllRead)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)

	telebirr := protected.Group("/telebirr")
	telebirr.POST("/pay", telebirrHandler.Pay)
	telebirr.POST("/ai/pay", telebirrHandler.PayForInsights)

	protected.GET("/reports/monthly", reportHandler.GetMonthlyReport)
	protected.GET("/ai/insights", advisorHandler.GetInsights)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// guestRequest makes a request authenticated with the guest-id header.
func (app *testApp) guestRequest(method, path, body string, guestID uint) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.GuestIDHeader, fmt.Sprintf("%d", guestID))
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the session token and user ID.
func (app *testApp) registerUser(t *testing.T, name, email, password string) (token string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"email":%q,"password":%q}`, name, email, password)
	rec := app.request("POST", "/api/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}

// seedCategory inserts a category directly; the API has no create endpoint.
func (app *testApp) seedCategory(t *testing.T, name string, categoryType models.CategoryType) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Type: categoryType}
	if err := app.DB.Create(category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return category
}

// creditWallet sets a user's wallet balance directly.
func (app *testApp) creditWallet(t *testing.T, userID uint, balance int64) {
	t.Helper()
	if err := app.DB.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("wallet_balance", balance).Error; err != nil {
		t.Fatalf("failed to credit wallet: %v", err)
	}
}
