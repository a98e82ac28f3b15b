package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"checkmovil-api/internal/adapters/http/middleware"
	"checkmovil-api/internal/adapters/persistence/models"
	"checkmovil-api/internal/adapters/persistence/repositories"
	"checkmovil-api/internal/adapters/storage"
	"checkmovil-api/internal/config"
	"checkmovil-api/internal/core/domain"
	"checkmovil-api/internal/core/services"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestApp wires the real handlers and middleware against an in-memory
// database. The rate limiters stay out so scenarios can make as many calls
// as they need.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		AppMode: "dev",
		JWT:     config.JWTConfig{Secret: "test-secret", AccessTokenMins: 60},
		Upload:  config.UploadConfig{Dir: "uploads", MaxSizeBytes: 10 * 1024 * 1024},
	}

	userRepo := repositories.NewUserRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)

	authService := services.NewAuthService(userRepo, cfg)
	paymentService := services.NewPaymentService(paymentRepo, files)
	userService := services.NewUserService(userRepo)

	authHandler := NewAuthHandler(authService)
	paymentHandler := NewPaymentHandler(paymentService, cfg)
	userHandler := NewUserHandler(userService)

	app := fiber.New()
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/verify", middleware.AuthMiddleware(authService), authHandler.Verify)

	payments := api.Group("/payments", middleware.AuthMiddleware(authService), middleware.CashierOrAbove())
	payments.Post("/upload", paymentHandler.Upload)
	payments.Get("/", paymentHandler.List)
	payments.Get("/:id", paymentHandler.Get)
	payments.Delete("/:id", paymentHandler.Delete)
	payments.Patch("/:id/status", middleware.SupervisorOrAbove(), paymentHandler.UpdateStatus)

	users := api.Group("/users", middleware.AuthMiddleware(authService), middleware.SuperuserOnly())
	users.Get("/", userHandler.List)
	users.Patch("/:id", userHandler.Update)

	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	return sendRequest(t, app, req)
}

func sendRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body))
	}

	return resp, body
}

func register(t *testing.T, app *fiber.App, username, password, pin string) (*http.Response, map[string]interface{}) {
	t.Helper()
	return postJSON(t, app, "/api/v1/auth/register", fiber.Map{
		"username": username,
		"password": password,
		"pin":      pin,
	})
}

func login(t *testing.T, app *fiber.App, username, password string) (*http.Response, map[string]interface{}) {
	t.Helper()
	return postJSON(t, app, "/api/v1/auth/login", fiber.Map{
		"username": username,
		"password": password,
	})
}

func loginToken(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	resp, body := login(t, app, username, password)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	token, ok := data["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	return token
}

func TestRegisterLoginVerifyFlow(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	// 1. New cashier
	resp, body := register(t, app, "cajero1", "123456", domain.PinCashier)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, domain.RoleCashier, data["role"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "pin")

	// 2. Same username again
	resp, body = register(t, app, "cajero1", "654321", domain.PinCashier)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	// 3. First superuser claims the slot
	resp, body = register(t, app, "admin1", "123456", domain.PinSuperuser)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, domain.RoleSuperuser, data["role"])

	// 4. Second superuser attempt is refused
	resp, body = register(t, app, "admin2", "123456", domain.PinSuperuser)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body["message"], "superuser")

	// 5. Login as the cashier
	token := loginToken(t, app, "cajero1", "123456")

	// 6. The token resolves back to the account
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, body = sendRequest(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, "cajero1", data["username"])
	assert.Equal(t, domain.RoleCashier, data["role"])

	// 7. A tampered token does not
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token[:len(token)-2])
	resp, _ = sendRequest(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegister_RejectsBadInput(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	cases := []struct {
		name    string
		payload fiber.Map
	}{
		{"unknown pin", fiber.Map{"username": "nuevo", "password": "123456", "pin": "0000"}},
		{"non-numeric pin", fiber.Map{"username": "nuevo", "password": "123456", "pin": "37a5"}},
		{"short pin", fiber.Map{"username": "nuevo", "password": "123456", "pin": "372"}},
		{"missing pin", fiber.Map{"username": "nuevo", "password": "123456"}},
		{"short username", fiber.Map{"username": "ab", "password": "123456", "pin": domain.PinCashier}},
		{"short password", fiber.Map{"username": "nuevo", "password": "12345", "pin": domain.PinCashier}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			resp, body := postJSON(t, app, "/api/v1/auth/register", tc.payload)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, false, body["success"])

			// No half-registered account must remain
			resp, _ = login(t, app, "nuevo", "123456")
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

func TestLogin_ErrorCases(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	resp, _ := register(t, app, "cajero1", "123456", domain.PinCashier)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = login(t, app, "cajero1", "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = login(t, app, "nadie", "123456")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = login(t, app, "cajero1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// tiny but valid PNG header, enough to pass the mime whitelist
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func uploadImage(t *testing.T, app *fiber.App, token, field, filename, contentType string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename)},
		"Content-Type":        {contentType},
	})
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return sendRequest(t, app, req)
}

func TestPaymentUpload(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	resp, _ := register(t, app, "cajero1", "123456", domain.PinCashier)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := loginToken(t, app, "cajero1", "123456")

	// Happy path: the record is queued as pending
	resp, body := uploadImage(t, app, token, "image", "recibo.png", "image/png")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, models.PaymentStatusPending, data["status"])
	assert.Equal(t, "recibo.png", data["original_name"])
	assert.NotEmpty(t, data["filename"])

	// Only the `image` field is read
	resp, _ = uploadImage(t, app, token, "file", "recibo.png", "image/png")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Non-image payloads are refused
	resp, _ = uploadImage(t, app, token, "image", "notas.pdf", "application/pdf")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// No token, no upload
	resp, _ = uploadImage(t, app, "", "image", "recibo.png", "image/png")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPaymentStatusRoute_CashierForbidden(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	resp, _ := register(t, app, "cajero1", "123456", domain.PinCashier)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := loginToken(t, app, "cajero1", "123456")

	raw, err := json.Marshal(fiber.Map{"status": models.PaymentStatusVerified})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/payments/1/status", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, body := sendRequest(t, app, req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, domain.RoleCashier, body["user_role"])
}

func TestUserRoutes_SuperuserOnly(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	resp, _ := register(t, app, "cajero1", "123456", domain.PinCashier)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = register(t, app, "admin1", "123456", domain.PinSuperuser)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	cashierToken := loginToken(t, app, "cajero1", "123456")
	adminToken := loginToken(t, app, "admin1", "123456")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	req.Header.Set("Authorization", "Bearer "+cashierToken)
	resp, _ = sendRequest(t, app, req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, body := sendRequest(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	users, ok := data["users"].([]interface{})
	require.True(t, ok)
	assert.Len(t, users, 2)
}

func TestUserUpdate_VerifiesSupervisor(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	resp, regBody := register(t, app, "supervisor1", "123456", domain.PinSupervisor)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	supervisorID := regBody["data"].(map[string]interface{})["id"].(float64)

	resp, _ = register(t, app, "admin1", "123456", domain.PinSuperuser)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	adminToken := loginToken(t, app, "admin1", "123456")

	raw, err := json.Marshal(fiber.Map{"is_verified": true})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/v1/users/%d", int(supervisorID)), bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)

	resp, body := sendRequest(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["is_verified"])
}
