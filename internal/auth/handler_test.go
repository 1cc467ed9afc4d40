package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"banksampah-backend/internal/audit"
	"banksampah-backend/internal/config"
	"banksampah-backend/internal/database"
	"banksampah-backend/internal/models"
	"banksampah-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: strings.Repeat("s", 32)}
}

func newAuthApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: respond.ErrorHandler})
	app.Post("/api/auth/register", RegisterHandler(cfg))
	app.Post("/api/auth/login", LoginHandler(cfg))

	protected := app.Group("", JWTMiddleware(cfg))
	protected.Get("/api/auth/me", MeHandler())
	protected.Get("/api/admin/ping", RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return respond.Success(c, fiber.StatusOK, "OK", nil)
	})

	return app
}

type authEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, authEnvelope) {
	t.Helper()

	buf, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env authEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestRegisterDanLogin(t *testing.T) {
	database.OpenTest(t)
	app := newAuthApp(testConfig())

	status, env := postJSON(t, app, "/api/auth/register", fiber.Map{
		"nama":     "Budi Santoso",
		"email":    "Budi@Example.com",
		"password": "rahasia-banget",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)

	var data struct {
		Token string       `json:"token"`
		User  UserResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "budi@example.com", data.User.Email) // dinormalkan ke huruf kecil
	assert.Equal(t, models.RoleNasabah, data.User.Role)

	// email yang sama tidak bisa didaftarkan dua kali
	status, env = postJSON(t, app, "/api/auth/register", fiber.Map{
		"nama":     "Budi Lagi",
		"email":    "budi@example.com",
		"password": "rahasia-banget",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.False(t, env.Success)

	status, _ = postJSON(t, app, "/api/auth/login", fiber.Map{
		"email":    "budi@example.com",
		"password": "rahasia-banget",
	})
	assert.Equal(t, http.StatusOK, status)

	status, env = postJSON(t, app, "/api/auth/login", fiber.Map{
		"email":    "budi@example.com",
		"password": "password-salah",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Email atau password salah", env.Message)
}

func TestRegisterValidasi(t *testing.T) {
	database.OpenTest(t)
	app := newAuthApp(testConfig())

	status, env := postJSON(t, app, "/api/auth/register", fiber.Map{
		"nama":     "B",
		"email":    "bukan-email",
		"password": "pendek",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "minimal 2 karakter", env.Errors["nama"])
	assert.Equal(t, "format email tidak valid", env.Errors["email"])
	assert.Equal(t, "minimal 8 karakter", env.Errors["password"])
}

func TestJWTMiddlewareDanMe(t *testing.T) {
	database.OpenTest(t)
	cfg := testConfig()
	app := newAuthApp(cfg)

	_, env := postJSON(t, app, "/api/auth/register", fiber.Map{
		"nama":     "Budi Santoso",
		"email":    "budi@example.com",
		"password": "rahasia-banget",
	})
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	// tanpa token
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// token rusak
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer token-ngawur")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// token valid
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+data.Token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// nasabah tidak lolos RequireRole(admin)
	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+data.Token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestJWTMiddlewareMembawaNamaActor(t *testing.T) {
	db := database.OpenTest(t)
	cfg := testConfig()

	admin := models.User{Nama: "Admin Pusat", Email: "admin@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)

	token, err := GenerateToken(cfg.JWTSecret, &admin)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: respond.ErrorHandler})
	app.Use(JWTMiddleware(cfg))
	app.Post("/api/tes", func(c *fiber.Ctx) error {
		actor, err := ActorFromCtx(c)
		if err != nil {
			return err
		}
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      actor.UserID,
			UserName:    actor.Nama,
			EntityType:  "bank_sampah",
			EntityID:    1,
			Action:      models.AuditActionCreate,
			Description: "tes audit",
		})
		return respond.Success(c, fiber.StatusOK, "OK", nil)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/tes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// nama pelaku ikut tersimpan di jejak audit, bukan string kosong
	var entry models.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, admin.ID, entry.UserID)
	assert.Equal(t, "Admin Pusat", entry.UserName)
}

func TestActorPetugasDari(t *testing.T) {
	bankID := uint(7)

	petugas := Actor{UserID: 1, Role: models.RolePetugas, BankSampahID: &bankID}
	assert.True(t, petugas.PetugasDari(7))
	assert.False(t, petugas.PetugasDari(8))

	// admin bukan petugas bank manapun, haknya lewat IsAdmin
	admin := Actor{UserID: 2, Role: models.RoleAdmin}
	assert.False(t, admin.PetugasDari(7))
	assert.True(t, admin.IsAdmin())

	tanpaBank := Actor{UserID: 3, Role: models.RolePetugas}
	assert.False(t, tanpaBank.PetugasDari(7))
}
