package edukasi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"banksampah-backend/internal/auth"
	"banksampah-backend/internal/database"
	"banksampah-backend/internal/models"
	"banksampah-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEdukasiApp(actor auth.Actor) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: respond.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxActorKey, actor)
		return c.Next()
	})

	app.Get("/api/edukasi", ListKontenHandler())
	app.Get("/api/edukasi/:slug", GetKontenHandler())
	app.Put("/api/edukasi/:id/progress", UpsertProgressHandler())
	app.Get("/api/edukasi/progress/me", MyProgressHandler())
	app.Post("/api/admin/edukasi", CreateKontenHandler())
	app.Put("/api/admin/edukasi/:id", UpdateKontenHandler())

	return app
}

func seedNasabah(t *testing.T, db *gorm.DB) (models.User, auth.Actor) {
	t.Helper()
	user := models.User{Nama: "Budi", Email: "budi@example.com", PasswordHash: "x", Role: models.RoleNasabah}
	require.NoError(t, db.Create(&user).Error)
	return user, auth.Actor{UserID: user.ID, Nama: user.Nama, Role: user.Role}
}

func adminActor(t *testing.T, db *gorm.DB) auth.Actor {
	t.Helper()
	admin := models.User{Nama: "Admin Pusat", Email: "admin@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	return auth.Actor{UserID: admin.ID, Nama: admin.Nama, Role: admin.Role}
}

type edukasiEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func call(t *testing.T, app *fiber.App, method, path string, body any) (int, edukasiEnvelope) {
	t.Helper()

	var buf []byte
	if body != nil {
		var err error
		buf, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(buf))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env edukasiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestCreateKontenDanSlug(t *testing.T) {
	db := database.OpenTest(t)
	app := newEdukasiApp(adminActor(t, db))

	status, env := call(t, app, http.MethodPost, "/api/admin/edukasi", fiber.Map{
		"judul":        "Cara Memilah Sampah!",
		"tipe":         "artikel",
		"konten":       "Pisahkan organik dan anorganik.",
		"is_published": true,
	})
	require.Equal(t, http.StatusCreated, status)

	var konten KontenResponse
	require.NoError(t, json.Unmarshal(env.Data, &konten))
	assert.Equal(t, "cara-memilah-sampah", konten.Slug)

	// judul sama dapat suffix angka, bukan bentrok unique index
	status, env = call(t, app, http.MethodPost, "/api/admin/edukasi", fiber.Map{
		"judul":        "Cara Memilah Sampah!",
		"tipe":         "artikel",
		"konten":       "Versi revisi.",
		"is_published": true,
	})
	require.Equal(t, http.StatusCreated, status)
	require.NoError(t, json.Unmarshal(env.Data, &konten))
	assert.Equal(t, "cara-memilah-sampah-2", konten.Slug)
}

func TestListDanGetHanyaYangPublished(t *testing.T) {
	db := database.OpenTest(t)
	_, nasabah := seedNasabah(t, db)
	app := newEdukasiApp(nasabah)

	require.NoError(t, db.Create(&models.KontenEdukasi{
		Judul: "Terbit", Slug: "terbit", Tipe: models.KontenArtikel,
		Konten: "isi", IsPublished: true,
	}).Error)
	require.NoError(t, db.Create(&models.KontenEdukasi{
		Judul: "Draft", Slug: "draft", Tipe: models.KontenArtikel,
		Konten: "isi",
	}).Error)

	status, env := call(t, app, http.MethodGet, "/api/edukasi", nil)
	require.Equal(t, http.StatusOK, status)
	var list []KontenResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "terbit", list[0].Slug)
	assert.Empty(t, list[0].Konten) // daftar tanpa isi

	status, env = call(t, app, http.MethodGet, "/api/edukasi/terbit", nil)
	require.Equal(t, http.StatusOK, status)
	var detail KontenResponse
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "isi", detail.Konten)

	// konten draft tidak bisa diakses lewat slug
	status, _ = call(t, app, http.MethodGet, "/api/edukasi/draft", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUpsertProgress(t *testing.T) {
	db := database.OpenTest(t)
	user, nasabah := seedNasabah(t, db)
	app := newEdukasiApp(nasabah)

	konten := models.KontenEdukasi{
		Judul: "Terbit", Slug: "terbit", Tipe: models.KontenVideo,
		Konten: "https://example.com/v", IsPublished: true,
	}
	require.NoError(t, db.Create(&konten).Error)

	path := fmt.Sprintf("/api/edukasi/%d/progress", konten.ID)

	// pertama kali: baris progres dibuat
	status, _ := call(t, app, http.MethodPut, path, fiber.Map{"status": "mulai", "progres_persen": 30})
	require.Equal(t, http.StatusOK, status)

	var p models.ProgressEdukasi
	require.NoError(t, db.Where("user_id = ? AND konten_id = ?", user.ID, konten.ID).First(&p).Error)
	assert.Equal(t, models.ProgressMulai, p.Status)
	assert.Equal(t, 30, p.ProgresPersen)

	// naik: di-update pada baris yang sama, bukan baris baru
	status, _ = call(t, app, http.MethodPut, path, fiber.Map{"status": "mulai", "progres_persen": 60})
	require.Equal(t, http.StatusOK, status)

	var total int64
	db.Model(&models.ProgressEdukasi{}).Where("user_id = ?", user.ID).Count(&total)
	assert.EqualValues(t, 1, total)
	require.NoError(t, db.Where("user_id = ? AND konten_id = ?", user.ID, konten.ID).First(&p).Error)
	assert.Equal(t, 60, p.ProgresPersen)

	// progres tidak pernah mundur
	status, _ = call(t, app, http.MethodPut, path, fiber.Map{"status": "mulai", "progres_persen": 10})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, db.Where("user_id = ? AND konten_id = ?", user.ID, konten.ID).First(&p).Error)
	assert.Equal(t, 60, p.ProgresPersen)

	// selesai selalu memaksa 100%
	status, _ = call(t, app, http.MethodPut, path, fiber.Map{"status": "selesai", "progres_persen": 70})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, db.Where("user_id = ? AND konten_id = ?", user.ID, konten.ID).First(&p).Error)
	assert.Equal(t, models.ProgressSelesai, p.Status)
	assert.Equal(t, 100, p.ProgresPersen)
}

func TestUpsertProgressValidasi(t *testing.T) {
	db := database.OpenTest(t)
	_, nasabah := seedNasabah(t, db)
	app := newEdukasiApp(nasabah)

	// konten tidak ada
	status, _ := call(t, app, http.MethodPut, "/api/edukasi/999/progress", fiber.Map{"status": "mulai"})
	assert.Equal(t, http.StatusNotFound, status)

	konten := models.KontenEdukasi{
		Judul: "Terbit", Slug: "terbit", Tipe: models.KontenArtikel,
		Konten: "isi", IsPublished: true,
	}
	require.NoError(t, db.Create(&konten).Error)

	// status di luar enum
	status, env := call(t, app, http.MethodPut,
		fmt.Sprintf("/api/edukasi/%d/progress", konten.ID),
		fiber.Map{"status": "ngawur", "progres_persen": 10})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "harus salah satu dari: mulai selesai", env.Errors["status"])
}

func TestMyProgress(t *testing.T) {
	db := database.OpenTest(t)
	_, nasabah := seedNasabah(t, db)
	app := newEdukasiApp(nasabah)

	konten := models.KontenEdukasi{
		Judul: "Terbit", Slug: "terbit", Tipe: models.KontenArtikel,
		Konten: "isi", IsPublished: true,
	}
	require.NoError(t, db.Create(&konten).Error)

	path := fmt.Sprintf("/api/edukasi/%d/progress", konten.ID)
	status, _ := call(t, app, http.MethodPut, path, fiber.Map{"status": "selesai"})
	require.Equal(t, http.StatusOK, status)

	status, env := call(t, app, http.MethodGet, "/api/edukasi/progress/me", nil)
	require.Equal(t, http.StatusOK, status)

	var list []struct {
		KontenID      uint   `json:"konten_id"`
		Slug          string `json:"slug"`
		Status        string `json:"status"`
		ProgresPersen int    `json:"progres_persen"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, konten.ID, list[0].KontenID)
	assert.Equal(t, "terbit", list[0].Slug)
	assert.Equal(t, "selesai", list[0].Status)
	assert.Equal(t, 100, list[0].ProgresPersen)
}
