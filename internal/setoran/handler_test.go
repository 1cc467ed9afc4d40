package setoran

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"banksampah-backend/internal/auth"
	"banksampah-backend/internal/models"
	"banksampah-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newApp merakit route setoran dengan actor yang sudah ditanam, tanpa
// lewat middleware JWT.
func (f *fixture) newApp(actor auth.Actor) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: respond.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxActorKey, actor)
		return c.Next()
	})

	app.Post("/api/setoran", CreateSetoranHandler(f.svc))
	app.Get("/api/setoran", ListSetoranHandler())
	app.Get("/api/setoran/:id", GetSetoranHandler())
	app.Put("/api/setoran/:id/items/:itemId", UpdateItemWeightHandler(f.svc))
	app.Delete("/api/setoran/:id/items/:itemId", RemoveItemHandler(f.svc))
	app.Post("/api/setoran/:id/status", UpdateStatusHandler(f.svc))
	app.Post("/api/setoran/:id/cancel", CancelHandler(f.svc))

	return app
}

type testEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, testEnvelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env testEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestCreateSetoranHTTP(t *testing.T) {
	f := newFixture(t)
	app := f.newApp(f.actorNasabah)

	status, env := doJSON(t, app, http.MethodPost, "/api/setoran", fiber.Map{
		"bank_sampah_id": f.bank.ID,
		"katalog_ids":    []uint{f.itemA.ID, f.itemC.ID},
	})

	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)

	var data SetoranResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, models.SetoranPengajuan, data.Status)
	assert.Regexp(t, `^BSM[A-Z]\d{6}$`, data.Kode)
	assert.Len(t, data.Items, 2)
	assert.Equal(t, "Kardus", data.Items[0].KatalogNama)
}

func TestCreateSetoranHTTPValidasi(t *testing.T) {
	f := newFixture(t)
	app := f.newApp(f.actorNasabah)

	status, env := doJSON(t, app, http.MethodPost, "/api/setoran", fiber.Map{
		"bank_sampah_id": f.bank.ID,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.False(t, env.Success)
	assert.Equal(t, "wajib diisi", env.Errors["katalog_ids"])
}

func TestAlurSetoranHTTP(t *testing.T) {
	f := newFixture(t)
	appNasabah := f.newApp(f.actorNasabah)
	appPetugas := f.newApp(f.actorPetugas)

	_, env := doJSON(t, appNasabah, http.MethodPost, "/api/setoran", fiber.Map{
		"bank_sampah_id": f.bank.ID,
		"katalog_ids":    []uint{f.itemA.ID},
	})
	var created SetoranResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Len(t, created.Items, 1)

	// petugas mengisi berat hasil timbang
	path := fmt.Sprintf("/api/setoran/%d/items/%d", created.ID, created.Items[0].ID)
	status, env := doJSON(t, appPetugas, http.MethodPut, path, fiber.Map{"berat": 2.0})
	assert.Equal(t, http.StatusOK, status)

	var updated SetoranResponse
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.InDelta(t, 2.0, updated.TotalBerat, 1e-9)
	assert.InDelta(t, 2000, updated.TotalNilai, 1e-9)
	assert.Equal(t, 2, updated.TotalPoin)

	// pengajuan -> diproses -> selesai
	statusPath := fmt.Sprintf("/api/setoran/%d/status", created.ID)
	status, _ = doJSON(t, appPetugas, http.MethodPost, statusPath, fiber.Map{"status": "diproses"})
	assert.Equal(t, http.StatusOK, status)
	status, env = doJSON(t, appPetugas, http.MethodPost, statusPath, fiber.Map{"status": "selesai"})
	assert.Equal(t, http.StatusOK, status)

	var selesai SetoranResponse
	require.NoError(t, json.Unmarshal(env.Data, &selesai))
	assert.Equal(t, models.SetoranSelesai, selesai.Status)

	// detail memuat riwayat status lengkap
	status, env = doJSON(t, appNasabah, http.MethodGet, fmt.Sprintf("/api/setoran/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, status)
	var detail SetoranResponse
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Len(t, detail.Logs, 3)
}

func TestTransitionHTTPTidakValid(t *testing.T) {
	f := newFixture(t)
	appNasabah := f.newApp(f.actorNasabah)
	appPetugas := f.newApp(f.actorPetugas)

	_, env := doJSON(t, appNasabah, http.MethodPost, "/api/setoran", fiber.Map{
		"bank_sampah_id": f.bank.ID,
		"katalog_ids":    []uint{f.itemA.ID},
	})
	var created SetoranResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))

	statusPath := fmt.Sprintf("/api/setoran/%d/status", created.ID)

	// edge pengajuan -> selesai tidak ada
	status, env := doJSON(t, appPetugas, http.MethodPost, statusPath, fiber.Map{"status": "selesai"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.False(t, env.Success)

	// status di luar enum ditolak validasi
	status, env = doJSON(t, appPetugas, http.MethodPost, statusPath, fiber.Map{"status": "dibatalkan"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "harus salah satu dari: diproses selesai", env.Errors["status"])

	// nasabah tidak berhak mengubah status
	status, _ = doJSON(t, appNasabah, http.MethodPost, statusPath, fiber.Map{"status": "diproses"})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestGetSetoranHTTPHakAkses(t *testing.T) {
	f := newFixture(t)
	appNasabah := f.newApp(f.actorNasabah)
	appLain := f.newApp(f.actorLain)

	_, env := doJSON(t, appNasabah, http.MethodPost, "/api/setoran", fiber.Map{
		"bank_sampah_id": f.bank.ID,
		"katalog_ids":    []uint{f.itemA.ID},
	})
	var created SetoranResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))

	status, env := doJSON(t, appLain, http.MethodGet, fmt.Sprintf("/api/setoran/%d", created.ID), nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, env.Success)

	status, _ = doJSON(t, appNasabah, http.MethodGet, "/api/setoran/99999", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCancelHTTP(t *testing.T) {
	f := newFixture(t)
	app := f.newApp(f.actorNasabah)

	_, env := doJSON(t, app, http.MethodPost, "/api/setoran", fiber.Map{
		"bank_sampah_id": f.bank.ID,
		"katalog_ids":    []uint{f.itemA.ID},
	})
	var created SetoranResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))

	status, env := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/setoran/%d/cancel", created.ID), nil)
	assert.Equal(t, http.StatusOK, status)

	var dibatalkan SetoranResponse
	require.NoError(t, json.Unmarshal(env.Data, &dibatalkan))
	assert.Equal(t, models.SetoranDibatalkan, dibatalkan.Status)
}

func TestListSetoranHTTPPerRole(t *testing.T) {
	f := newFixture(t)
	appNasabah := f.newApp(f.actorNasabah)

	for i := 0; i < 2; i++ {
		status, _ := doJSON(t, appNasabah, http.MethodPost, "/api/setoran", fiber.Map{
			"bank_sampah_id": f.bank.ID,
			"katalog_ids":    []uint{f.itemA.ID},
		})
		require.Equal(t, http.StatusCreated, status)
	}

	// nasabah hanya melihat setorannya sendiri
	status, env := doJSON(t, appNasabah, http.MethodGet, "/api/setoran", nil)
	assert.Equal(t, http.StatusOK, status)
	var list []SetoranResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 2)

	// nasabah lain tidak melihat apa-apa
	status, env = doJSON(t, f.newApp(f.actorLain), http.MethodGet, "/api/setoran", nil)
	assert.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 0)

	// petugas melihat semua setoran banknya
	status, env = doJSON(t, f.newApp(f.actorPetugas), http.MethodGet, "/api/setoran?status=pengajuan", nil)
	assert.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 2)
}
