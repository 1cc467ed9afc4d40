package main

import (
	"log"
	"strings"

	"banksampah-backend/internal/audit"
	"banksampah-backend/internal/auth"
	"banksampah-backend/internal/banksampah"
	"banksampah-backend/internal/config"
	"banksampah-backend/internal/database"
	"banksampah-backend/internal/edukasi"
	"banksampah-backend/internal/jadwal"
	"banksampah-backend/internal/katalog"
	"banksampah-backend/internal/membership"
	"banksampah-backend/internal/models"
	"banksampah-backend/internal/respond"
	"banksampah-backend/internal/setoran"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[WARN] File .env tidak ditemukan, memakai environment sistem")
	}

	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: respond.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	setoranService := setoran.NewService(database.DB)

	api := app.Group("/api")

	// Publik
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	api.Get("/bank-sampah", banksampah.ListBankSampahHandler())
	api.Get("/bank-sampah/:id", banksampah.GetBankSampahHandler())
	api.Get("/bank-sampah/:id/jadwal", jadwal.ListJadwalHandler())
	api.Get("/bank-sampah/:id/katalog", katalog.ListKatalogHandler())
	api.Get("/kategori", katalog.ListKategoriHandler())
	api.Get("/edukasi", edukasi.ListKontenHandler())
	api.Get("/edukasi/:slug", edukasi.GetKontenHandler())

	// Butuh login
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Keanggotaan nasabah
	protected.Post("/memberships", membership.JoinHandler())
	protected.Get("/memberships/me", membership.MyMembershipsHandler())
	protected.Get("/memberships",
		auth.RequireRole(models.RolePetugas, models.RoleAdmin), membership.ListMembersHandler())
	protected.Put("/memberships/:id/status",
		auth.RequireRole(models.RolePetugas, models.RoleAdmin), membership.SetStatusHandler())

	// Setoran
	protected.Post("/setoran", setoran.CreateSetoranHandler(setoranService))
	protected.Get("/setoran", setoran.ListSetoranHandler())
	protected.Get("/setoran/:id", setoran.GetSetoranHandler())
	protected.Put("/setoran/:id/items/:itemId", setoran.UpdateItemWeightHandler(setoranService))
	protected.Delete("/setoran/:id/items/:itemId", setoran.RemoveItemHandler(setoranService))
	protected.Post("/setoran/:id/cancel", setoran.CancelHandler(setoranService))
	protected.Post("/setoran/:id/status",
		auth.RequireRole(models.RolePetugas, models.RoleAdmin), setoran.UpdateStatusHandler(setoranService))

	// Pengelolaan katalog & jadwal (petugas bank terkait / admin)
	protected.Post("/katalog",
		auth.RequireRole(models.RolePetugas, models.RoleAdmin), katalog.CreateKatalogHandler())
	protected.Put("/katalog/:id",
		auth.RequireRole(models.RolePetugas, models.RoleAdmin), katalog.UpdateKatalogHandler())
	protected.Post("/jadwal",
		auth.RequireRole(models.RolePetugas, models.RoleAdmin), jadwal.CreateJadwalHandler())
	protected.Delete("/jadwal/:id",
		auth.RequireRole(models.RolePetugas, models.RoleAdmin), jadwal.DeleteJadwalHandler())

	// Progres edukasi
	protected.Put("/edukasi/:id/progress", edukasi.UpsertProgressHandler())
	protected.Get("/edukasi/progress/me", edukasi.MyProgressHandler())

	// Khusus admin
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/bank-sampah", banksampah.CreateBankSampahHandler())
	adminRoutes.Put("/bank-sampah/:id", banksampah.UpdateBankSampahHandler())
	adminRoutes.Post("/bank-sampah/:id/petugas", banksampah.CreatePetugasHandler())
	adminRoutes.Get("/bank-sampah/:id/petugas", banksampah.ListPetugasHandler())

	adminRoutes.Post("/kategori", katalog.CreateKategoriHandler())
	adminRoutes.Post("/kategori/:id/sub", katalog.CreateSubKategoriHandler())

	adminRoutes.Post("/edukasi", edukasi.CreateKontenHandler())
	adminRoutes.Put("/edukasi/:id", edukasi.UpdateKontenHandler())

	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server berjalan di port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
