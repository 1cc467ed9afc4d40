package setoran

import (
	"errors"
	"fmt"
	"math"
	"time"

	"banksampah-backend/internal/apperr"
	"banksampah-backend/internal/auth"
	"banksampah-backend/internal/banksampah"
	"banksampah-backend/internal/katalog"
	"banksampah-backend/internal/membership"
	"banksampah-backend/internal/models"

	"gorm.io/gorm"
)

// batas waktu pembatalan dihitung dari waktu pembuatan setoran
const batasBatal = 24 * time.Hour

// Edge transisi status yang diizinkan. Selesai dan dibatalkan terminal.
var allowedTransitions = map[models.SetoranStatus][]models.SetoranStatus{
	models.SetoranPengajuan: {models.SetoranDiproses, models.SetoranDibatalkan},
	models.SetoranDiproses:  {models.SetoranSelesai},
}

func transitionAllowed(from, to models.SetoranStatus) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Service memegang state machine setoran dan invariant total agregat.
// Semua operasi multi-langkah berjalan dalam satu transaksi database;
// gagal di tengah berarti rollback penuh, tidak ada state parsial.
type Service struct {
	db  *gorm.DB
	now func() time.Time // bisa diganti di test
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Create membuat setoran baru berstatus pengajuan dengan satu item
// berberat nol per jenis sampah yang dipilih. Harga katalog saat ini
// disimpan sebagai snapshot di tiap item.
func (s *Service) Create(actor auth.Actor, bankSampahID uint, katalogIDs []uint, tanggal time.Time) (*models.Setoran, error) {
	if len(katalogIDs) == 0 {
		return nil, apperr.Validation("Pilih minimal satu jenis sampah", nil)
	}

	if !membership.IsActiveMember(s.db, actor.UserID, bankSampahID) {
		return nil, apperr.Validation("Anda bukan nasabah aktif bank sampah ini", nil)
	}

	var bank models.BankSampah
	if err := s.db.First(&bank, bankSampahID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Bank sampah tidak ditemukan")
		}
		return nil, apperr.Internal("Bank sampah tidak bisa diambil", err)
	}

	var setoran *models.Setoran
	err := s.db.Transaction(func(tx *gorm.DB) error {
		items := make([]models.SetoranItem, 0, len(katalogIDs))
		seen := make(map[uint]bool, len(katalogIDs))
		for _, kid := range katalogIDs {
			if seen[kid] {
				continue
			}
			seen[kid] = true

			item, err := katalog.FindActiveItem(tx, bank.ID, kid)
			if err != nil {
				return apperr.Internal("Katalog tidak bisa diambil", err)
			}
			if item == nil {
				return apperr.Validation(
					fmt.Sprintf("Item katalog %d bukan item aktif bank sampah ini", kid), nil)
			}

			items = append(items, models.SetoranItem{
				KatalogID:     item.ID,
				HargaSnapshot: item.HargaPerSatuan,
			})
		}

		kode, err := NewKode(tx, &bank)
		if err != nil {
			return apperr.Internal("Kode setoran tidak bisa dibuat", err)
		}

		setoran = &models.Setoran{
			Kode:         kode,
			UserID:       actor.UserID,
			BankSampahID: bank.ID,
			Tanggal:      tanggal,
			Status:       models.SetoranPengajuan,
			Items:        items,
		}
		if err := tx.Create(setoran).Error; err != nil {
			return apperr.Internal("Setoran tidak bisa dibuat", err)
		}

		return s.appendLog(tx, setoran.ID, models.SetoranPengajuan, "Setoran diajukan", actor.UserID)
	})
	if err != nil {
		return nil, asAppErr(err, "Setoran tidak bisa dibuat")
	}

	return setoran, nil
}

// SetLineWeight mengisi berat satu item lalu menghitung ulang nilai item
// dan total setoran. Nilai item memakai HargaSnapshot; baris lama tanpa
// snapshot mengambil harga katalog sekarang sekali lalu disimpan.
func (s *Service) SetLineWeight(actor auth.Actor, setoranID, itemID uint, berat float64) (*models.Setoran, error) {
	if berat <= 0 {
		return nil, apperr.Validation("Berat harus lebih besar dari 0", nil)
	}

	var out *models.Setoran
	err := s.db.Transaction(func(tx *gorm.DB) error {
		st, err := s.findSetoran(tx, setoranID)
		if err != nil {
			return err
		}

		var item models.SetoranItem
		if err := tx.Where("id = ? AND setoran_id = ?", itemID, st.ID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Item setoran tidak ditemukan")
			}
			return apperr.Internal("Item setoran tidak bisa diambil", err)
		}

		if err := editRights(actor, st); err != nil {
			return err
		}

		harga := item.HargaSnapshot
		if harga == 0 {
			h, err := katalog.UnitPrice(tx, item.KatalogID)
			if err != nil {
				return apperr.Internal("Harga katalog tidak bisa diambil", err)
			}
			harga = h
		}

		item.Berat = berat
		item.HargaSnapshot = harga
		item.Nilai = berat * harga
		if err := tx.Save(&item).Error; err != nil {
			return apperr.Internal("Item setoran tidak bisa disimpan", err)
		}

		if err := s.recomputeTotals(tx, st); err != nil {
			return apperr.Internal("Total setoran tidak bisa dihitung ulang", err)
		}

		out = st
		return nil
	})
	if err != nil {
		return nil, asAppErr(err, "Berat item tidak bisa diubah")
	}

	return out, nil
}

// RemoveLine menghapus satu item, hanya saat status pengajuan.
func (s *Service) RemoveLine(actor auth.Actor, setoranID, itemID uint) (*models.Setoran, error) {
	var out *models.Setoran
	err := s.db.Transaction(func(tx *gorm.DB) error {
		st, err := s.findSetoran(tx, setoranID)
		if err != nil {
			return err
		}

		var item models.SetoranItem
		if err := tx.Where("id = ? AND setoran_id = ?", itemID, st.ID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Item setoran tidak ditemukan")
			}
			return apperr.Internal("Item setoran tidak bisa diambil", err)
		}

		if st.Status != models.SetoranPengajuan {
			return apperr.Forbidden("Item hanya bisa dihapus saat status pengajuan")
		}
		if !actor.IsAdmin() && !actor.PetugasDari(st.BankSampahID) && st.UserID != actor.UserID {
			return apperr.Forbidden("Anda tidak berhak mengubah setoran ini")
		}

		if err := tx.Delete(&item).Error; err != nil {
			return apperr.Internal("Item setoran tidak bisa dihapus", err)
		}

		if err := s.recomputeTotals(tx, st); err != nil {
			return apperr.Internal("Total setoran tidak bisa dihitung ulang", err)
		}

		out = st
		return nil
	})
	if err != nil {
		return nil, asAppErr(err, "Item setoran tidak bisa dihapus")
	}

	return out, nil
}

// Transition memindahkan status setoran lewat edge yang diizinkan.
// Hanya petugas bank terkait atau admin.
func (s *Service) Transition(actor auth.Actor, setoranID uint, newStatus models.SetoranStatus, catatan string) (*models.Setoran, error) {
	var out *models.Setoran
	err := s.db.Transaction(func(tx *gorm.DB) error {
		st, err := s.findSetoran(tx, setoranID)
		if err != nil {
			return err
		}

		if !actor.IsAdmin() && !actor.PetugasDari(st.BankSampahID) {
			return apperr.Forbidden("Anda tidak berhak mengubah status setoran ini")
		}

		if err := s.transitionTx(tx, st, newStatus, catatan, actor.UserID); err != nil {
			return err
		}

		out = st
		return nil
	})
	if err != nil {
		return nil, asAppErr(err, "Status setoran tidak bisa diubah")
	}

	return out, nil
}

// Cancel membatalkan setoran: hanya dari status pengajuan dan paling
// lambat 24 jam setelah dibuat.
func (s *Service) Cancel(actor auth.Actor, setoranID uint, catatan string) (*models.Setoran, error) {
	var out *models.Setoran
	err := s.db.Transaction(func(tx *gorm.DB) error {
		st, err := s.findSetoran(tx, setoranID)
		if err != nil {
			return err
		}

		boleh := actor.IsAdmin() || actor.PetugasDari(st.BankSampahID) || st.UserID == actor.UserID
		if !boleh {
			return apperr.Forbidden("Anda tidak berhak membatalkan setoran ini")
		}

		if st.Status != models.SetoranPengajuan {
			return apperr.Forbidden("Setoran hanya bisa dibatalkan saat status pengajuan")
		}
		if s.now().Sub(st.CreatedAt) > batasBatal {
			return apperr.Forbidden("Setoran sudah lewat 24 jam, tidak bisa dibatalkan")
		}

		if catatan == "" {
			catatan = "Setoran dibatalkan"
		}
		if err := s.transitionTx(tx, st, models.SetoranDibatalkan, catatan, actor.UserID); err != nil {
			return err
		}

		out = st
		return nil
	})
	if err != nil {
		return nil, asAppErr(err, "Setoran tidak bisa dibatalkan")
	}

	return out, nil
}

// ----------------------------------------
// internal
// ----------------------------------------

func (s *Service) findSetoran(tx *gorm.DB, setoranID uint) (*models.Setoran, error) {
	var st models.Setoran
	if err := tx.First(&st, setoranID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Setoran tidak ditemukan")
		}
		return nil, apperr.Internal("Setoran tidak bisa diambil", err)
	}
	return &st, nil
}

func editRights(actor auth.Actor, st *models.Setoran) error {
	switch {
	case actor.IsAdmin(), actor.PetugasDari(st.BankSampahID):
		// petugas mengisi berat asli selama pengajuan atau diproses
		if st.Status != models.SetoranPengajuan && st.Status != models.SetoranDiproses {
			return apperr.Forbidden("Setoran sudah tidak bisa diubah")
		}
	case st.UserID == actor.UserID:
		// nasabah pemilik hanya saat pengajuan
		if st.Status != models.SetoranPengajuan {
			return apperr.Forbidden("Setoran hanya bisa diubah saat status pengajuan")
		}
	default:
		return apperr.Forbidden("Anda tidak berhak mengubah setoran ini")
	}
	return nil
}

// recomputeTotals menjumlah ulang seluruh item dari nol (idempotent,
// bukan penambahan inkremental) lalu menyimpan agregat ke setoran.
func (s *Service) recomputeTotals(tx *gorm.DB, st *models.Setoran) error {
	type agg struct {
		Berat float64
		Nilai float64
	}
	var a agg
	err := tx.Model(&models.SetoranItem{}).
		Where("setoran_id = ?", st.ID).
		Select("COALESCE(SUM(berat), 0) AS berat, COALESCE(SUM(nilai), 0) AS nilai").
		Scan(&a).Error
	if err != nil {
		return err
	}

	st.TotalBerat = a.Berat
	st.TotalNilai = a.Nilai
	st.TotalPoin = int(math.Floor(a.Nilai / 1000))

	return tx.Model(&models.Setoran{}).Where("id = ?", st.ID).Updates(map[string]any{
		"total_berat": st.TotalBerat,
		"total_nilai": st.TotalNilai,
		"total_poin":  st.TotalPoin,
	}).Error
}

func (s *Service) appendLog(tx *gorm.DB, setoranID uint, status models.SetoranStatus, catatan string, userID uint) error {
	entry := models.SetoranLog{
		SetoranID: setoranID,
		Status:    status,
		Catatan:   catatan,
		UserID:    userID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return apperr.Internal("Log status tidak bisa disimpan", err)
	}
	return nil
}

// transitionTx: validasi edge, mutasi field status, append log, dan efek
// samping penyelesaian, semuanya dalam transaksi pemanggil.
func (s *Service) transitionTx(tx *gorm.DB, st *models.Setoran, newStatus models.SetoranStatus, catatan string, actorID uint) error {
	if !transitionAllowed(st.Status, newStatus) {
		return apperr.InvalidTransition(
			fmt.Sprintf("Transisi status dari %s ke %s tidak diizinkan", st.Status, newStatus))
	}

	st.Status = newStatus
	if catatan != "" {
		st.Catatan = catatan
	}
	err := tx.Model(&models.Setoran{}).Where("id = ?", st.ID).Updates(map[string]any{
		"status":  st.Status,
		"catatan": st.Catatan,
	}).Error
	if err != nil {
		return apperr.Internal("Status setoran tidak bisa disimpan", err)
	}

	if err := s.appendLog(tx, st.ID, newStatus, catatan, actorID); err != nil {
		return err
	}

	if newStatus == models.SetoranSelesai {
		if err := banksampah.RecomputeTonase(tx, st.BankSampahID); err != nil {
			return apperr.Internal("Tonase bank sampah tidak bisa dihitung ulang", err)
		}

		// kredit saldo nasabah sebesar nilai setoran
		err := tx.Model(&models.Membership{}).
			Where("user_id = ? AND bank_sampah_id = ?", st.UserID, st.BankSampahID).
			Update("saldo", gorm.Expr("saldo + ?", st.TotalNilai)).Error
		if err != nil {
			return apperr.Internal("Saldo nasabah tidak bisa dikredit", err)
		}
	}

	return nil
}

// asAppErr meneruskan error bisnis apa adanya dan membungkus error
// infrastruktur jadi KindInternal.
func asAppErr(err error, msg string) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperr.Internal(msg, err)
}
