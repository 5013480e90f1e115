package store

import (
	"errors"
	"time"

	"referral_queue/internal/models"

	"gorm.io/gorm"
)

// QueueStats — агрегированные счётчики по всем заявкам.
type QueueStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Waiting   int `json:"waiting"`
	Completed int `json:"completed"`
	Expired   int `json:"expired"`
}

// EntryStore инкапсулирует доступ к таблице заявок очереди.
type EntryStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *EntryStore {
	return &EntryStore{db: db}
}

// Insert сохраняет новую заявку, назначая ей следующую позицию:
// максимум позиции среди незавершённых заявок плюс один.
func (s *EntryStore) Insert(entry *models.QueueEntry) error {
	var maxPosition int
	row := s.db.Model(&models.QueueEntry{}).
		Where("is_completed = false").
		Select("COALESCE(MAX(position),0)").Row()
	if err := row.Scan(&maxPosition); err != nil {
		return err
	}
	entry.Position = maxPosition + 1

	return s.db.Create(entry).Error
}

// FindActive возвращает единственную активную незавершённую заявку, либо nil.
func (s *EntryStore) FindActive() (*models.QueueEntry, error) {
	var entry models.QueueEntry
	err := s.db.
		Where("is_active = true AND is_completed = false").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByID возвращает заявку по идентификатору, либо nil.
func (s *EntryStore) FindByID(id string) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	err := s.db.Where("id = ?", id).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByIP возвращает нетерминальную заявку данного IP, либо nil.
// Завершённые и истёкшие заявки не считаются: их владелец может подать код заново.
func (s *EntryStore) FindByIP(ip string) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	err := s.db.
		Where("ip_address = ? AND is_completed = false AND expired_at IS NULL", ip).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByPosition возвращает нетерминальные заявки по возрастанию позиции.
func (s *EntryStore) ListByPosition() ([]models.QueueEntry, error) {
	var entries []models.QueueEntry
	err := s.db.
		Where("is_completed = false AND expired_at IS NULL").
		Order("position ASC").
		Find(&entries).Error
	return entries, err
}

// AggregateStats считает заявки по статусам одним запросом.
func (s *EntryStore) AggregateStats() (*QueueStats, error) {
	var stats QueueStats
	err := s.db.Model(&models.QueueEntry{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_active = true AND is_completed = false THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(SUM(CASE WHEN is_active = false AND is_completed = false AND expired_at IS NULL THEN 1 ELSE 0 END), 0) AS waiting,
			COALESCE(SUM(CASE WHEN is_completed = true THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN expired_at IS NOT NULL THEN 1 ELSE 0 END), 0) AS expired`).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// NextWaiting возвращает ожидающую заявку с наименьшей позицией, либо nil.
func (s *EntryStore) NextWaiting() (*models.QueueEntry, error) {
	var entry models.QueueEntry
	err := s.db.
		Where("is_active = false AND is_completed = false AND expired_at IS NULL").
		Order("position ASC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Activate — условная активация одним атомарным UPDATE: заявка становится
// активной только если никакая другая незавершённая заявка сейчас не активна.
// Две конкурирующие активации не могут выиграть одновременно.
func (s *EntryStore) Activate(id string, startedAt, expiresAt time.Time) (bool, error) {
	res := s.db.Exec(`UPDATE queue_entries
		SET is_active = true, started_at = ?, expires_at = ?
		WHERE id = ? AND is_completed = false AND expired_at IS NULL
		AND NOT EXISTS (
			SELECT 1 FROM queue_entries q
			WHERE q.is_active = true AND q.is_completed = false AND q.id <> ?
		)`, startedAt, expiresAt, id, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetCompleted помечает заявку завершённой и освобождает активный слот.
func (s *EntryStore) SetCompleted(id string) (bool, error) {
	res := s.db.Model(&models.QueueEntry{}).
		Where("id = ? AND is_completed = false", id).
		Updates(map[string]interface{}{"is_completed": true, "is_active": false})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkExpired снимает заявку с активного слота по истечении окна.
// Заявка не помечается завершённой: истечение — отдельное терминальное состояние.
func (s *EntryStore) MarkExpired(id string, now time.Time) error {
	return s.db.Model(&models.QueueEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "expired_at": now}).Error
}

// ListExpired возвращает активные заявки, чьё окно истекло к моменту now.
func (s *EntryStore) ListExpired(now time.Time) ([]models.QueueEntry, error) {
	var entries []models.QueueEntry
	err := s.db.
		Where("is_active = true AND is_completed = false AND expires_at < ?", now).
		Find(&entries).Error
	return entries, err
}

// UpdateExpiration переустанавливает конец окна активности заявки.
func (s *EntryStore) UpdateExpiration(id string, expiresAt time.Time) (bool, error) {
	res := s.db.Model(&models.QueueEntry{}).
		Where("id = ?", id).
		Update("expires_at", expiresAt)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
