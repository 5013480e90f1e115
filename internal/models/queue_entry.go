package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QueueEntry — одна заявка с реферальным кодом в общей очереди.
type QueueEntry struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"size:100;not null" json:"name"`             // Отображаемое имя участника
	ReferralCode string     `gorm:"type:text;not null" json:"referralCode"`    // Код или ссылка приглашения
	IPAddress    string     `gorm:"size:45;index;not null" json:"-"`           // Сетевой адрес отправителя — единственная идентичность
	Position     int        `gorm:"index;not null" json:"position"`            // Позиция в очереди, порядок FIFO
	IsActive     bool       `gorm:"default:false;not null" json:"isActive"`    // Флаг активного слота
	IsCompleted  bool       `gorm:"default:false;not null" json:"isCompleted"` // Терминальный флаг завершения владельцем
	CreatedAt    time.Time  `json:"createdAt"`
	StartedAt    *time.Time `json:"startedAt"`              // Время активации (nil — заявка ещё не активировалась)
	ExpiresAt    *time.Time `gorm:"index" json:"expiresAt"` // Конец окна активности: StartedAt + 20 минут
	ExpiredAt    *time.Time `json:"expiredAt"`              // Время истечения окна; терминальное состояние, заявка выбывает из ротации
}

// BeforeCreate генерирует uuid для новой заявки.
func (e *QueueEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
