package queue

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"referral_queue/internal/models"
	"referral_queue/internal/store"
	"referral_queue/internal/ws"

	"github.com/go-redis/redis/v8"
)

var ctx = context.Background()

const (
	// ActiveWindow — фиксированное окно активности заявки.
	ActiveWindow = 20 * time.Minute

	snapshotCacheKey = "queue:snapshot"
	snapshotCacheTTL = 5 * time.Second
)

// Notifier рассылает сообщение всем подписанным зрителям.
type Notifier interface {
	Broadcast(message []byte)
}

// Engine — движок ротации очереди: приём заявок, активация, завершение, истечение.
// Все решения о ротации проходят через условную активацию хранилища,
// поэтому два конкурирующих запроса не могут активировать две заявки сразу.
type Engine struct {
	store *store.EntryStore
	cache *redis.Client // может быть nil, тогда снимки не кешируются
	hub   Notifier
}

func NewEngine(s *store.EntryStore, cache *redis.Client, hub Notifier) *Engine {
	return &Engine{store: s, cache: cache, hub: hub}
}

// Snapshot — текущий снимок очереди для зрителей: список с маскировкой,
// счётчики и активная заявка.
type Snapshot struct {
	Queue       []models.QueueEntry `json:"queue"`
	Stats       store.QueueStats    `json:"stats"`
	ActiveEntry *models.QueueEntry  `json:"activeEntry"`
}

// Submit принимает новую заявку. Если активного слота нет, заявка
// активируется сразу, иначе встаёт в хвост очереди.
func (e *Engine) Submit(name, referralCode, ip string) (*models.QueueEntry, error) {
	existing, err := e.store.FindByIP(ip)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateSubmission
	}

	if err := validateSubmission(name, referralCode); err != nil {
		return nil, err
	}

	entry := &models.QueueEntry{
		Name:         strings.TrimSpace(name),
		ReferralCode: strings.TrimSpace(referralCode),
		IPAddress:    ip,
	}
	if err := e.store.Insert(entry); err != nil {
		return nil, err
	}

	active, err := e.store.FindActive()
	if err != nil {
		return nil, err
	}
	if active == nil {
		// Активный слот свободен — пробуем занять его. Проигранная гонка
		// оставляет заявку в ожидании, это не ошибка.
		now := time.Now()
		expiresAt := now.Add(ActiveWindow)
		ok, err := e.store.Activate(entry.ID, now, expiresAt)
		if err != nil {
			return nil, err
		}
		if ok {
			entry.IsActive = true
			entry.StartedAt = &now
			entry.ExpiresAt = &expiresAt
		}
	}

	e.invalidateCache()
	return entry, nil
}

// Complete помечает заявку завершённой по запросу её владельца
// и сразу продвигает очередь.
func (e *Engine) Complete(id, ip string) error {
	entry, err := e.store.FindByIP(ip)
	if err != nil {
		return err
	}
	if entry == nil || entry.ID != id {
		return ErrForbidden
	}

	ok, err := e.store.SetCompleted(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	if _, err := e.ActivateNext(); err != nil {
		return err
	}

	e.invalidateCache()
	return nil
}

// ActivateNext активирует ожидающую заявку с наименьшей позицией
// со свежим окном. Пустая очередь — не ошибка.
func (e *Engine) ActivateNext() (*models.QueueEntry, error) {
	next, err := e.store.NextWaiting()
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, nil
	}

	now := time.Now()
	expiresAt := now.Add(ActiveWindow)
	ok, err := e.store.Activate(next.ID, now, expiresAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Другая заявка успела занять слот.
		return nil, nil
	}

	next.IsActive = true
	next.StartedAt = &now
	next.ExpiresAt = &expiresAt
	e.invalidateCache()
	return next, nil
}

// SweepExpired снимает все заявки с истёкшим окном, затем один раз
// продвигает очередь и рассылает обновление. Возвращает число истёкших заявок.
// Истёкшая заявка не завершается — она переходит в терминальное состояние
// «истекла» и выбывает из ротации.
func (e *Engine) SweepExpired() (int, error) {
	now := time.Now()
	expired, err := e.store.ListExpired(now)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, entry := range expired {
		if err := e.store.MarkExpired(entry.ID, now); err != nil {
			log.Println("Ошибка снятия истёкшей заявки:", entry.ID, err)
			continue
		}
		log.Println("Окно заявки истекло:", entry.ID)
		processed++
	}

	if processed > 0 {
		if _, err := e.ActivateNext(); err != nil {
			log.Println("Ошибка продвижения очереди после истечения:", err)
		}
		e.invalidateCache()
		e.PublishUpdate()
	}
	return processed, nil
}

// MyEntry возвращает нетерминальную заявку вызывающего IP, либо nil.
func (e *Engine) MyEntry(ip string) (*models.QueueEntry, error) {
	return e.store.FindByIP(ip)
}

// GetSnapshot собирает снимок очереди с маскировкой кодов неактивных заявок.
// Готовый снимок недолго живёт в Redis и сбрасывается при любой мутации.
func (e *Engine) GetSnapshot() (*Snapshot, error) {
	if e.cache != nil {
		cached, err := e.cache.Get(ctx, snapshotCacheKey).Result()
		if err == nil && cached != "" {
			var snapshot Snapshot
			if err := json.Unmarshal([]byte(cached), &snapshot); err == nil {
				return &snapshot, nil
			}
		}
	}

	entries, err := e.store.ListByPosition()
	if err != nil {
		return nil, err
	}
	stats, err := e.store.AggregateStats()
	if err != nil {
		return nil, err
	}
	active, err := e.store.FindActive()
	if err != nil {
		return nil, err
	}

	masked := make([]models.QueueEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsActive {
			entry.ReferralCode = MaskReferralCode(entry.ReferralCode)
		}
		masked = append(masked, entry)
	}

	snapshot := &Snapshot{
		Queue:       masked,
		Stats:       *stats,
		ActiveEntry: active,
	}

	if e.cache != nil {
		if payload, err := json.Marshal(snapshot); err == nil {
			if err := e.cache.Set(ctx, snapshotCacheKey, payload, snapshotCacheTTL).Err(); err != nil {
				log.Println("Ошибка записи снимка очереди в кеш:", err)
			}
		}
	}
	return snapshot, nil
}

// UpdatePayload — готовый WS-кадр queue_update с текущим снимком.
func (e *Engine) UpdatePayload() ([]byte, error) {
	snapshot, err := e.GetSnapshot()
	if err != nil {
		return nil, err
	}
	return json.Marshal(ws.Message{
		EventType: "queue_update",
		Data:      snapshot,
	})
}

// PublishUpdate рассылает текущий снимок всем подписчикам.
// Доставка негарантированная: при ошибке состояние и зрители разойдутся
// до следующей мутации или переподключения.
func (e *Engine) PublishUpdate() {
	if e.hub == nil {
		return
	}
	payload, err := e.UpdatePayload()
	if err != nil {
		log.Println("Ошибка сборки снимка очереди для рассылки:", err)
		return
	}
	e.hub.Broadcast(payload)
}

func (e *Engine) invalidateCache() {
	if e.cache == nil {
		return
	}
	if err := e.cache.Del(ctx, snapshotCacheKey).Err(); err != nil && err != redis.Nil {
		log.Println("Ошибка сброса кеша снимка очереди:", err)
	}
}

func validateSubmission(name, referralCode string) error {
	fields := make(map[string]string)

	nameLen := utf8.RuneCountInString(strings.TrimSpace(name))
	if nameLen < 2 {
		fields["name"] = "Имя должно содержать минимум 2 символа"
	} else if nameLen > 50 {
		fields["name"] = "Имя не может быть длиннее 50 символов"
	}

	codeLen := utf8.RuneCountInString(strings.TrimSpace(referralCode))
	if codeLen < 3 {
		fields["referralCode"] = "Реферальный код обязателен (минимум 3 символа)"
	} else if codeLen > 500 {
		fields["referralCode"] = "Реферальный код слишком длинный"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
