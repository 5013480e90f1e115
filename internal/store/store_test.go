package store_test

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"referral_queue/internal/models"
	"referral_queue/internal/storage"
	"referral_queue/internal/store"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *store.EntryStore {
	t.Helper()

	key := os.Getenv("ENV_CHEK")
	if key == "" {
		fmt.Println("Подключение к .env")
		if err := godotenv.Load("../../.env"); err != nil {
			log.Fatal("Ошибка получения .env")
		}
	}

	storage.ConnectTestingDatabase()
	if err := storage.DB.AutoMigrate(&models.QueueEntry{}); err != nil {
		log.Fatal("Ошибка при миграции... ", err.Error())
	}
	storage.DB.Exec("TRUNCATE TABLE queue_entries RESTART IDENTITY CASCADE;")

	return store.New(storage.DB)
}

func insertEntry(t *testing.T, s *store.EntryStore, name, code, ip string) *models.QueueEntry {
	t.Helper()
	entry := &models.QueueEntry{Name: name, ReferralCode: code, IPAddress: ip}
	require.NoError(t, s.Insert(entry), "Ошибка вставки заявки")
	return entry
}

func TestInsertAssignsMonotonicPositions(t *testing.T) {
	s := setupStore(t)

	first := insertEntry(t, s, "Иван", "CODE-100", "10.0.0.1")
	second := insertEntry(t, s, "Пётр", "CODE-200", "10.0.0.2")
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)

	// Позиция считается по незавершённым заявкам: завершение не сдвигает хвост.
	ok, err := s.SetCompleted(first.ID)
	require.NoError(t, err)
	require.True(t, ok)

	third := insertEntry(t, s, "Мария", "CODE-300", "10.0.0.3")
	assert.Equal(t, 3, third.Position, "Позиции строго возрастают в порядке приёма")

	entries, err := s.ListByPosition()
	require.NoError(t, err)
	require.Len(t, entries, 2, "Завершённые заявки не попадают в список")
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, third.ID, entries[1].ID)
}

func TestInsertSurfacesStoreFailure(t *testing.T) {
	s := setupStore(t)

	// Отказ запроса позиции должен возвращаться ошибкой,
	// а не молчаливой вставкой с позицией 1.
	storage.DB.Exec("DROP TABLE queue_entries;")

	entry := &models.QueueEntry{Name: "Иван", ReferralCode: "CODE-100", IPAddress: "10.0.0.1"}
	err := s.Insert(entry)
	assert.Error(t, err, "Ошибка хранилища не должна проглатываться")
}

func TestActivateIsConditional(t *testing.T) {
	s := setupStore(t)

	first := insertEntry(t, s, "Иван", "CODE-100", "10.0.0.1")
	second := insertEntry(t, s, "Пётр", "CODE-200", "10.0.0.2")

	now := time.Now()
	ok, err := s.Activate(first.ID, now, now.Add(20*time.Minute))
	require.NoError(t, err)
	assert.True(t, ok, "Свободный слот должен заниматься")

	// Пока первая активна, вторую активировать нельзя — гонка двойной
	// активации разрешается на уровне одного условного UPDATE.
	ok, err = s.Activate(second.ID, now, now.Add(20*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "Вторая активация при занятом слоте должна проигрывать")

	active, err := s.FindActive()
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, first.ID, active.ID)

	ok, err = s.SetCompleted(first.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Activate(second.ID, now, now.Add(20*time.Minute))
	require.NoError(t, err)
	assert.True(t, ok, "После освобождения слота активация проходит")
}

func TestActivateSkipsTerminalEntries(t *testing.T) {
	s := setupStore(t)

	entry := insertEntry(t, s, "Иван", "CODE-100", "10.0.0.1")
	require.NoError(t, s.MarkExpired(entry.ID, time.Now()))

	now := time.Now()
	ok, err := s.Activate(entry.ID, now, now.Add(20*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "Истёкшая заявка не возвращается в ротацию")

	next, err := s.NextWaiting()
	require.NoError(t, err)
	assert.Nil(t, next, "Истёкшая заявка не считается ожидающей")
}

func TestFindByIPIgnoresTerminal(t *testing.T) {
	s := setupStore(t)

	completed := insertEntry(t, s, "Иван", "CODE-100", "10.0.0.1")
	ok, err := s.SetCompleted(completed.ID)
	require.NoError(t, err)
	require.True(t, ok)

	found, err := s.FindByIP("10.0.0.1")
	require.NoError(t, err)
	assert.Nil(t, found, "Завершённая заявка не блокирует повторную подачу")

	expired := insertEntry(t, s, "Иван", "CODE-200", "10.0.0.1")
	require.NoError(t, s.MarkExpired(expired.ID, time.Now()))

	found, err = s.FindByIP("10.0.0.1")
	require.NoError(t, err)
	assert.Nil(t, found, "Истёкшая заявка не блокирует повторную подачу")

	fresh := insertEntry(t, s, "Иван", "CODE-300", "10.0.0.1")
	found, err = s.FindByIP("10.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, fresh.ID, found.ID)
}

func TestAggregateStats(t *testing.T) {
	s := setupStore(t)

	stats, err := s.AggregateStats()
	require.NoError(t, err)
	assert.Equal(t, &store.QueueStats{}, stats, "Пустая таблица — нулевые счётчики")

	active := insertEntry(t, s, "Иван", "CODE-100", "10.0.0.1")
	insertEntry(t, s, "Пётр", "CODE-200", "10.0.0.2")
	completed := insertEntry(t, s, "Мария", "CODE-300", "10.0.0.3")
	expired := insertEntry(t, s, "Олег", "CODE-400", "10.0.0.4")

	now := time.Now()
	ok, err := s.Activate(active.ID, now, now.Add(20*time.Minute))
	require.NoError(t, err)
	require.True(t, ok)
	_, err = s.SetCompleted(completed.ID)
	require.NoError(t, err)
	require.NoError(t, s.MarkExpired(expired.ID, now))

	stats, err = s.AggregateStats()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Waiting)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Expired)
}

func TestListExpired(t *testing.T) {
	s := setupStore(t)

	entry := insertEntry(t, s, "Иван", "CODE-100", "10.0.0.1")
	now := time.Now()
	ok, err := s.Activate(entry.ID, now, now.Add(20*time.Minute))
	require.NoError(t, err)
	require.True(t, ok)

	expired, err := s.ListExpired(time.Now())
	require.NoError(t, err)
	assert.Empty(t, expired, "Окно ещё не истекло")

	ok, err = s.UpdateExpiration(entry.ID, now.Add(-1*time.Minute))
	require.NoError(t, err)
	require.True(t, ok)

	expired, err = s.ListExpired(time.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, entry.ID, expired[0].ID)
}
