package tasks

import (
	"log"

	"referral_queue/internal/queue"

	"github.com/robfig/cron/v3"
)

// SweepExpiredEntries снимает заявки с истёкшим окном активности и один раз
// продвигает очередь. Ошибка одной итерации логируется, процесс продолжает работать.
func SweepExpiredEntries(engine *queue.Engine) {
	n, err := engine.SweepExpired()
	if err != nil {
		log.Println("Ошибка обработки истёкших заявок:", err)
		return
	}
	if n > 0 {
		log.Printf("Снято истёкших заявок: %d\n", n)
	}
}

// InitScheduler инициализирует планировщик cron-задач.
func InitScheduler(engine *queue.Engine) *cron.Cron {
	c := cron.New(cron.WithSeconds())

	// Проверка истёкших окон раз в 60 секунд.
	_, err := c.AddFunc("0 * * * * *", func() { SweepExpiredEntries(engine) })
	if err != nil {
		log.Println("Ошибка запуска cron-задачи SweepExpiredEntries:", err)
	}

	c.Start()
	log.Println("Cron-планировщик запущен.")
	return c
}
