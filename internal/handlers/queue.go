package handlers

import (
	"errors"
	"log"
	"net"
	"net/http"
	"strings"

	"referral_queue/internal/queue"
	"referral_queue/internal/response"

	"github.com/gin-gonic/gin"
)

// SubmitRequest — тело запроса на подачу реферального кода.
type SubmitRequest struct {
	Name         string `json:"name" example:"Мария"`
	ReferralCode string `json:"referralCode" example:"ABC123XYZ"`
}

// QueueHandler связывает HTTP-фасад с движком ротации очереди.
type QueueHandler struct {
	Engine *queue.Engine
}

func NewQueueHandler(engine *queue.Engine) *QueueHandler {
	return &QueueHandler{Engine: engine}
}

// getClientIP определяет идентичность вызывающего по сетевому адресу:
// первый адрес из X-Forwarded-For, затем X-Real-IP, затем адрес соединения.
// Это единственный механизм аутентификации, и он заведомо подделываем.
func getClientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil && host != "" {
		return host
	}
	if c.Request.RemoteAddr != "" {
		return c.Request.RemoteAddr
	}
	return "127.0.0.1"
}

// GetQueueHandler обрабатывает запрос текущего состояния очереди
// @Summary		Снимок очереди
// @Description	Возвращает список заявок (коды неактивных замаскированы), счётчики и активную заявку
// @Tags			queue
// @Accept			json
// @Produce		json
// @Success		200	{object}	queue.Snapshot	"Текущий снимок очереди"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (INTERNAL_ERROR)"
// @Router			/api/queue [get]
func (h *QueueHandler) GetQueueHandler(c *gin.Context) {
	snapshot, err := h.Engine.GetSnapshot()
	if err != nil {
		log.Println("Ошибка сборки снимка очереди:", err)
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Внутренняя ошибка сервера",
		})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// SubmitHandler обрабатывает подачу нового реферального кода
// @Summary		Подача кода в очередь
// @Description	Добавляет заявку в очередь; при свободном активном слоте заявка активируется сразу
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			request	body		SubmitRequest	true	"Имя и реферальный код"
// @Success		201	{object}	models.QueueEntry	"Созданная заявка"
// @Failure		400	{object}	response.ValidationErrorResponse	"Ошибка валидации (VALIDATION_ERROR) или повторная подача (DUPLICATE_SUBMISSION)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (INTERNAL_ERROR)"
// @Router			/api/queue [post]
func (h *QueueHandler) SubmitHandler(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_BODY",
			Message: "Неверное тело запроса",
		})
		return
	}

	clientIP := getClientIP(c)
	entry, err := h.Engine.Submit(req.Name, req.ReferralCode, clientIP)
	if err != nil {
		var validationErr *queue.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, response.ValidationErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "Ошибка валидации данных",
				Errors:  validationErr.Fields,
			})
		case errors.Is(err, queue.ErrDuplicateSubmission):
			c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Code:    "DUPLICATE_SUBMISSION",
				Message: "У вас уже есть код в очереди. Допускается только один код на IP.",
			})
		default:
			log.Println("Ошибка добавления в очередь:", err)
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{
				Code:    "INTERNAL_ERROR",
				Message: "Внутренняя ошибка сервера",
			})
		}
		return
	}

	h.Engine.PublishUpdate()
	c.JSON(http.StatusCreated, entry)
}

// CompleteHandler обрабатывает завершение заявки её владельцем
// @Summary		Завершение заявки
// @Description	Помечает заявку завершённой и продвигает очередь; доступно только владельцу заявки
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID заявки"
// @Success		200	{object}	response.SuccessResponse	"Заявка завершена"
// @Failure		403	{object}	response.ErrorResponse	"Нет прав на завершение (FORBIDDEN)"
// @Failure		404	{object}	response.ErrorResponse	"Заявка не найдена (ENTRY_NOT_FOUND)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (INTERNAL_ERROR)"
// @Router			/api/queue/{id}/complete [post]
func (h *QueueHandler) CompleteHandler(c *gin.Context) {
	id := c.Param("id")
	clientIP := getClientIP(c)

	if err := h.Engine.Complete(id, clientIP); err != nil {
		switch {
		case errors.Is(err, queue.ErrForbidden):
			c.JSON(http.StatusForbidden, response.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "Нет прав на завершение этой заявки",
			})
		case errors.Is(err, queue.ErrNotFound):
			c.JSON(http.StatusNotFound, response.ErrorResponse{
				Code:    "ENTRY_NOT_FOUND",
				Message: "Заявка не найдена",
			})
		default:
			log.Println("Ошибка завершения заявки:", err)
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{
				Code:    "INTERNAL_ERROR",
				Message: "Внутренняя ошибка сервера",
			})
		}
		return
	}

	h.Engine.PublishUpdate()
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Заявка помечена завершённой"})
}

// MyEntryHandler обрабатывает запрос собственной заявки вызывающего
// @Summary		Моя заявка
// @Description	Возвращает нетерминальную заявку вызывающего IP
// @Tags			queue
// @Accept			json
// @Produce		json
// @Success		200	{object}	models.QueueEntry	"Заявка вызывающего"
// @Failure		404	{object}	response.ErrorResponse	"Заявки нет (ENTRY_NOT_FOUND)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (INTERNAL_ERROR)"
// @Router			/api/my-entry [get]
func (h *QueueHandler) MyEntryHandler(c *gin.Context) {
	clientIP := getClientIP(c)

	entry, err := h.Engine.MyEntry(clientIP)
	if err != nil {
		log.Println("Ошибка поиска заявки по IP:", err)
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Внутренняя ошибка сервера",
		})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, response.ErrorResponse{
			Code:    "ENTRY_NOT_FOUND",
			Message: "У вас нет заявки в очереди",
		})
		return
	}
	c.JSON(http.StatusOK, entry)
}
