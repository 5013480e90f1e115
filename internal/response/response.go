package response

// SuccessResponse представляет успешный ответ API
type SuccessResponse struct {
	Message string `json:"message" example:"Операция успешно выполнена"`
}

// ErrorResponse представляет ответ с ошибкой API
type ErrorResponse struct {
	// Код ошибки для программной обработки
	// example: DUPLICATE_SUBMISSION
	Code string `json:"code"`

	// Человекочитаемое сообщение об ошибке
	// example: У вас уже есть код в очереди
	Message string `json:"message"`

	// Дополнительные детали об ошибке (опционально)
	// example: допускается только один код на IP
	Details string `json:"details,omitempty"`
}

// ValidationErrorResponse представляет ответ с ошибками валидации полей
type ValidationErrorResponse struct {
	// Код ошибки для программной обработки
	// example: VALIDATION_ERROR
	Code string `json:"code"`

	// Человекочитаемое сообщение об ошибке
	// example: Ошибка валидации данных
	Message string `json:"message"`

	// Нарушения по полям: имя поля — описание нарушения
	Errors map[string]string `json:"errors"`
}
