package queue

import "errors"

var (
	// ErrDuplicateSubmission — у IP уже есть нетерминальная заявка в очереди.
	ErrDuplicateSubmission = errors.New("у вас уже есть код в очереди, допускается только один код на IP")
	// ErrForbidden — завершить заявку может только её владелец.
	ErrForbidden = errors.New("нет прав на завершение этой заявки")
	// ErrNotFound — заявка не найдена.
	ErrNotFound = errors.New("заявка не найдена")
)

// ValidationError описывает нарушения ограничений полей при подаче заявки.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "ошибка валидации данных"
}
