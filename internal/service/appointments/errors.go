package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена в бизнесе
	ErrAppointmentNotFound = errors.New("service/appointments: appointment not found")

	// ErrInvalidTransition возвращается при запрещённом переходе статуса
	ErrInvalidTransition = errors.New("service/appointments: invalid status transition")

	// ErrNotDeletable возвращается при попытке удалить оплаченную или
	// завершённую запись
	ErrNotDeletable = errors.New("service/appointments: appointment cannot be deleted")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("service/appointments: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service/appointments: internal error")
)
