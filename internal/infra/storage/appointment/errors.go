package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrReferenceTaken возвращается при попытке сохранить запись с уже
	// существующим booking reference
	ErrReferenceTaken = errors.New("appointment.repository: booking reference already taken")

	// ErrNotDeletable возвращается при попытке удалить оплаченную или
	// завершённую запись
	ErrNotDeletable = errors.New("appointment.repository: appointment cannot be deleted")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
