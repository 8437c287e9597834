package create_booking

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден или неактивен
	ErrBusinessNotFound = errors.New("create_booking: business not found")

	// ErrStylistNotFound возвращается, когда мастер не найден или неактивен
	ErrStylistNotFound = errors.New("create_booking: stylist not found")

	// ErrServiceNotFound возвращается, когда хотя бы одна из запрошенных услуг
	// не найдена (частичное совпадение отклоняется, а не отбрасывается молча)
	ErrServiceNotFound = errors.New("create_booking: one or more services not found")

	// ErrSlotNotAvailable возвращается, когда выбранный слот пересекается с
	// существующей записью мастера
	ErrSlotNotAvailable = errors.New("create_booking: slot is no longer available")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrClosed возвращается, когда мастер не работает в выбранную дату
	ErrClosed = errors.New("create_booking: stylist is not working on this date")

	// ErrOutsideWorkingHours возвращается, когда слот выходит за рабочее окно
	ErrOutsideWorkingHours = errors.New("create_booking: slot is outside working hours")

	// ErrReferenceGeneration возвращается, когда не удалось сгенерировать
	// уникальный booking reference за отведённое число попыток
	ErrReferenceGeneration = errors.New("create_booking: failed to generate unique booking reference")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
