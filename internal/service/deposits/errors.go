package deposits

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена либо
	// booking reference не совпал
	ErrAppointmentNotFound = errors.New("service/deposits: appointment not found")

	// ErrDepositNotPending возвращается при повторной отправке подтверждения
	// оплаты или гонке с авто-отменой
	ErrDepositNotPending = errors.New("service/deposits: deposit is not awaiting payment")

	// ErrDepositNotRequired возвращается при действии над депозитом записи без
	// депозитного требования
	ErrDepositNotRequired = errors.New("service/deposits: deposit is not required")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("service/deposits: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service/deposits: internal error")
)
