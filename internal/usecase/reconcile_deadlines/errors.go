package reconcile_deadlines

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reconcile_deadlines: internal error")
)
