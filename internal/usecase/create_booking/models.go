package create_booking

import (
	"time"

	"github.com/dkomnin/SBS-BookingService/pkg/types"
)

// Request модель запроса публичного бронирования
type Request struct {
	Slug       string           // Slug бизнеса из URL публичной страницы
	ServiceIDs []int64          // ID выбранных услуг (минимум одна)
	StylistID  int64            // ID мастера
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала слота ("10:00")

	// Контактные данные клиента
	FirstName string
	LastName  string
	Phone     string  // Обязательный, первичный ключ поиска клиента
	Email     *string // Опциональный
	Notes     *string // Опциональные пожелания клиента
}

// Response модель ответа с созданной записью
type Response struct {
	AppointmentID    int64     // ID созданной записи
	BookingReference string    // Код для неавторизованного доступа клиента
	Status           string    // Статус записи
	RequestedAt      time.Time // Момент начала
	DurationMinutes  int       // Суммарная длительность
	TotalPrice       float64   // Суммарная цена

	// Условия депозита
	DepositRequired     bool
	DepositAmount       float64
	PaymentDeadline     *time.Time // nil, если депозит не требуется
	PaymentInstructions *string    // Банковские реквизиты бизнеса
}
