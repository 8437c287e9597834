package get_available_slots

import (
	"time"

	"github.com/dkomnin/SBS-BookingService/pkg/types"
)

// Request модель запроса на получение слотов публичной страницы бронирования
type Request struct {
	Slug            string    // Slug бизнеса из URL публичной страницы
	StylistID       int64     // ID мастера
	Date            time.Time // Дата (без времени)
	DurationMinutes int       // Суммарная длительность выбранных услуг
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time // Дата, на которую запрашивались слоты
	StylistID       int64     // ID мастера
	DurationMinutes int       // Запрошенная длительность
	Slots           []Slot    // Все слоты дня в хронологическом порядке
}

// Slot модель временного слота
// Прошедшие и занятые слоты возвращаются с Available=false, а не скрываются:
// клиентская страница показывает их неактивными
type Slot struct {
	StartTime types.TimeString // Время начала слота ("10:00")
	Label     string           // Человекочитаемая подпись ("10:00 - 11:30")
	Available bool             // Можно ли выбрать слот
}
