package get_available_slots

import (
	"fmt"
	"time"

	"github.com/dkomnin/SBS-BookingService/internal/domain"
	"github.com/dkomnin/SBS-BookingService/pkg/types"
)

// generateSlots генерирует все слоты дня для разрешённого рабочего окна
// Кандидаты идут с фиксированным шагом domain.SlotIntervalMinutes от времени
// открытия; кандидат, конец которого выходит за закрытие, отбрасывается
// (слот, заканчивающийся ровно в закрытие, допустим)
//
// Каждый кандидат размечается доступностью:
//   - сегодняшние кандидаты, начинающиеся не позже текущего момента, недоступны
//     (но возвращаются, чтобы страница показала их неактивными)
//   - кандидат недоступен, если интервал [start, start+duration) пересекается
//     с активной записью мастера
func generateSlots(
	window domain.WorkingWindow,
	durationMinutes int,
	requestDate time.Time,
	now time.Time,
	existing []*domain.Appointment,
) ([]Slot, error) {
	if !window.Open {
		return []Slot{}, nil
	}

	slots := make([]Slot, 0)
	current := window.Start

	for current.IsBefore(window.End) {
		slotEnd, err := current.AddMinutes(durationMinutes)
		if err != nil {
			// Конец слота перевалил за полночь - дальше кандидатов нет
			break
		}
		if slotEnd.IsAfter(window.End) {
			break
		}

		startInstant, err := current.OnDate(requestDate)
		if err != nil {
			return nil, err
		}

		available := true

		// Сегодняшние кандидаты в прошлом показываются, но недоступны
		if isSameDay(requestDate, now) && !startInstant.After(now) {
			available = false
		}

		if available {
			candidate := domain.Interval{
				Start: startInstant,
				End:   startInstant.Add(time.Duration(durationMinutes) * time.Minute),
			}
			if domain.HasConflict(candidate, existing) {
				available = false
			}
		}

		slots = append(slots, Slot{
			StartTime: current,
			Label:     slotLabel(current, slotEnd),
			Available: available,
		})

		current, err = current.AddMinutes(domain.SlotIntervalMinutes)
		if err != nil {
			break
		}
	}

	return slots, nil
}

func slotLabel(start, end types.TimeString) string {
	return fmt.Sprintf("%s - %s", start, end)
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
