package get_available_slots

import (
	"github.com/dkomnin/SBS-BookingService/internal/domain"
	getSlots "github.com/dkomnin/SBS-BookingService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель временного слота
type SlotResponse struct {
	StartTime string `json:"startTime"` // "10:00"
	Label     string `json:"label"`     // "10:00 - 11:30"
	Available bool   `json:"available"`
}

// AvailableSlotsResponse HTTP модель ответа со слотами
type AvailableSlotsResponse struct {
	Date            string         `json:"date"` // "2025-10-15"
	StylistID       int64          `json:"stylistId"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = SlotResponse{
			StartTime: s.StartTime.String(),
			Label:     s.Label,
			Available: s.Available,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		StylistID:       resp.StylistID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
