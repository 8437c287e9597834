package get_business_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/dkomnin/SBS-BookingService/internal/domain"
	"github.com/dkomnin/SBS-BookingService/internal/service/appointments/models"
)

// ParseQuery собирает запрос сервиса из query-параметров
// ?stylistId=&startDate=&endDate=&status=&includeInactive=
func ParseQuery(businessID int64, query url.Values) (*models.ListAppointmentsRequest, error) {
	req := &models.ListAppointmentsRequest{BusinessID: businessID}

	if raw := query.Get("stylistId"); raw != "" {
		stylistID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		if stylistID <= 0 {
			return nil, fmt.Errorf("stylistId must be positive")
		}
		req.StylistID = &stylistID
	}

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	req.IncludeInactive = query.Get("includeInactive") == "true"

	return req, nil
}
