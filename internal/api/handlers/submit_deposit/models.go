package submit_deposit

// SubmitDepositRequest HTTP request model
type SubmitDepositRequest struct {
	BookingReference string `json:"bookingReference"`
}
