package resolve_deposit

// ResolveDepositRequest HTTP request model
type ResolveDepositRequest struct {
	Action string  `json:"action"` // confirm | reject | waive
	Reason *string `json:"reason,omitempty"`
}
