package handler

import "kycengine/internal/domain"

// ValidateResponse is the HTTP response for POST /kyc/validate.
type ValidateResponse struct {
	RunID  string                   `json:"run_id"`
	Result *domain.ValidationResult `json:"result"`
}

// BatchValidateResponse is the HTTP response for POST /kyc/validate/batch.
// Results are in request order.
type BatchValidateResponse struct {
	RunID   string                    `json:"run_id"`
	Results []domain.ValidationResult `json:"results"`
}

// TraceResponse is the HTTP response for POST /kyc/trace.
type TraceResponse struct {
	RunID      string               `json:"run_id"`
	CustomerID string               `json:"customer_id"`
	Trace      *domain.TraceSection `json:"trace"`
}
