package dto

import (
	keysUseCase "github.com/prayerbox/keyguard/internal/keys/usecase"
)

// StatusResponse is the generic acknowledgement body for state-changing calls.
type StatusResponse struct {
	Status string `json:"status"`
}

// DiagnosisResponse describes what a user can still do with their key material.
type DiagnosisResponse struct {
	State             string `json:"state"`
	RecoveryAvailable bool   `json:"recovery_available"`
	Version           uint   `json:"version"`
}

// MapDiagnosisToResponse converts a usecase diagnosis to an API response.
func MapDiagnosisToResponse(d *keysUseCase.Diagnosis) DiagnosisResponse {
	return DiagnosisResponse{
		State:             string(d.State),
		RecoveryAvailable: d.RecoveryAvailable,
		Version:           d.Version,
	}
}
