package dto

// StatusResponse is the generic acknowledgement body for state-changing calls.
type StatusResponse struct {
	Status string `json:"status"`
}

// PhraseResponse carries a recovery phrase for one-time display.
// The phrase is plaintext by necessity; clients must show it once and drop it.
type PhraseResponse struct {
	Phrase string `json:"phrase"`

	// RevealWindowSeconds tells the client how long it may keep the phrase
	// on screen before blanking it.
	RevealWindowSeconds int `json:"reveal_window_seconds,omitempty"`
}
