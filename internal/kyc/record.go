package kyc

import "encoding/json"

// Record is the accumulated result of one KYC dialogue session. Fields are
// filled strictly in order (name, phone, PAN, consent); Timestamp is set once,
// only when the session completes successfully.
type Record struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	PAN       string `json:"pan"`
	Consent   bool   `json:"consent"`
	Timestamp string `json:"timestamp"`
}

// Complete reports whether every required field was obtained and consent given.
func (r Record) Complete() bool {
	return r.Name != "" && r.Phone != "" && r.PAN != "" && r.Consent && r.Timestamp != ""
}

// JSON renders the record as the persisted session document.
func (r Record) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
