package request

// SetSettingRequest is the body for storing a system setting. Encrypted
// values (provider API keys) are sealed with the configured fernet key
// before they touch the database.
type SetSettingRequest struct {
	Value     string `json:"value"`
	Encrypted bool   `json:"encrypted,omitempty"`
}
