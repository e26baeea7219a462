package model

// VersionInfo reports the application build, the applied schema version, and
// which optional features this deployment has enabled.
type VersionInfo struct {
	AppVersion       string          `json:"appVersion"`
	DbVersion        string          `json:"dbVersion"`
	Features         map[string]bool `json:"features"`
	MigrationNeeded  bool            `json:"migrationNeeded"`
	MigrationMessage *string         `json:"migrationMessage,omitempty"`
}
