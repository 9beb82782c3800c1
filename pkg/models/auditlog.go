package models

type AuditLog struct {
	ResourceID   int            `json:"resource_id"`
	ResourceType string         `json:"resource_type"`
	Action       string         `json:"action"` // create, update, void, delete, progress
	Actor        string         `json:"actor,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
}
