package domain

import "time"

// AuditEntry is one immutable record of a mutating action. Entries are
// append-only: they are never updated or deleted once written.
type AuditEntry struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actor_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Changes    map[string]any `json:"changes"`
	IPAddress  string         `json:"ip_address,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AuditFilter narrows an audit query. Zero-valued fields impose no
// constraint; populated fields combine with AND semantics.
type AuditFilter struct {
	ActorID    string
	EntityType string
	EntityID   string
	From       time.Time
	To         time.Time
}
