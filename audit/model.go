// api/audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

// Entry records one directory mutation or authentication event.
type Entry struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	UserID    int             `json:"user_id"`
	Username  string          `json:"username"`
	Action    string          `json:"action"`
	Entity    string          `json:"entity"`
	EntityID  int             `json:"entity_id"`
	Success   bool            `json:"success"`
	Detail    json.RawMessage `json:"detail,omitempty"`
}
