package domain

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// DefaultStates is the allowed-state list assigned to new workplaces
var DefaultStates = []string{"Backlog", "To do", "In Progress", "In Review", "QA", "Done"}

// Workplace is the tenant root. Sprints, issues and comments reference it
// through child-side foreign keys; there are no stored link lists to keep
// in sync.
type Workplace struct {
	BaseModel
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	States      datatypes.JSON `gorm:"type:jsonb" json:"states"`
}

// TableName specifies the table name for Workplace
func (Workplace) TableName() string {
	return "workplaces"
}

// StateList decodes the allowed-state list
func (w *Workplace) StateList() []string {
	var states []string
	if len(w.States) > 0 {
		_ = json.Unmarshal(w.States, &states)
	}
	return states
}

// HasState reports whether state is in the allowed-state list
func (w *Workplace) HasState(state string) bool {
	for _, s := range w.StateList() {
		if s == state {
			return true
		}
	}
	return false
}

// EncodeStates encodes a state list for storage
func EncodeStates(states []string) datatypes.JSON {
	raw, _ := json.Marshal(states)
	return raw
}
