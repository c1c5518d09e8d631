package catalog

import "time"

type State string

const (
	StateUnregistered                 State = "unregistered"
	StateRegistering                  State = "registering"
	StateRegisteredPendingPropagation State = "registered_pending_propagation"
	StatePropagated                   State = "propagated"
)

// Entry is one row of the schema catalog: a dynamic attribute that has been
// introduced into the gene document collection. Rows are never deleted.
type Entry struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement" json:"-"`
	AttributeName       string     `gorm:"uniqueIndex;not null;column:attribute_name" json:"name"`
	DataType            string     `gorm:"not null;default:'string';column:data_type" json:"data_type"`
	DefaultValue        string     `gorm:"column:default_value" json:"default"`
	CreatedAt           time.Time  `gorm:"not null;autoCreateTime;column:created_at" json:"created_at"`
	PropagatedAt        *time.Time `gorm:"column:propagated_at" json:"propagated_at,omitempty"`
	PropagatedDocuments int64      `gorm:"not null;default:0;column:propagated_documents" json:"propagated_documents"`
}

func (Entry) TableName() string { return "schema_evolution_log" }

func (e *Entry) State() State {
	switch {
	case e == nil || e.ID == 0:
		return StateUnregistered
	case e.PropagatedAt == nil:
		return StateRegisteredPendingPropagation
	default:
		return StatePropagated
	}
}
