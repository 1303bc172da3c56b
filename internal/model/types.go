package model

// Technician is a field technician allowed to issue service orders.
//
// JSON field names match the persisted object shape from day one; renaming
// them breaks existing backups and the cloud mirror.
type Technician struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"re"`
	Login              string `json:"login"`
	Password           string `json:"password"`
	ShiftStart         string `json:"shiftStart"` // "HH:mm"
	ShiftEnd           string `json:"shiftEnd"`   // "HH:mm"
}

// FieldKind enumerates the capture-form input types.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldTextarea FieldKind = "textarea"
	FieldNumber   FieldKind = "number"
)

// FieldDefinition is one entry of the capture-form schema.
// The schema is an ordered sequence; definition order is capture order.
type FieldDefinition struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"type"`
	Required bool      `json:"required"`
}

// StatusCompleted is the only status a service order ever has.
// Orders are immutable once issued; there is no lifecycle beyond creation.
const StatusCompleted = "Completed"

// ServiceOrder is a completed service-order record.
//
// TechName and TechRE are denormalized snapshots taken at issuance time:
// deleting or renaming the technician later must not rewrite history.
//
// Data is keyed by the field LABEL active at issuance time, not the field id.
// Renaming a field's label therefore orphans that field on historical orders.
// Existing persisted orders already use labels as keys, so this stays.
type ServiceOrder struct {
	ID        string            `json:"id"`
	TechID    string            `json:"techId"`
	TechName  string            `json:"techName"`
	TechRE    string            `json:"techRE"`
	Timestamp int64             `json:"timestamp"` // epoch milliseconds
	Data      map[string]string `json:"data"`
	Status    string            `json:"status"`
}

// BorderStyle enumerates the branding border-radius presets.
type BorderStyle string

const (
	BorderNone BorderStyle = "none"
	BorderMd   BorderStyle = "md"
	BorderLg   BorderStyle = "lg"
	BorderXl   BorderStyle = "xl"
	Border2xl  BorderStyle = "2xl"
)

// AppSettings is the process-wide application configuration: branding plus
// the capture-form schema. A single instance exists per installation and is
// persisted with every change.
type AppSettings struct {
	Logo             string            `json:"logo,omitempty"` // data URI, empty when unset
	Fields           []FieldDefinition `json:"osFields"`
	CompanyName      string            `json:"companyName"`
	AppTitle         string            `json:"appTitle"`
	PrimaryColor     string            `json:"primaryColor"`
	BorderStyle      BorderStyle       `json:"borderRadius"`
	CloudSyncEnabled bool              `json:"cloudSyncEnabled"`
}

// Snapshot is the full local state triple, as pushed to the cloud mirror and
// as written to backup exports. Key names match the export document shape.
type Snapshot struct {
	Technicians []Technician   `json:"users"`
	Orders      []ServiceOrder `json:"orders"`
	Settings    *AppSettings   `json:"settings"`
}
