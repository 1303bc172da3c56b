package model

// DefaultFields returns the schema seeded into a fresh installation.
// Returned as a new slice each call so callers can mutate freely.
func DefaultFields() []FieldDefinition {
	return []FieldDefinition{
		{ID: "1", Label: "Location", Kind: FieldText, Required: true},
		{ID: "2", Label: "Sector", Kind: FieldText, Required: true},
		{ID: "3", Label: "Company", Kind: FieldText, Required: true},
		{ID: "4", Label: "Operator", Kind: FieldText, Required: true},
		{ID: "5", Label: "Equipment", Kind: FieldText, Required: true},
		{ID: "6", Label: "Problem Description", Kind: FieldTextarea, Required: true},
	}
}

// DefaultSettings returns the settings of a fresh installation.
func DefaultSettings() AppSettings {
	return AppSettings{
		Fields:           DefaultFields(),
		CompanyName:      "MantemOS",
		AppTitle:         "MantemOS",
		PrimaryColor:     "#2563eb",
		BorderStyle:      Border2xl,
		CloudSyncEnabled: false,
	}
}
