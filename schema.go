package hubspot

// Group is a named category HubSpot uses to organize custom contact
// properties. The JSON form is the create-group payload.
type Group struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// PropertySchema is the property-creation payload for HubSpot's contact
// properties API, and the shape HubSpot returns when listing properties.
type PropertySchema struct {
	Name        string           `json:"name,omitempty"`
	Label       string           `json:"label"`
	Description string           `json:"description,omitempty"`
	GroupName   string           `json:"groupName,omitempty"`
	Type        string           `json:"type"`
	FieldType   string           `json:"fieldType,omitempty"`
	Options     []PropertyOption `json:"options,omitempty"`
}

// PropertyOption is one allowed value of an enumeration property.
type PropertyOption struct {
	Label        string `json:"label"`
	Value        string `json:"value"`
	Description  string `json:"description,omitempty"`
	DisplayOrder int    `json:"displayOrder,omitempty"`
	Hidden       bool   `json:"hidden,omitempty"`
}

// ContactProperty is one name/value pair in a contact update.
type ContactProperty struct {
	Property string `json:"property"`
	Value    any    `json:"value"`
}

// ContactUpdate is the body of a contact create-or-update call.
type ContactUpdate struct {
	Properties []ContactProperty `json:"properties"`
}

// UpsertResult identifies the contact touched by an upsert.
type UpsertResult struct {
	Vid   int64 `json:"vid"`
	IsNew bool  `json:"isNew"`
}
