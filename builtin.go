package hubspot

// builtInContactProperties are the default contact properties every HubSpot
// portal defines. Registering one of these requires Definition.BuiltIn so
// the manager keeps it out of creation payloads.
var builtInContactProperties = map[string]PropertySchema{
	"email":               {Name: "email", Label: "Email", Type: "string", FieldType: "text", GroupName: "contactinformation"},
	"firstname":           {Name: "firstname", Label: "First Name", Type: "string", FieldType: "text", GroupName: "contactinformation"},
	"lastname":            {Name: "lastname", Label: "Last Name", Type: "string", FieldType: "text", GroupName: "contactinformation"},
	"phone":               {Name: "phone", Label: "Phone Number", Type: "string", FieldType: "phonenumber", GroupName: "contactinformation"},
	"company":             {Name: "company", Label: "Company Name", Type: "string", FieldType: "text", GroupName: "contactinformation"},
	"lifecyclestage":      {Name: "lifecyclestage", Label: "Lifecycle Stage", Type: "enumeration", FieldType: "radio", GroupName: "contactinformation"},
	"hubspot_owner_id":    {Name: "hubspot_owner_id", Label: "Owner", Type: "string", FieldType: "text", GroupName: "contactinformation"},
	"hs_object_id":        {Name: "hs_object_id", Label: "Object ID", Type: "number", FieldType: "number"},
	"hs_createdate":       {Name: "hs_createdate", Label: "Create date", Type: "datetime", FieldType: "date"},
	"hs_lastmodifieddate": {Name: "hs_lastmodifieddate", Label: "Last modified date", Type: "datetime", FieldType: "date"},
}

// IsBuiltIn reports whether name is one of HubSpot's default contact
// properties.
func IsBuiltIn(name string) bool {
	_, ok := builtInContactProperties[name]
	return ok
}

// BuiltInSchema returns the schema of a default contact property.
func BuiltInSchema(name string) (PropertySchema, bool) {
	s, ok := builtInContactProperties[name]
	return s, ok
}
