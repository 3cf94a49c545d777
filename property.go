package hubspot

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// NativeType is the application-side type of a property. It determines the
// HubSpot type and fieldType used when the property is created, and how
// resolved values are formatted before an upsert.
type NativeType string

// Supported native types.
const (
	TypeVarchar     NativeType = "varchar"
	TypeTextarea    NativeType = "textarea"
	TypeDate        NativeType = "date"
	TypeDatetime    NativeType = "datetime"
	TypeBool        NativeType = "bool"
	TypeNumber      NativeType = "number"
	TypeEnumeration NativeType = "enumeration"
)

// typeMappings maps a NativeType to the HubSpot property type. Bool maps to
// enumeration: HubSpot has no boolean type, so a checkbox is an enumeration
// over the fixed Yes/No options.
var typeMappings = map[NativeType]string{
	TypeBool:        "enumeration",
	TypeDate:        "date",
	TypeDatetime:    "datetime",
	TypeVarchar:     "string",
	TypeTextarea:    "string",
	TypeNumber:      "number",
	TypeEnumeration: "enumeration",
}

// fieldTypeMappings maps a NativeType to the HubSpot UI field type.
var fieldTypeMappings = map[NativeType]string{
	TypeBool:        "booleancheckbox",
	TypeDate:        "date",
	TypeDatetime:    "date",
	TypeVarchar:     "text",
	TypeTextarea:    "textarea",
	TypeNumber:      "number",
	TypeEnumeration: "select",
}

// Property is one field mapped between application data and a HubSpot
// contact property.
//
// Resolve computes the property's formatted value for a user record. A nil
// value means the property has no value for this user and its key is left
// out of the sync payload. A non-nil error is logged by the Manager and
// likewise results in omission; it never aborts a sync.
type Property interface {
	Name() string
	GroupName() string
	BuiltIn() bool
	Schema() PropertySchema
	Resolve(user any) (any, error)
}

// Definition holds the attributes shared by every property kind.
type Definition struct {
	// Name is the HubSpot property name. It must be unique within a
	// Manager. Custom properties are conventionally prefixed with the
	// organization name, e.g. "acme_plan_id".
	Name string

	// Label is the human readable name shown in the HubSpot UI. Defaults
	// to Name when empty.
	Label string

	// Description is shown to HubSpot users in the CRM. Optional.
	Description string

	// GroupName references a group registered on the Manager. Leave empty
	// for built-in HubSpot properties.
	GroupName string

	// NativeType drives the HubSpot type/fieldType mapping and value
	// formatting.
	NativeType NativeType

	// BuiltIn marks a property HubSpot already defines (email, firstname,
	// ...). Built-in properties are excluded from creation payloads but
	// still resolved and synced.
	BuiltIn bool

	// Options enumerates the allowed values for enumeration properties.
	Options []PropertyOption
}

// propertyCore implements the parts of Property common to all kinds.
type propertyCore struct {
	def Definition
}

func (c propertyCore) Name() string      { return c.def.Name }
func (c propertyCore) GroupName() string { return c.def.GroupName }
func (c propertyCore) BuiltIn() bool     { return c.def.BuiltIn }

// Schema returns the property-creation payload for HubSpot's contact
// properties API.
func (c propertyCore) Schema() PropertySchema {
	label := c.def.Label
	if label == "" {
		label = c.def.Name
	}
	options := c.def.Options
	if c.def.NativeType == TypeBool {
		options = boolOptions()
	}
	return PropertySchema{
		Name:        c.def.Name,
		Label:       label,
		Description: c.def.Description,
		GroupName:   c.def.GroupName,
		Type:        typeMappings[c.def.NativeType],
		FieldType:   fieldTypeMappings[c.def.NativeType],
		Options:     options,
	}
}

// boolOptions is the fixed option pair for checkbox properties. The values
// match the strings format produces for bool values.
func boolOptions() []PropertyOption {
	return []PropertyOption{
		{Value: "true", Label: "Yes", DisplayOrder: 1},
		{Value: "false", Label: "No", DisplayOrder: 2},
	}
}

// format converts a resolved value into the representation HubSpot expects:
// booleans become the strings "true"/"false" and date/datetime values become
// Unix epoch milliseconds. A nil value (including typed nil pointers) maps
// to absent.
func (c propertyCore) format(v any) (any, error) {
	if v == nil || isNilValue(v) {
		return nil, nil
	}

	switch c.def.NativeType {
	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("property %s: expected bool, got %T", c.def.Name, v)
		}
		if b {
			return "true", nil
		}
		return "false", nil
	case TypeDate, TypeDatetime:
		t, ok := timeValue(v)
		if !ok {
			return nil, fmt.Errorf("property %s: expected time.Time, got %T", c.def.Name, v)
		}
		if t.IsZero() {
			return nil, nil
		}
		return t.UnixMilli(), nil
	}
	return v, nil
}

func timeValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}

// isNilValue reports whether v is a nil pointer, map, slice, or similar
// wrapped in a non-nil interface.
func isNilValue(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// AccessorProperty derives its value by walking a dotted field path against
// the user record, e.g. "company.stripe_customer.current_subscription".
// A missing or nil step anywhere along the path resolves to absent.
type AccessorProperty struct {
	propertyCore
	accessor string
	path     []string
}

// NewAccessorProperty builds a property backed by a dotted accessor path.
func NewAccessorProperty(def Definition, accessor string) *AccessorProperty {
	return &AccessorProperty{
		propertyCore: propertyCore{def: def},
		accessor:     accessor,
		path:         strings.Split(accessor, "."),
	}
}

// Accessor returns the dotted path this property reads.
func (p *AccessorProperty) Accessor() string { return p.accessor }

// Resolve walks the accessor path. Absent steps never produce an error;
// they simply yield no value.
func (p *AccessorProperty) Resolve(user any) (any, error) {
	v, ok := lookupPath(user, p.path)
	if !ok {
		return nil, nil
	}
	return p.format(v)
}

// UserFunc derives a value from a user record.
type UserFunc func(user any) (any, error)

// ValueFunc derives a value without looking at the user, e.g. a "last
// synced at" timestamp.
type ValueFunc func() (any, error)

// FunctionProperty derives its value by calling a caller-supplied function.
// An error returned (or a panic raised) by the function is contained at
// resolution time: the Manager logs it and skips the property, so one bad
// function cannot block syncing the rest.
type FunctionProperty struct {
	propertyCore
	userFn   UserFunc
	valueFn  ValueFunc
	sendUser bool
}

// NewFunctionProperty builds a property whose value comes from a function of
// no arguments.
func NewFunctionProperty(def Definition, fn ValueFunc) *FunctionProperty {
	return &FunctionProperty{propertyCore: propertyCore{def: def}, valueFn: fn}
}

// NewUserFunctionProperty builds a property whose value comes from a
// function of the user record.
func NewUserFunctionProperty(def Definition, fn UserFunc) *FunctionProperty {
	return &FunctionProperty{propertyCore: propertyCore{def: def}, userFn: fn, sendUser: true}
}

// SendUser reports whether the underlying function takes the user record.
func (p *FunctionProperty) SendUser() bool { return p.sendUser }

// Resolve invokes the function and formats its result.
func (p *FunctionProperty) Resolve(user any) (any, error) {
	var (
		v   any
		err error
	)
	if p.sendUser {
		v, err = p.userFn(user)
	} else {
		v, err = p.valueFn()
	}
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", p.def.Name, err)
	}
	return p.format(v)
}

// ConstantProperty resolves to the same value for every user.
type ConstantProperty struct {
	propertyCore
	value any
}

// NewConstantProperty builds a property with a fixed value.
func NewConstantProperty(def Definition, value any) *ConstantProperty {
	return &ConstantProperty{propertyCore: propertyCore{def: def}, value: value}
}

// Value returns the fixed value.
func (p *ConstantProperty) Value() any { return p.value }

// Resolve returns the fixed value regardless of user.
func (p *ConstantProperty) Resolve(any) (any, error) {
	return p.format(p.value)
}
