// Package hubspot maps application user records onto HubSpot CRM contact
// properties and pushes them through HubSpot's REST API.
//
// A Manager holds an ordered registry of property groups and property
// definitions. Each property knows how to derive its value from a user
// record: an AccessorProperty walks a dotted field path, a FunctionProperty
// invokes a caller-supplied function, and a ConstantProperty returns a fixed
// value. At sync time the Manager resolves every registered property for a
// user and the Client upserts the resulting name/value pairs as a HubSpot
// contact keyed by email.
//
// Registration happens once at application startup. After that the Manager
// is read-only, so it is safe to share across goroutines.
package hubspot
