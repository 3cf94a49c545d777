package hubspot

import (
	"fmt"
	"log/slog"
)

// Manager is the registry of property groups and property definitions.
// Groups and properties are registered once at application startup; after
// that the Manager is read-only and safe for concurrent use.
type Manager struct {
	// Logger receives per-property resolution failures. Defaults to
	// slog.Default when nil.
	Logger *slog.Logger

	groups     []Group
	groupNames map[string]bool
	props      []Property
	propNames  map[string]bool
}

// NewManager returns an empty registry.
func NewManager() *Manager {
	return &Manager{
		groupNames: make(map[string]bool),
		propNames:  make(map[string]bool),
	}
}

func (m *Manager) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// AddGroup registers a property group. Group names must be unique; a
// duplicate leaves the registry unchanged and returns a
// *DuplicateGroupError.
func (m *Manager) AddGroup(name, displayName string) error {
	if m.groupNames[name] {
		return &DuplicateGroupError{Name: name}
	}
	m.groupNames[name] = true
	m.groups = append(m.groups, Group{Name: name, DisplayName: displayName})
	return nil
}

// AddProperty registers a property definition. Property names must be
// unique and any referenced group must already be registered. A failed call
// leaves the registry unchanged.
func (m *Manager) AddProperty(p Property) error {
	if m.propNames[p.Name()] {
		return &DuplicateNameError{Name: p.Name()}
	}
	if g := p.GroupName(); g != "" && !m.groupNames[g] {
		return &UnknownGroupError{Group: g, Property: p.Name()}
	}
	// Built-in properties are never created, so only custom enumerations
	// need their options up front.
	if !p.BuiltIn() {
		if s := p.Schema(); s.Type == "enumeration" && len(s.Options) == 0 {
			return &MissingOptionsError{Name: p.Name()}
		}
	}
	m.propNames[p.Name()] = true
	m.props = append(m.props, p)
	return nil
}

// Groups returns the registered groups in registration order, ready to send
// as create-group payloads.
func (m *Manager) Groups() []Group {
	out := make([]Group, len(m.groups))
	copy(out, m.groups)
	return out
}

// GroupPayloads returns the create-group payloads. Group is already the
// wire shape, so this is Groups under the name the sync flows use.
func (m *Manager) GroupPayloads() []Group {
	return m.Groups()
}

// Properties returns every registered property in registration order.
func (m *Manager) Properties() []Property {
	out := make([]Property, len(m.props))
	copy(out, m.props)
	return out
}

// CustomProperties returns the registered properties this library defines
// in HubSpot, in contrast with the built-in properties HubSpot already has.
func (m *Manager) CustomProperties() []Property {
	var out []Property
	for _, p := range m.props {
		if !p.BuiltIn() {
			out = append(out, p)
		}
	}
	return out
}

// PropertyPayloads returns the creation payloads for every non-built-in
// property, in registration order. It is a pure function of the registered
// state.
func (m *Manager) PropertyPayloads() []PropertySchema {
	var out []PropertySchema
	for _, p := range m.props {
		if p.BuiltIn() {
			continue
		}
		out = append(out, p.Schema())
	}
	return out
}

// Resolve computes the formatted value of every registered property for
// user. Properties that resolve to nothing, return an error, or panic are
// logged and omitted; absent keys tell HubSpot to leave the contact field
// unchanged. Resolve itself never fails.
func (m *Manager) Resolve(user any) map[string]any {
	out := make(map[string]any)
	for _, p := range m.props {
		v, ok := m.resolveOne(p, user)
		if ok {
			out[p.Name()] = v
		}
	}
	return out
}

// SyncData builds the contact-update payload for user, in registration
// order, skipping properties with no value.
func (m *Manager) SyncData(user any) ContactUpdate {
	var update ContactUpdate
	for _, p := range m.props {
		v, ok := m.resolveOne(p, user)
		if !ok {
			continue
		}
		update.Properties = append(update.Properties, ContactProperty{
			Property: p.Name(),
			Value:    v,
		})
	}
	return update
}

func (m *Manager) resolveOne(p Property, user any) (any, bool) {
	v, err := safeResolve(p, user)
	if err != nil {
		m.logger().Error("could not resolve hubspot property",
			"property", p.Name(),
			"error", err,
		)
		return nil, false
	}
	if v == nil {
		return nil, false
	}
	return v, true
}

// safeResolve contains panics from user-supplied functions and accessor
// walks so one bad property cannot abort a whole sync.
func safeResolve(p Property, user any) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic resolving property %s: %v", p.Name(), rec)
		}
	}()
	return p.Resolve(user)
}
