package hubspot

import (
	"context"
	"fmt"
	"log/slog"
)

// Hub couples a Client with a Manager and drives the three sync flows:
// pushing the configured groups, pushing the configured property schemas,
// and upserting a contact from a user record.
type Hub struct {
	Client  *Client
	Manager *Manager

	// EmailProperty names the resolved property used to key contact
	// upserts. Defaults to "email".
	EmailProperty string

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// NewHub returns a Hub syncing the manager's properties through client.
func NewHub(client *Client, manager *Manager) *Hub {
	return &Hub{Client: client, Manager: manager, EmailProperty: "email"}
}

func (h *Hub) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *Hub) emailProperty() string {
	if h.EmailProperty != "" {
		return h.EmailProperty
	}
	return "email"
}

// SyncUser resolves every registered property for user and upserts the
// contact keyed by the user's email. The email must resolve to a non-empty
// string or no request is made.
func (h *Hub) SyncUser(ctx context.Context, user any) (*UpsertResult, error) {
	update := h.Manager.SyncData(user)

	email := ""
	for _, p := range update.Properties {
		if p.Property != h.emailProperty() {
			continue
		}
		if s, ok := p.Value.(string); ok {
			email = s
		}
		break
	}
	if email == "" {
		return nil, fmt.Errorf("user has no %s value to key the contact upsert", h.emailProperty())
	}

	return h.Client.UpsertContact(ctx, email, update)
}

// SyncPropertyGroups pushes the manager's groups to HubSpot, creating the
// ones the portal is missing and updating the ones it already has.
func (h *Hub) SyncPropertyGroups(ctx context.Context) error {
	existing, err := h.Client.ListPropertyGroups(ctx)
	if err != nil {
		return fmt.Errorf("list property groups: %w", err)
	}
	existingNames := make(map[string]bool, len(existing))
	for _, g := range existing {
		existingNames[g.Name] = true
	}

	for _, g := range h.Manager.Groups() {
		if existingNames[g.Name] {
			h.logger().Info("updating existing contact property group", "group", g.Name)
			if err := h.Client.UpdatePropertyGroup(ctx, g); err != nil {
				return fmt.Errorf("update property group %s: %w", g.Name, err)
			}
			continue
		}
		h.logger().Info("creating contact property group", "group", g.Name)
		if err := h.Client.CreatePropertyGroup(ctx, g); err != nil {
			return fmt.Errorf("create property group %s: %w", g.Name, err)
		}
	}
	return nil
}

// SyncProperties pushes the manager's custom property schemas to HubSpot,
// creating or updating each one, then deletes properties that sit in a
// managed group but are no longer registered. Built-in properties are never
// touched.
func (h *Hub) SyncProperties(ctx context.Context) error {
	existing, err := h.Client.ListProperties(ctx)
	if err != nil {
		return fmt.Errorf("list properties: %w", err)
	}
	existingNames := make(map[string]bool, len(existing))
	for _, p := range existing {
		existingNames[p.Name] = true
	}

	managed := make(map[string]bool)
	for _, p := range h.Manager.CustomProperties() {
		managed[p.Name()] = true

		schema := p.Schema()
		if existingNames[schema.Name] {
			h.logger().Info("updating existing contact property", "property", schema.Name)
			if err := h.Client.UpdateProperty(ctx, schema); err != nil {
				return fmt.Errorf("update property %s: %w", schema.Name, err)
			}
			continue
		}
		h.logger().Info("creating contact property", "property", schema.Name)
		if err := h.Client.CreateProperty(ctx, schema); err != nil {
			return fmt.Errorf("create property %s: %w", schema.Name, err)
		}
	}

	managedGroups := make(map[string]bool)
	for _, g := range h.Manager.Groups() {
		managedGroups[g.Name] = true
	}
	for _, p := range existing {
		if !managedGroups[p.GroupName] || managed[p.Name] {
			continue
		}
		h.logger().Info("deleting unused contact property", "property", p.Name)
		if err := h.Client.DeleteProperty(ctx, p.Name); err != nil {
			return fmt.Errorf("delete property %s: %w", p.Name, err)
		}
	}
	return nil
}
