package hubspot_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/syncline/hubspot"
)

// fakePortal is a minimal in-memory stand-in for the HubSpot v1 properties
// and contacts endpoints, recording every call it serves.
type fakePortal struct {
	mu       sync.Mutex
	groups   []hubspot.Group
	props    []hubspot.PropertySchema
	calls    []string
	upserted map[string]hubspot.ContactUpdate
}

func newFakePortal() *fakePortal {
	return &fakePortal{upserted: make(map[string]hubspot.ContactUpdate)}
}

func (f *fakePortal) record(r *http.Request) {
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
}

func (f *fakePortal) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /properties/v1/contacts/groups", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.record(r)
		_ = json.NewEncoder(w).Encode(f.groups)
	})
	mux.HandleFunc("POST /properties/v1/contacts/groups", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.record(r)
		var g hubspot.Group
		if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
			t.Errorf("decode group: %v", err)
		}
		f.groups = append(f.groups, g)
	})
	mux.HandleFunc("PUT /properties/v1/contacts/groups/named/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.record(r)
	})

	mux.HandleFunc("GET /properties/v1/contacts/properties", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.record(r)
		_ = json.NewEncoder(w).Encode(f.props)
	})
	mux.HandleFunc("POST /properties/v1/contacts/properties", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.record(r)
		var p hubspot.PropertySchema
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode property: %v", err)
		}
		f.props = append(f.props, p)
	})
	mux.HandleFunc("PUT /properties/v1/contacts/properties/named/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.record(r)
	})
	mux.HandleFunc("DELETE /properties/v1/contacts/properties/named/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.record(r)
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST /contacts/v1/contact/createOrUpdate/email/{email}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.record(r)
		var update hubspot.ContactUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			t.Errorf("decode contact update: %v", err)
		}
		email := r.PathValue("email")
		_, existed := f.upserted[email]
		f.upserted[email] = update
		_ = json.NewEncoder(w).Encode(map[string]any{"vid": 101, "isNew": !existed})
	})

	return mux
}

func (f *fakePortal) calledPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func newTestHub(t *testing.T, portal *fakePortal) *hubspot.Hub {
	t.Helper()
	srv := httptest.NewServer(portal.handler(t))
	t.Cleanup(srv.Close)
	client := hubspot.NewClient(hubspot.Config{APIKey: "test-key", BaseURL: srv.URL})
	return hubspot.NewHub(client, newOrgManager(t))
}

func TestSyncPropertyGroupsCreatesMissing(t *testing.T) {
	portal := newFakePortal()
	h := newTestHub(t, portal)

	if err := h.SyncPropertyGroups(context.Background()); err != nil {
		t.Fatalf("sync groups: %v", err)
	}
	if len(portal.groups) != 1 || portal.groups[0].Name != "org" {
		t.Errorf("portal groups = %+v", portal.groups)
	}
}

func TestSyncPropertyGroupsUpdatesExisting(t *testing.T) {
	portal := newFakePortal()
	portal.groups = []hubspot.Group{{Name: "org", DisplayName: "Old Name"}}
	h := newTestHub(t, portal)

	if err := h.SyncPropertyGroups(context.Background()); err != nil {
		t.Fatalf("sync groups: %v", err)
	}
	for _, call := range portal.calledPaths() {
		if call == "POST /properties/v1/contacts/groups" {
			t.Error("existing group was created, not updated")
		}
	}
	found := false
	for _, call := range portal.calledPaths() {
		if call == "PUT /properties/v1/contacts/groups/named/org" {
			found = true
		}
	}
	if !found {
		t.Errorf("no update call made: %v", portal.calledPaths())
	}
}

func TestSyncPropertiesCreateUpdateDelete(t *testing.T) {
	portal := newFakePortal()
	portal.props = []hubspot.PropertySchema{
		// Already exists: should be updated in place.
		{Name: "org_company_id", GroupName: "org", Type: "number"},
		// In a managed group but no longer registered: should be deleted.
		{Name: "org_old_flag", GroupName: "org", Type: "string"},
		// Outside managed groups: must not be touched.
		{Name: "email", GroupName: "contactinformation", Type: "string"},
	}
	h := newTestHub(t, portal)

	if err := h.SyncProperties(context.Background()); err != nil {
		t.Fatalf("sync properties: %v", err)
	}

	calls := portal.calledPaths()
	wantCalls := map[string]bool{
		"PUT /properties/v1/contacts/properties/named/org_company_id":  false,
		"DELETE /properties/v1/contacts/properties/named/org_old_flag": false,
	}
	for _, call := range calls {
		if _, ok := wantCalls[call]; ok {
			wantCalls[call] = true
		}
		if call == "DELETE /properties/v1/contacts/properties/named/email" {
			t.Error("built-in property outside managed groups was deleted")
		}
		if call == "POST /properties/v1/contacts/properties" {
			t.Error("existing property was created, not updated")
		}
	}
	for call, seen := range wantCalls {
		if !seen {
			t.Errorf("missing call %s in %v", call, calls)
		}
	}
}

func TestSyncPropertiesCreatesNew(t *testing.T) {
	portal := newFakePortal()
	h := newTestHub(t, portal)

	if err := h.SyncProperties(context.Background()); err != nil {
		t.Fatalf("sync properties: %v", err)
	}
	if len(portal.props) != 1 || portal.props[0].Name != "org_company_id" {
		t.Errorf("portal props = %+v", portal.props)
	}
}

func TestSyncUser(t *testing.T) {
	portal := newFakePortal()
	h := newTestHub(t, portal)

	result, err := h.SyncUser(context.Background(), testUser())
	if err != nil {
		t.Fatalf("sync user: %v", err)
	}
	if result.Vid != 101 || !result.IsNew {
		t.Errorf("result = %+v", result)
	}

	update, ok := portal.upserted["a@b.com"]
	if !ok {
		t.Fatalf("no upsert recorded: %v", portal.upserted)
	}
	if len(update.Properties) != 2 {
		t.Errorf("update = %+v", update)
	}
}

func TestSyncUserWithoutEmail(t *testing.T) {
	portal := newFakePortal()
	h := newTestHub(t, portal)

	_, err := h.SyncUser(context.Background(), &user{Company: &company{ID: 1}})
	if err == nil {
		t.Fatal("expected an error for a user with no email")
	}
	if !strings.Contains(err.Error(), "email") {
		t.Errorf("error does not mention the email property: %v", err)
	}
	if len(portal.calledPaths()) != 0 {
		t.Errorf("requests were made despite missing email: %v", portal.calledPaths())
	}
}
