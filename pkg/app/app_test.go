package app

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/vango-go/routesync/internal/errors"
	"github.com/vango-go/routesync/pkg/routetable"
	"github.com/vango-go/routesync/pkg/store"
)

// fakePlugin records lifecycle calls per scope.
type fakePlugin struct {
	name    string
	bindErr error
	scopes  []*fakeScope
}

func (p *fakePlugin) Name() string { return p.name }

func (p *fakePlugin) CreateRequestScope() RequestScope {
	s := &fakeScope{plugin: p}
	p.scopes = append(p.scopes, s)
	return s
}

type fakeScope struct {
	plugin         *fakePlugin
	actionBinds    int
	componentBinds int
	rehydrated     json.RawMessage
}

func (s *fakeScope) BindActionContext(*ActionContext) error {
	s.actionBinds++
	return s.plugin.bindErr
}

func (s *fakeScope) BindComponentContext(*ComponentContext) { s.componentBinds++ }

func (s *fakeScope) Dehydrate() (json.RawMessage, error) {
	return json.RawMessage(`{"from":"` + s.plugin.name + `"}`), nil
}

func (s *fakeScope) Rehydrate(state json.RawMessage) error {
	s.rehydrated = state
	return nil
}

func newTestApp(t *testing.T, plugins ...Plugin) *App {
	t.Helper()
	a := New()
	a.RegisterStore(store.RoutesStoreName, func() store.Store { return store.NewRoutesStore() })
	for _, p := range plugins {
		if err := a.Plug(p); err != nil {
			t.Fatalf("Plug(%s): %v", p.Name(), err)
		}
	}
	return a
}

func TestPlugRejectsDuplicateNames(t *testing.T) {
	a := newTestApp(t, &fakePlugin{name: "one"})
	err := a.Plug(&fakePlugin{name: "one"})
	if !errors.HasCode(err, "R007") {
		t.Fatalf("Plug(duplicate) error = %v, want R007", err)
	}
	if got := len(a.Plugins()); got != 1 {
		t.Errorf("len(Plugins()) = %d, want 1", got)
	}
}

func TestCreateContextMakesFreshScopesAndStores(t *testing.T) {
	p := &fakePlugin{name: "p"}
	a := newTestApp(t, p)

	c1 := a.CreateContext()
	c2 := a.CreateContext()

	if len(p.scopes) != 2 {
		t.Fatalf("scopes created = %d, want 2", len(p.scopes))
	}
	if c1.ID() == c2.ID() || c1.ID() == "" {
		t.Errorf("context ids should be unique, got %q and %q", c1.ID(), c2.ID())
	}

	s1, err := c1.GetStore(store.RoutesStoreName)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := c2.GetStore(store.RoutesStoreName)
	if err != nil {
		t.Fatal(err)
	}
	if s1 == s2 {
		t.Error("each context should get its own store instance")
	}
}

func TestGetStoreMissing(t *testing.T) {
	c := newTestApp(t).CreateContext()
	_, err := c.GetStore("NopeStore")
	if !errors.HasCode(err, "R003") {
		t.Errorf("GetStore(missing) error = %v, want R003", err)
	}
}

func TestContextsAreBoundOnce(t *testing.T) {
	p := &fakePlugin{name: "p"}
	c := newTestApp(t, p).CreateContext()

	a1, err := c.GetActionContext()
	if err != nil {
		t.Fatal(err)
	}
	a2, _ := c.GetActionContext()
	if a1 != a2 {
		t.Error("GetActionContext should return the same instance")
	}
	if c.GetComponentContext() != c.GetComponentContext() {
		t.Error("GetComponentContext should return the same instance")
	}

	s := p.scopes[0]
	if s.actionBinds != 1 || s.componentBinds != 1 {
		t.Errorf("binds = (%d, %d), want (1, 1)", s.actionBinds, s.componentBinds)
	}
}

func TestGetActionContextBindError(t *testing.T) {
	boom := stderrors.New("boom")
	p := &fakePlugin{name: "p", bindErr: boom}
	c := newTestApp(t, p).CreateContext()

	if _, err := c.GetActionContext(); !stderrors.Is(err, boom) {
		t.Fatalf("GetActionContext error = %v, want boom", err)
	}

	p.bindErr = nil
	if _, err := c.GetActionContext(); err != nil {
		t.Fatalf("retry after fix: %v", err)
	}
}

func TestDispatch(t *testing.T) {
	c := newTestApp(t).CreateContext()
	actx, err := c.GetActionContext()
	if err != nil {
		t.Fatal(err)
	}

	table := routetable.Table{"home": {Path: "/"}}
	if err := actx.Dispatch(store.ReceiveRoutesAction, table); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	s, _ := actx.GetStore(store.RoutesStoreName)
	if s.(*store.RoutesStore).Routes()["home"] != table["home"] {
		t.Error("store did not receive the routes")
	}

	if err := actx.Dispatch("UNKNOWN", nil); !errors.HasCode(err, "R008") {
		t.Errorf("Dispatch(UNKNOWN) error = %v, want R008", err)
	}
	if err := actx.Dispatch(store.ReceiveRoutesAction, 42); err == nil {
		t.Error("Dispatch with a bad payload should fail")
	}
}

func TestDehydrateRehydrate(t *testing.T) {
	one, two := &fakePlugin{name: "one"}, &fakePlugin{name: "two"}
	a := newTestApp(t, one, two)

	state, err := a.CreateContext().Dehydrate()
	if err != nil {
		t.Fatal(err)
	}
	if string(state.Plugins["one"]) != `{"from":"one"}` {
		t.Errorf("state[one] = %s", state.Plugins["one"])
	}

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatal(err)
	}
	var decoded DehydratedState
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	delete(decoded.Plugins, "two")

	client := a.CreateContext()
	if err := client.Rehydrate(&decoded); err != nil {
		t.Fatal(err)
	}
	if string(one.scopes[1].rehydrated) != `{"from":"one"}` {
		t.Errorf("plugin one rehydrated with %s", one.scopes[1].rehydrated)
	}
	if two.scopes[1].rehydrated != nil {
		t.Error("plugin without state should not be rehydrated")
	}
	if err := client.Rehydrate(nil); err != nil {
		t.Errorf("Rehydrate(nil) = %v", err)
	}
}
