package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vango-go/routesync/internal/errors"
	"github.com/vango-go/routesync/pkg/router"
	"github.com/vango-go/routesync/pkg/store"
)

// DehydratedState is the serialized form of a Context.
type DehydratedState struct {
	// Plugins maps plugin names to their dehydrated state.
	Plugins map[string]json.RawMessage `json:"plugins"`
}

type pluginScope struct {
	name  string
	scope RequestScope
}

// Context is the per-request container created by App.CreateContext.
type Context struct {
	id         string
	stores     map[string]store.Store
	storeOrder []string
	scopes     []pluginScope
	logger     *slog.Logger

	action    *ActionContext
	component *ComponentContext
}

// ActionContext is handed to actions. Plugins inject fields into it.
type ActionContext struct {
	// Router is injected by the route sync plugin. Nil until routes arrive.
	Router *router.Router

	ctx *Context
}

// ComponentContext is handed to view components. Plugins inject fields into it.
type ComponentContext struct {
	// MakePath is injected by the route sync plugin once a router exists.
	MakePath router.MakePathFunc

	ctx *Context
}

// ID returns the context id used in logs.
func (c *Context) ID() string { return c.id }

// Logger returns the context logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// GetStore returns the context's store instance registered under name.
func (c *Context) GetStore(name string) (store.Store, error) {
	s, ok := c.stores[name]
	if !ok {
		return nil, errors.New("R003").WithDetailf("store %q", name)
	}
	return s, nil
}

// Dispatch sends an action to every store that handles it.
func (c *Context) Dispatch(action string, payload any) error {
	c.logger.Debug("dispatch", "action", action)

	handled := false
	for _, name := range c.storeOrder {
		h, ok := c.stores[name].(store.ActionHandler)
		if !ok {
			continue
		}
		ok, err := h.HandleAction(action, payload)
		if err != nil {
			return fmt.Errorf("store %s: %w", name, err)
		}
		handled = handled || ok
	}
	if !handled {
		return errors.New("R008").WithDetail(action)
	}
	return nil
}

// GetActionContext returns the action context, creating and binding it on
// first use. If a plugin fails to bind, the error is returned and the next
// call tries again.
func (c *Context) GetActionContext() (*ActionContext, error) {
	if c.action != nil {
		return c.action, nil
	}
	actx := &ActionContext{ctx: c}
	for _, ps := range c.scopes {
		if err := ps.scope.BindActionContext(actx); err != nil {
			return nil, fmt.Errorf("plugin %s: %w", ps.name, err)
		}
	}
	c.action = actx
	return actx, nil
}

// GetComponentContext returns the component context, creating and binding
// it on first use.
func (c *Context) GetComponentContext() *ComponentContext {
	if c.component != nil {
		return c.component
	}
	cctx := &ComponentContext{ctx: c}
	for _, ps := range c.scopes {
		ps.scope.BindComponentContext(cctx)
	}
	c.component = cctx
	return cctx
}

// Dehydrate collects every plugin's state.
func (c *Context) Dehydrate() (*DehydratedState, error) {
	state := &DehydratedState{Plugins: make(map[string]json.RawMessage, len(c.scopes))}
	for _, ps := range c.scopes {
		raw, err := ps.scope.Dehydrate()
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", ps.name, err)
		}
		state.Plugins[ps.name] = raw
	}
	return state, nil
}

// Rehydrate hands each plugin its part of state. Plugins without an entry
// are left untouched.
func (c *Context) Rehydrate(state *DehydratedState) error {
	if state == nil {
		return nil
	}
	for _, ps := range c.scopes {
		raw, ok := state.Plugins[ps.name]
		if !ok {
			continue
		}
		if err := ps.scope.Rehydrate(raw); err != nil {
			return fmt.Errorf("plugin %s: %w", ps.name, err)
		}
	}
	return nil
}

// GetStore returns a store of the owning context.
func (a *ActionContext) GetStore(name string) (store.Store, error) {
	return a.ctx.GetStore(name)
}

// Dispatch dispatches an action on the owning context.
func (a *ActionContext) Dispatch(action string, payload any) error {
	return a.ctx.Dispatch(action, payload)
}

// GetStore returns a store of the owning context.
func (cc *ComponentContext) GetStore(name string) (store.Store, error) {
	return cc.ctx.GetStore(name)
}
