package app

import "encoding/json"

// Plugin is a context plugin. The App asks it for one RequestScope per Context.
type Plugin interface {
	// Name keys the plugin's state in DehydratedState.Plugins.
	Name() string

	// CreateRequestScope returns fresh per-request plugin state.
	CreateRequestScope() RequestScope
}

// RequestScope receives a Context's lifecycle callbacks.
type RequestScope interface {
	// BindActionContext is called once when the ActionContext is created.
	BindActionContext(ctx *ActionContext) error

	// BindComponentContext is called once when the ComponentContext is created.
	BindComponentContext(ctx *ComponentContext)

	// Dehydrate returns the scope's state for transfer to another process.
	Dehydrate() (json.RawMessage, error)

	// Rehydrate restores state produced by Dehydrate.
	Rehydrate(state json.RawMessage) error
}
