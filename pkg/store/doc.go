// Package store provides observable stores that announce route table changes.
//
// A Store is looked up by name and emits named events to Listeners:
//
//	s := store.NewRoutesStore()
//	s.On(store.ChangeEvent, listener)
//	s.ReceiveRoutes(table) // listener.HandleEvent(Event{Name: "change", Routes: table})
//
// Listeners are compared by identity, so registering the same listener twice
// for one event keeps a single registration, and RemoveListener undoes On.
// Emission is synchronous: every listener has returned before Emit does.
package store
