package store

import (
	"fmt"
	"sync"

	"github.com/vango-go/routesync/pkg/routetable"
)

const (
	// RoutesStoreName is the name RoutesStore registers under.
	RoutesStoreName = "RoutesStore"

	// ReceiveRoutesAction replaces the store's route table.
	ReceiveRoutesAction = "RECEIVE_ROUTES"
)

// RoutesStore holds the application's current route table and emits
// ChangeEvent whenever it is replaced.
type RoutesStore struct {
	Emitter

	mu     sync.RWMutex
	routes routetable.Table
}

// NewRoutesStore creates an empty routes store.
func NewRoutesStore() *RoutesStore {
	return &RoutesStore{routes: routetable.Table{}}
}

// Name implements Store.
func (s *RoutesStore) Name() string { return RoutesStoreName }

// Routes returns the current table.
func (s *RoutesStore) Routes() routetable.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.routes
}

// ReceiveRoutes replaces the table and emits ChangeEvent.
func (s *RoutesStore) ReceiveRoutes(routes routetable.Table) {
	s.mu.Lock()
	s.routes = routes
	s.mu.Unlock()

	s.Emit(Event{Name: ChangeEvent, Routes: routes})
}

// HandleAction implements ActionHandler for ReceiveRoutesAction.
func (s *RoutesStore) HandleAction(action string, payload any) (bool, error) {
	if action != ReceiveRoutesAction {
		return false, nil
	}
	routes, ok := payload.(routetable.Table)
	if !ok {
		return true, fmt.Errorf("%s: payload must be routetable.Table, got %T", action, payload)
	}
	s.ReceiveRoutes(routes)
	return true, nil
}
