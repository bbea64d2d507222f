package store

import "sync"

// UIStore tracks whether the edit modal is open
type UIStore struct {
	mu        sync.RWMutex
	open      bool
	listeners []func(open bool)
}

func NewUIStore() *UIStore {
	return &UIStore{}
}

// OnModalChange registers a listener called whenever the modal opens or closes
func (u *UIStore) OnModalChange(fn func(open bool)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.listeners = append(u.listeners, fn)
}

func (u *UIStore) IsEditModalOpen() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.open
}

func (u *UIStore) OpenEditModal() {
	u.set(true)
}

func (u *UIStore) CloseEditModal() {
	u.set(false)
}

func (u *UIStore) set(open bool) {
	u.mu.Lock()
	if u.open == open {
		u.mu.Unlock()
		return
	}
	u.open = open
	listeners := make([]func(bool), len(u.listeners))
	copy(listeners, u.listeners)
	u.mu.Unlock()

	for _, fn := range listeners {
		fn(open)
	}
}
