// ABOUTME: Application state stores with persistence and change observers
// ABOUTME: Shared envelope load/save and subscriber plumbing for every store
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/harperreed/roofdesk/kv"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidStatus   = errors.New("invalid lead status")
	ErrInvalidCategory = errors.New("invalid image category")
	ErrInvalidTheme    = errors.New("invalid theme")
	ErrUnauthorized    = errors.New("unauthorized")
)

// Storage keys, one per store.
const (
	LeadsKey   = "leads-storage"
	ContentKey = "content-storage"
	AuthKey    = "auth-storage"
	UIKey      = "ui-storage"
	ImagesKey  = "images-storage"
)

// Persister is the key-value backend a store saves itself into.
// kv.Store satisfies it; a nil Persister keeps the store in memory only.
type Persister interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
}

// Change describes a mutation delivered to subscribers.
type Change struct {
	Store  string
	Action string
	ID     string
}

// Listener is called after every mutation, outside the store lock.
type Listener func(Change)

type observers struct {
	mu        sync.Mutex
	next      int
	listeners map[int]Listener
}

// Subscribe registers l and returns a function that removes it.
func (o *observers) Subscribe(l Listener) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.listeners == nil {
		o.listeners = make(map[int]Listener)
	}
	id := o.next
	o.next++
	o.listeners[id] = l

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.listeners, id)
	}
}

func (o *observers) notify(c Change) {
	o.mu.Lock()
	ls := make([]Listener, 0, len(o.listeners))
	for _, l := range o.listeners {
		ls = append(ls, l)
	}
	o.mu.Unlock()

	for _, l := range ls {
		l(c)
	}
}

// envelope is the persisted form of a store's state.
type envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

// load reads key into dest. It returns false when the key is missing, the
// version differs, or the payload is unreadable; the caller then
// reinitializes defaults.
func load(p Persister, key string, version int, dest interface{}) (bool, error) {
	if p == nil {
		return false, nil
	}

	data, err := p.Get([]byte(key))
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("warning: %s is unreadable, reinitializing: %v", key, err)
		return false, nil
	}
	if env.Version != version {
		log.Printf("%s: stored version %d != %d, reinitializing", key, env.Version, version)
		return false, nil
	}
	if err := json.Unmarshal(env.State, dest); err != nil {
		log.Printf("warning: %s state is unreadable, reinitializing: %v", key, err)
		return false, nil
	}

	return true, nil
}

// save writes state under key. Failures are logged; the in-memory
// mutation stands either way.
func save(p Persister, key string, version int, state interface{}) {
	if p == nil {
		return
	}

	raw, err := json.Marshal(state)
	if err != nil {
		log.Printf("warning: failed to encode %s: %v", key, err)
		return
	}
	data, err := json.Marshal(envelope{Version: version, State: raw})
	if err != nil {
		log.Printf("warning: failed to encode %s: %v", key, err)
		return
	}
	if err := p.Set([]byte(key), data); err != nil {
		log.Printf("warning: failed to persist %s: %v", key, err)
	}
}

var timeNow = time.Now

// App bundles every store. It replaces the global singletons of a
// browser app and is passed by reference to handlers.
type App struct {
	Leads   *LeadStore
	Content *ContentStore
	Auth    *AuthStore
	UI      *UIStore
	Images  *ImageStore
}

// Open loads every store from p.
func Open(p Persister, creds Credentials) (*App, error) {
	leads, err := NewLeadStore(p)
	if err != nil {
		return nil, err
	}
	content, err := NewContentStore(p)
	if err != nil {
		return nil, err
	}
	auth, err := NewAuthStore(p, creds)
	if err != nil {
		return nil, err
	}
	ui, err := NewUIStore(p)
	if err != nil {
		return nil, err
	}
	images, err := NewImageStore(p)
	if err != nil {
		return nil, err
	}

	return &App{
		Leads:   leads,
		Content: content,
		Auth:    auth,
		UI:      ui,
		Images:  images,
	}, nil
}

// Subscribe registers l on every store.
func (a *App) Subscribe(l Listener) func() {
	unsubs := []func(){
		a.Leads.Subscribe(l),
		a.Content.Subscribe(l),
		a.Auth.Subscribe(l),
		a.UI.Subscribe(l),
		a.Images.Subscribe(l),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
