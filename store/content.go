// ABOUTME: Page content store for editable site sections
// ABOUTME: Pages hold ordered, typed components with free-form settings bags
package store

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/harperreed/roofdesk/models"
	"gopkg.in/yaml.v3"
)

const contentVersion = 1

//go:embed defaults.yaml
var defaultContentYAML []byte

type contentDocument struct {
	Pages []models.PageContent `yaml:"pages"`
}

// ParsePages decodes a YAML content document ({pages: [...]}).
func ParsePages(data []byte) ([]models.PageContent, error) {
	var doc contentDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse content document: %w", err)
	}
	for i := range doc.Pages {
		normalizePage(&doc.Pages[i])
	}
	return doc.Pages, nil
}

// DefaultPages returns the built-in site content.
func DefaultPages() []models.PageContent {
	pages, err := ParsePages(defaultContentYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded content defaults are invalid: %v", err))
	}
	return pages
}

func normalizePage(p *models.PageContent) {
	if p.ID == "" {
		p.ID = p.Name
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = timeNow()
	}
	for i := range p.Components {
		c := &p.Components[i]
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if c.Settings == nil {
			c.Settings = map[string]interface{}{}
		}
	}
	sortComponents(p.Components)
}

type ContentStore struct {
	observers
	mu        sync.RWMutex
	pages     []models.PageContent
	persister Persister
}

func NewContentStore(p Persister) (*ContentStore, error) {
	s := &ContentStore{persister: p}

	var pages []models.PageContent
	ok, err := load(p, ContentKey, contentVersion, &pages)
	if err != nil {
		return nil, err
	}
	if ok {
		s.pages = pages
	} else {
		s.pages = DefaultPages()
	}

	return s, nil
}

func (s *ContentStore) persistLocked() {
	save(s.persister, ContentKey, contentVersion, s.pages)
}

// Pages returns a deep copy of every page.
func (s *ContentStore) Pages() []models.PageContent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PageContent, len(s.pages))
	for i, p := range s.pages {
		out[i] = clonePage(p)
	}
	return out
}

// Page returns a deep copy of the named page.
func (s *ContentStore) Page(name string) (models.PageContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.pageIndexLocked(name)
	if idx < 0 {
		return models.PageContent{}, fmt.Errorf("page %s: %w", name, ErrNotFound)
	}
	return clonePage(s.pages[idx]), nil
}

// ActiveComponents returns the page's active components in display order.
func (s *ContentStore) ActiveComponents(name string) ([]models.ComponentContent, error) {
	page, err := s.Page(name)
	if err != nil {
		return nil, err
	}

	var active []models.ComponentContent
	for _, c := range page.Components {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

// AddComponent appends c to the page and returns it with id and order set.
func (s *ContentStore) AddComponent(page string, c models.ComponentContent) (models.ComponentContent, error) {
	var added models.ComponentContent
	err := s.mutatePage(page, "add-component", func(p *models.PageContent) (string, error) {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		for _, existing := range p.Components {
			if existing.ID == c.ID {
				return "", fmt.Errorf("component %s already exists on %s", c.ID, page)
			}
		}
		c.Settings = cloneSettings(c.Settings)
		if c.Settings == nil {
			c.Settings = map[string]interface{}{}
		}
		c.Order = len(p.Components)
		p.Components = append(p.Components, c)
		added = cloneComponent(c)
		return c.ID, nil
	})
	return added, err
}

// UpdateSettings merges settings into the component's settings bag.
// A nil value removes the key.
func (s *ContentStore) UpdateSettings(page, componentID string, settings map[string]interface{}) error {
	return s.mutateComponent(page, componentID, "settings", func(c *models.ComponentContent) {
		for k, v := range settings {
			if v == nil {
				delete(c.Settings, k)
				continue
			}
			c.Settings[k] = cloneValue(v)
		}
	})
}

func (s *ContentStore) SetActive(page, componentID string, active bool) error {
	return s.mutateComponent(page, componentID, "active", func(c *models.ComponentContent) {
		c.IsActive = active
	})
}

func (s *ContentStore) Rename(page, componentID, name string) error {
	return s.mutateComponent(page, componentID, "rename", func(c *models.ComponentContent) {
		c.Name = name
	})
}

func (s *ContentStore) RemoveComponent(page, componentID string) error {
	return s.mutatePage(page, "remove-component", func(p *models.PageContent) (string, error) {
		idx := componentIndex(p.Components, componentID)
		if idx < 0 {
			return "", fmt.Errorf("component %s: %w", componentID, ErrNotFound)
		}
		p.Components = append(p.Components[:idx:idx], p.Components[idx+1:]...)
		renumber(p.Components)
		return componentID, nil
	})
}

// MoveComponent moves a component to index, clamped to the page bounds.
func (s *ContentStore) MoveComponent(page, componentID string, index int) error {
	return s.mutatePage(page, "move-component", func(p *models.PageContent) (string, error) {
		idx := componentIndex(p.Components, componentID)
		if idx < 0 {
			return "", fmt.Errorf("component %s: %w", componentID, ErrNotFound)
		}
		if index < 0 {
			index = 0
		}
		if index >= len(p.Components) {
			index = len(p.Components) - 1
		}

		c := p.Components[idx]
		rest := append(p.Components[:idx:idx], p.Components[idx+1:]...)
		moved := make([]models.ComponentContent, 0, len(p.Components))
		moved = append(moved, rest[:index]...)
		moved = append(moved, c)
		moved = append(moved, rest[index:]...)
		p.Components = moved
		renumber(p.Components)
		return componentID, nil
	})
}

// ReplacePages swaps all content, e.g. when seeding from a YAML file.
func (s *ContentStore) ReplacePages(pages []models.PageContent) {
	cloned := make([]models.PageContent, len(pages))
	for i, p := range pages {
		cloned[i] = clonePage(p)
		normalizePage(&cloned[i])
	}

	s.mu.Lock()
	s.pages = cloned
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Store: ContentKey, Action: "replace"})
}

func (s *ContentStore) ResetDefaults() {
	s.ReplacePages(DefaultPages())
}

func (s *ContentStore) mutatePage(name, action string, fn func(*models.PageContent) (string, error)) error {
	s.mu.Lock()
	idx := s.pageIndexLocked(name)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("page %s: %w", name, ErrNotFound)
	}

	page := clonePage(s.pages[idx])
	id, err := fn(&page)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	page.UpdatedAt = timeNow()
	s.pages[idx] = page
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Store: ContentKey, Action: action, ID: id})
	return nil
}

func (s *ContentStore) mutateComponent(page, componentID, action string, fn func(*models.ComponentContent)) error {
	return s.mutatePage(page, action, func(p *models.PageContent) (string, error) {
		idx := componentIndex(p.Components, componentID)
		if idx < 0 {
			return "", fmt.Errorf("component %s: %w", componentID, ErrNotFound)
		}
		fn(&p.Components[idx])
		return componentID, nil
	})
}

func (s *ContentStore) pageIndexLocked(name string) int {
	for i, p := range s.pages {
		if p.Name == name || p.ID == name {
			return i
		}
	}
	return -1
}

func componentIndex(components []models.ComponentContent, id string) int {
	for i, c := range components {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func renumber(components []models.ComponentContent) {
	for i := range components {
		components[i].Order = i
	}
}

func sortComponents(components []models.ComponentContent) {
	sort.SliceStable(components, func(i, j int) bool {
		return components[i].Order < components[j].Order
	})
}

func clonePage(p models.PageContent) models.PageContent {
	out := p
	out.Components = make([]models.ComponentContent, len(p.Components))
	for i, c := range p.Components {
		out.Components[i] = cloneComponent(c)
	}
	return out
}

func cloneComponent(c models.ComponentContent) models.ComponentContent {
	out := c
	out.Settings = cloneSettings(c.Settings)
	return out
}

func cloneSettings(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return cloneSettings(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}
