// ABOUTME: Managed image library for site content
// ABOUTME: Tracks category, tags, usage references, and active flag per image
package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/harperreed/roofdesk/models"
)

const imagesVersion = 1

type ImageStore struct {
	observers
	mu        sync.RWMutex
	images    []models.ManagedImage
	persister Persister
}

func NewImageStore(p Persister) (*ImageStore, error) {
	s := &ImageStore{persister: p}

	var images []models.ManagedImage
	ok, err := load(p, ImagesKey, imagesVersion, &images)
	if err != nil {
		return nil, err
	}
	if ok {
		s.images = images
	}

	return s, nil
}

func (s *ImageStore) persistLocked() {
	save(s.persister, ImagesKey, imagesVersion, s.images)
}

// Categories returns the fixed category list.
func (s *ImageStore) Categories() []string {
	return append([]string(nil), models.ImageCategories...)
}

func (s *ImageStore) All() []models.ManagedImage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ManagedImage, len(s.images))
	for i, img := range s.images {
		out[i] = cloneImage(img)
	}
	return out
}

func (s *ImageStore) Get(id string) (models.ManagedImage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return models.ManagedImage{}, fmt.Errorf("image %s: %w", id, ErrNotFound)
	}
	return cloneImage(s.images[idx]), nil
}

// Add registers a new, active image.
func (s *ImageStore) Add(img models.ManagedImage) (models.ManagedImage, error) {
	if img.Category == "" {
		img.Category = models.CategoryOther
	}
	if !models.IsValidCategory(img.Category) {
		return models.ManagedImage{}, fmt.Errorf("%q: %w", img.Category, ErrInvalidCategory)
	}
	if strings.TrimSpace(img.URL) == "" {
		return models.ManagedImage{}, fmt.Errorf("url is required")
	}

	img = cloneImage(img)
	if img.ID == "" {
		img.ID = uuid.New().String()
	}
	if img.Tags == nil {
		img.Tags = []string{}
	}
	if img.UsedIn == nil {
		img.UsedIn = []string{}
	}
	img.IsActive = true
	if img.UploadedAt.IsZero() {
		img.UploadedAt = timeNow()
	}

	s.mu.Lock()
	if s.indexLocked(img.ID) >= 0 {
		s.mu.Unlock()
		return models.ManagedImage{}, fmt.Errorf("image %s already exists", img.ID)
	}
	s.images = append(s.images, img)
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Store: ImagesKey, Action: "add", ID: img.ID})
	return cloneImage(img), nil
}

// Update applies fn to the image; the result must keep a valid category.
func (s *ImageStore) Update(id string, fn func(*models.ManagedImage)) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("image %s: %w", id, ErrNotFound)
	}

	updated := cloneImage(s.images[idx])
	fn(&updated)
	updated.ID = id
	if !models.IsValidCategory(updated.Category) {
		s.mu.Unlock()
		return fmt.Errorf("%q: %w", updated.Category, ErrInvalidCategory)
	}
	s.images[idx] = updated
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Store: ImagesKey, Action: "update", ID: id})
	return nil
}

func (s *ImageStore) SetActive(id string, active bool) error {
	return s.Update(id, func(img *models.ManagedImage) { img.IsActive = active })
}

func (s *ImageStore) SetCategory(id, category string) error {
	return s.Update(id, func(img *models.ManagedImage) { img.Category = category })
}

// AddUsage records that ref (e.g. "home/home-hero") displays the image.
func (s *ImageStore) AddUsage(id, ref string) error {
	return s.Update(id, func(img *models.ManagedImage) {
		for _, u := range img.UsedIn {
			if u == ref {
				return
			}
		}
		img.UsedIn = append(img.UsedIn, ref)
	})
}

func (s *ImageStore) RemoveUsage(id, ref string) error {
	return s.Update(id, func(img *models.ManagedImage) {
		kept := img.UsedIn[:0]
		for _, u := range img.UsedIn {
			if u != ref {
				kept = append(kept, u)
			}
		}
		img.UsedIn = kept
	})
}

func (s *ImageStore) Delete(id string) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.images = append(s.images[:idx:idx], s.images[idx+1:]...)
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Store: ImagesKey, Action: "delete", ID: id})
	return true
}

// Search matches term against title, alt text, url and tags,
// case-insensitively. category "" or "all" matches any category.
func (s *ImageStore) Search(term, category string) []models.ManagedImage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(term))
	var out []models.ManagedImage
	for _, img := range s.images {
		if category != "" && category != "all" && img.Category != category {
			continue
		}
		if needle != "" && !matchesImage(img, needle) {
			continue
		}
		out = append(out, cloneImage(img))
	}
	return out
}

// Active returns active images in category, for public pages.
func (s *ImageStore) Active(category string) []models.ManagedImage {
	var out []models.ManagedImage
	for _, img := range s.Search("", category) {
		if img.IsActive {
			out = append(out, img)
		}
	}
	return out
}

func matchesImage(img models.ManagedImage, needle string) bool {
	fields := append([]string{img.Title, img.Alt, img.URL}, img.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func (s *ImageStore) indexLocked(id string) int {
	for i, img := range s.images {
		if img.ID == id {
			return i
		}
	}
	return -1
}

func cloneImage(img models.ManagedImage) models.ManagedImage {
	out := img
	if img.Tags != nil {
		out.Tags = append([]string{}, img.Tags...)
	}
	if img.UsedIn != nil {
		out.UsedIn = append([]string{}, img.UsedIn...)
	}
	return out
}
