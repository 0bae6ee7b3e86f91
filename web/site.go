// ABOUTME: Public marketing site handlers
// ABOUTME: Renders active page components from the content store
package web

import (
	"errors"
	"net/http"

	"github.com/harperreed/roofdesk/models"
	"github.com/harperreed/roofdesk/store"
)

type navLink struct {
	Path  string
	Label string
}

var siteNav = []navLink{
	{"/", "Home"},
	{"/services", "Services"},
	{"/gallery", "Gallery"},
	{"/testimonials", "Testimonials"},
}

type componentView struct {
	models.ComponentContent
	Images []models.ManagedImage
}

func (s *Server) handlePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := s.app.Content.Page(name)
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		active, err := s.app.Content.ActiveComponents(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		views := make([]componentView, 0, len(active))
		for _, c := range active {
			view := componentView{ComponentContent: c}
			if c.Type == models.ComponentGallery {
				category := c.Setting("category")
				if category == "" {
					category = models.CategoryGallery
				}
				view.Images = s.app.Images.Active(category)
			}
			views = append(views, view)
		}

		data := map[string]interface{}{
			"Title":           page.Title,
			"Path":            r.URL.Path,
			"Nav":             siteNav,
			"Components":      views,
			"ContentTemplate": "page-content",
		}

		s.renderTemplate(w, "layout.html", data)
	}
}
