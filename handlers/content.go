// ABOUTME: Page content and image MCP tool handlers
// ABOUTME: Implements get_page, update_component, and list_images tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/roofdesk/models"
	"github.com/harperreed/roofdesk/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ContentHandlers struct {
	content *store.ContentStore
	images  *store.ImageStore
}

func NewContentHandlers(content *store.ContentStore, images *store.ImageStore) *ContentHandlers {
	return &ContentHandlers{content: content, images: images}
}

type GetPageInput struct {
	Page string `json:"page" jsonschema:"Page name: home, services, gallery, or testimonials"`
}

type PageOutput struct {
	Name       string                    `json:"name"`
	Title      string                    `json:"title"`
	UpdatedAt  string                    `json:"updated_at,omitempty"`
	Components []models.ComponentContent `json:"components"`
}

func (h *ContentHandlers) GetPage(_ context.Context, request *mcp.CallToolRequest, input GetPageInput) (*mcp.CallToolResult, PageOutput, error) {
	page, err := h.content.Page(input.Page)
	if err != nil {
		return nil, PageOutput{}, err
	}

	out := PageOutput{Name: page.Name, Title: page.Title, Components: page.Components}
	if !page.UpdatedAt.IsZero() {
		out.UpdatedAt = page.UpdatedAt.Format(time.RFC3339)
	}
	return nil, out, nil
}

type UpdateComponentInput struct {
	Page        string                 `json:"page" jsonschema:"Page name (required)"`
	ComponentID string                 `json:"component_id" jsonschema:"Component ID (required)"`
	Name        string                 `json:"name,omitempty" jsonschema:"New display name"`
	IsActive    *bool                  `json:"is_active,omitempty" jsonschema:"Show or hide the component"`
	Settings    map[string]interface{} `json:"settings,omitempty" jsonschema:"Settings to merge; a null value removes the key"`
}

func (h *ContentHandlers) UpdateComponent(_ context.Context, request *mcp.CallToolRequest, input UpdateComponentInput) (*mcp.CallToolResult, models.ComponentContent, error) {
	if input.Page == "" || input.ComponentID == "" {
		return nil, models.ComponentContent{}, fmt.Errorf("page and component_id are required")
	}

	if len(input.Settings) > 0 {
		if err := h.content.UpdateSettings(input.Page, input.ComponentID, input.Settings); err != nil {
			return nil, models.ComponentContent{}, fmt.Errorf("failed to update settings: %w", err)
		}
	}
	if input.Name != "" {
		if err := h.content.Rename(input.Page, input.ComponentID, input.Name); err != nil {
			return nil, models.ComponentContent{}, fmt.Errorf("failed to rename component: %w", err)
		}
	}
	if input.IsActive != nil {
		if err := h.content.SetActive(input.Page, input.ComponentID, *input.IsActive); err != nil {
			return nil, models.ComponentContent{}, fmt.Errorf("failed to toggle component: %w", err)
		}
	}

	page, err := h.content.Page(input.Page)
	if err != nil {
		return nil, models.ComponentContent{}, err
	}
	for _, c := range page.Components {
		if c.ID == input.ComponentID {
			return nil, c, nil
		}
	}
	return nil, models.ComponentContent{}, fmt.Errorf("component %s: %w", input.ComponentID, store.ErrNotFound)
}

type ListImagesInput struct {
	Query    string `json:"query,omitempty" jsonschema:"Search text matched against title, alt text, URL, and tags"`
	Category string `json:"category,omitempty" jsonschema:"Filter by category (hero, gallery, services, team, testimonials, logos, other)"`
}

type ImageOutput struct {
	ID         string   `json:"id"`
	URL        string   `json:"url"`
	Title      string   `json:"title,omitempty"`
	Alt        string   `json:"alt,omitempty"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	UsedIn     []string `json:"used_in"`
	IsActive   bool     `json:"is_active"`
	UploadedAt string   `json:"uploaded_at"`
}

type ListImagesOutput struct {
	Images []ImageOutput `json:"images"`
}

func (h *ContentHandlers) ListImages(_ context.Context, request *mcp.CallToolRequest, input ListImagesInput) (*mcp.CallToolResult, ListImagesOutput, error) {
	if input.Category != "" && input.Category != "all" && !models.IsValidCategory(input.Category) {
		return nil, ListImagesOutput{}, fmt.Errorf("%q: %w", input.Category, store.ErrInvalidCategory)
	}
	out := ListImagesOutput{Images: []ImageOutput{}}
	for _, img := range h.images.Search(input.Query, input.Category) {
		out.Images = append(out.Images, ImageOutput{
			ID:         img.ID,
			URL:        img.URL,
			Title:      img.Title,
			Alt:        img.Alt,
			Category:   img.Category,
			Tags:       img.Tags,
			UsedIn:     img.UsedIn,
			IsActive:   img.IsActive,
			UploadedAt: img.UploadedAt.Format(time.RFC3339),
		})
	}
	return nil, out, nil
}
