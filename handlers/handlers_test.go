// ABOUTME: Tests for the lead, content, and visualization MCP tool handlers
// ABOUTME: Validates tool input/output and error handling against in-memory stores
package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harperreed/roofdesk/models"
	"github.com/harperreed/roofdesk/store"
	"github.com/harperreed/roofdesk/viz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeleter struct {
	deleted []string
	err     error
}

func (f *fakeDeleter) DeleteLead(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func setupTestApp(t *testing.T) *store.App {
	t.Helper()
	app, err := store.Open(nil, store.Credentials{Email: "admin@example.com"})
	require.NoError(t, err)
	return app
}

func seedLeads(app *store.App) (models.Lead, models.Lead) {
	jane := app.Leads.Add(models.Lead{
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@example.com",
		Phone:        "555-0100",
		Service:      "roof-repair",
		PropertyType: "residential",
		Urgency:      "emergency",
		Address:      "12 Elm St",
		ZipCode:      "60601",
	})
	bob := app.Leads.Add(models.Lead{
		FirstName:    "Bob",
		LastName:     "Stone",
		Email:        "bob@example.com",
		Phone:        "555-0199",
		Service:      "gutters",
		PropertyType: "commercial",
		Urgency:      "planning",
		Status:       models.StatusContacted,
		Date:         time.Now().Add(-72 * time.Hour),
	})
	return jane, bob
}

func TestListLeadsHandler(t *testing.T) {
	app := setupTestApp(t)
	jane, _ := seedLeads(app)
	h := NewLeadHandlers(app.Leads, nil)

	_, out, err := h.ListLeads(context.Background(), nil, ListLeadsInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total)
	assert.Len(t, out.Leads, 2)

	_, out, err = h.ListLeads(context.Background(), nil, ListLeadsInput{Query: "jane"})
	require.NoError(t, err)
	require.Len(t, out.Leads, 1)
	assert.Equal(t, jane.ID, out.Leads[0].ID)
	assert.Equal(t, "Jane Doe", out.Leads[0].Name)

	_, out, err = h.ListLeads(context.Background(), nil, ListLeadsInput{Status: models.StatusContacted})
	require.NoError(t, err)
	require.Len(t, out.Leads, 1)
	assert.Equal(t, "Bob Stone", out.Leads[0].Name)

	_, out, err = h.ListLeads(context.Background(), nil, ListLeadsInput{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total)
	assert.Len(t, out.Leads, 1)

	_, _, err = h.ListLeads(context.Background(), nil, ListLeadsInput{Status: "lost"})
	assert.Error(t, err)
}

func TestUpdateLeadStatusHandler(t *testing.T) {
	app := setupTestApp(t)
	jane, _ := seedLeads(app)
	h := NewLeadHandlers(app.Leads, nil)

	_, out, err := h.UpdateLeadStatus(context.Background(), nil, UpdateLeadStatusInput{ID: jane.ID, Status: models.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, out.Status)

	_, _, err = h.UpdateLeadStatus(context.Background(), nil, UpdateLeadStatusInput{ID: jane.ID, Status: "won"})
	assert.ErrorIs(t, err, store.ErrInvalidStatus)

	_, _, err = h.UpdateLeadStatus(context.Background(), nil, UpdateLeadStatusInput{ID: "missing", Status: models.StatusNew})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, _, err = h.UpdateLeadStatus(context.Background(), nil, UpdateLeadStatusInput{Status: models.StatusNew})
	assert.Error(t, err)
}

func TestDeleteLeadHandler(t *testing.T) {
	app := setupTestApp(t)
	jane, bob := seedLeads(app)
	remote := &fakeDeleter{}
	h := NewLeadHandlers(app.Leads, remote)

	_, out, err := h.DeleteLead(context.Background(), nil, DeleteLeadInput{ID: jane.ID})
	require.NoError(t, err)
	assert.True(t, out.Deleted)
	assert.Equal(t, []string{jane.ID}, remote.deleted)
	assert.Len(t, app.Leads.All(), 1)

	_, _, err = h.DeleteLead(context.Background(), nil, DeleteLeadInput{ID: jane.ID})
	assert.ErrorIs(t, err, store.ErrNotFound)

	// A remote failure does not undo the local delete
	remote.err = errors.New("backend down")
	_, out, err = h.DeleteLead(context.Background(), nil, DeleteLeadInput{ID: bob.ID})
	require.NoError(t, err)
	assert.True(t, out.Deleted)
	assert.Empty(t, app.Leads.All())
}

func TestLeadStatsHandler(t *testing.T) {
	app := setupTestApp(t)
	seedLeads(app)
	h := NewLeadHandlers(app.Leads, nil)

	_, stats, err := h.LeadStats(context.Background(), nil, LeadStatsInput{})
	require.NoError(t, err)
	assert.Equal(t, models.LeadStats{Total: 2, New: 1, Contacted: 1}, stats)
}

func TestUpdateComponentHandler(t *testing.T) {
	app := setupTestApp(t)
	h := NewContentHandlers(app.Content, app.Images)
	hidden := false

	_, c, err := h.UpdateComponent(context.Background(), nil, UpdateComponentInput{
		Page:        "home",
		ComponentID: "home-hero",
		Name:        "Big hero",
		IsActive:    &hidden,
		Settings:    map[string]interface{}{"heading": "Dry roofs, fast"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Big hero", c.Name)
	assert.False(t, c.IsActive)
	assert.Equal(t, "Dry roofs, fast", c.Setting("heading"))

	_, _, err = h.UpdateComponent(context.Background(), nil, UpdateComponentInput{Page: "home", ComponentID: "nope", Name: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, _, err = h.UpdateComponent(context.Background(), nil, UpdateComponentInput{Page: "home"})
	assert.Error(t, err)
}

func TestGetPageHandler(t *testing.T) {
	app := setupTestApp(t)
	h := NewContentHandlers(app.Content, app.Images)

	_, page, err := h.GetPage(context.Background(), nil, GetPageInput{Page: "services"})
	require.NoError(t, err)
	assert.Equal(t, "services", page.Name)
	assert.NotEmpty(t, page.Components)

	_, _, err = h.GetPage(context.Background(), nil, GetPageInput{Page: "blog"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListImagesHandler(t *testing.T) {
	app := setupTestApp(t)
	_, err := app.Images.Add(models.ManagedImage{URL: "/a.jpg", Title: "Slate roof", Category: models.CategoryGallery})
	require.NoError(t, err)
	_, err = app.Images.Add(models.ManagedImage{URL: "/b.jpg", Title: "Crew", Category: models.CategoryTeam})
	require.NoError(t, err)
	h := NewContentHandlers(app.Content, app.Images)

	_, out, err := h.ListImages(context.Background(), nil, ListImagesInput{})
	require.NoError(t, err)
	assert.Len(t, out.Images, 2)

	_, out, err = h.ListImages(context.Background(), nil, ListImagesInput{Category: models.CategoryTeam})
	require.NoError(t, err)
	require.Len(t, out.Images, 1)
	assert.Equal(t, "Crew", out.Images[0].Title)

	_, out, err = h.ListImages(context.Background(), nil, ListImagesInput{Query: "nothing"})
	require.NoError(t, err)
	assert.NotNil(t, out.Images)
	assert.Empty(t, out.Images)

	_, _, err = h.ListImages(context.Background(), nil, ListImagesInput{Category: "selfies"})
	assert.ErrorIs(t, err, store.ErrInvalidCategory)
}

func TestGenerateFunnelGraphHandler(t *testing.T) {
	app := setupTestApp(t)
	seedLeads(app)
	h := NewVizHandlers(app.Leads)

	_, out, err := h.GenerateFunnelGraph(context.Background(), nil, GenerateFunnelInput{})
	require.NoError(t, err)
	assert.Equal(t, viz.DimensionService, out.Dimension)
	assert.Contains(t, out.DOTSource, "graph")
	assert.Greater(t, out.EdgeCount, 0)

	_, _, err = h.GenerateFunnelGraph(context.Background(), nil, GenerateFunnelInput{Dimension: "color"})
	assert.Error(t, err)
}
