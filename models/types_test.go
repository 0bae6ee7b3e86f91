// ABOUTME: Tests for roofing site data models
// ABOUTME: Validates status, category and option catalogue helpers
package models

import (
	"testing"
)

func TestIsValidStatus(t *testing.T) {
	for _, status := range []string{StatusNew, StatusContacted, StatusCompleted} {
		if !IsValidStatus(status) {
			t.Errorf("expected %s to be valid", status)
		}
	}
	if IsValidStatus("archived") {
		t.Error("expected archived to be invalid")
	}
	if IsValidStatus("") {
		t.Error("expected empty status to be invalid")
	}
}

func TestIsValidCategory(t *testing.T) {
	if !IsValidCategory(CategoryGallery) {
		t.Error("expected gallery to be a valid category")
	}
	if IsValidCategory("Gallery") {
		t.Error("category match should be exact")
	}
}

func TestLeadFullName(t *testing.T) {
	lead := Lead{FirstName: "Jane", LastName: "Doe"}
	if lead.FullName() != "Jane Doe" {
		t.Errorf("expected 'Jane Doe', got %q", lead.FullName())
	}

	single := Lead{FirstName: "Cher"}
	if single.FullName() != "Cher" {
		t.Errorf("expected 'Cher', got %q", single.FullName())
	}
}

func TestLabelFor(t *testing.T) {
	if got := LabelFor(Services, "roof-repair"); got != "Roof Repair" {
		t.Errorf("expected 'Roof Repair', got %q", got)
	}
	if got := LabelFor(Services, "solar"); got != "solar" {
		t.Errorf("expected unknown value passthrough, got %q", got)
	}
}

func TestComponentSetting(t *testing.T) {
	c := ComponentContent{Settings: map[string]interface{}{"heading": "Hello", "count": 3}}
	if c.Setting("heading") != "Hello" {
		t.Errorf("expected heading 'Hello', got %q", c.Setting("heading"))
	}
	if c.Setting("count") != "" {
		t.Error("non-string settings should read as empty")
	}
	if c.Setting("missing") != "" {
		t.Error("missing settings should read as empty")
	}
}
