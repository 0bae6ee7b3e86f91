// ABOUTME: Data models for the roofing site and admin backend
// ABOUTME: Defines Lead, PageContent, ManagedImage, auth and UI state records
package models

import (
	"time"
)

// Lead is a prospective customer's submitted service request.
// The JSON shape is the wire payload of POST /api/contact.
type Lead struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Service      string    `json:"service"`
	PropertyType string    `json:"propertyType"`
	Urgency      string    `json:"urgency"`
	Address      string    `json:"address"`
	ZipCode      string    `json:"zipCode"`
	Message      string    `json:"message,omitempty"`
	Status       string    `json:"status"`
	Date         time.Time `json:"date"`
	Source       string    `json:"source"`
	Photo        string    `json:"photo,omitempty"`
}

// FullName joins first and last name.
func (l Lead) FullName() string {
	if l.LastName == "" {
		return l.FirstName
	}
	return l.FirstName + " " + l.LastName
}

// Lead status constants.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusCompleted = "completed"
)

// LeadStatuses lists every valid status in pipeline order.
var LeadStatuses = []string{StatusNew, StatusContacted, StatusCompleted}

// IsValidStatus reports whether s is a known lead status.
func IsValidStatus(s string) bool {
	for _, status := range LeadStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// SourceWebsite is the default lead source.
const SourceWebsite = "website"

type LeadStats struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Contacted int `json:"contacted"`
	Completed int `json:"completed"`
}

// Lead activity actions recorded by the backend.
const (
	ActivityCreated = "created"
	ActivityStatus  = "status"
	ActivityDeleted = "deleted"
)

// LeadActivity is one entry in a lead's backend history.
type LeadActivity struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"leadId"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Option is a selectable answer in the lead form.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

var Services = []Option{
	{Value: "roof-repair", Label: "Roof Repair"},
	{Value: "roof-replacement", Label: "Roof Replacement"},
	{Value: "roof-inspection", Label: "Roof Inspection"},
	{Value: "storm-damage", Label: "Storm Damage"},
	{Value: "gutters", Label: "Gutters"},
	{Value: "commercial-roofing", Label: "Commercial Roofing"},
}

var PropertyTypes = []Option{
	{Value: "residential", Label: "Residential"},
	{Value: "commercial", Label: "Commercial"},
	{Value: "multi-family", Label: "Multi-Family"},
}

var Urgencies = []Option{
	{Value: "emergency", Label: "Emergency (leaking now)"},
	{Value: "urgent", Label: "Urgent (this week)"},
	{Value: "soon", Label: "Soon (this month)"},
	{Value: "planning", Label: "Just planning"},
}

// LabelFor returns the display label for value, or value itself if unknown.
func LabelFor(options []Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Component types.
const (
	ComponentHero         = "hero"
	ComponentText         = "text"
	ComponentServices     = "services"
	ComponentGallery      = "gallery"
	ComponentTestimonials = "testimonials"
	ComponentCTA          = "cta"
)

// ComponentContent is one named, typed section of a page.
type ComponentContent struct {
	ID       string                 `json:"id" yaml:"id"`
	Name     string                 `json:"name" yaml:"name"`
	Type     string                 `json:"type" yaml:"type"`
	Settings map[string]interface{} `json:"settings" yaml:"settings"`
	IsActive bool                   `json:"isActive" yaml:"isActive"`
	Order    int                    `json:"order" yaml:"order"`
}

// Setting returns a settings bag value as a string.
func (c ComponentContent) Setting(key string) string {
	if v, ok := c.Settings[key].(string); ok {
		return v
	}
	return ""
}

type PageContent struct {
	ID         string             `json:"id" yaml:"id"`
	Name       string             `json:"name" yaml:"name"`
	Title      string             `json:"title" yaml:"title"`
	Components []ComponentContent `json:"components" yaml:"components"`
	UpdatedAt  time.Time          `json:"updatedAt" yaml:"-"`
}

// Image categories.
const (
	CategoryHero         = "hero"
	CategoryGallery      = "gallery"
	CategoryServices     = "services"
	CategoryTeam         = "team"
	CategoryTestimonials = "testimonials"
	CategoryLogos        = "logos"
	CategoryOther        = "other"
)

var ImageCategories = []string{
	CategoryHero,
	CategoryGallery,
	CategoryServices,
	CategoryTeam,
	CategoryTestimonials,
	CategoryLogos,
	CategoryOther,
}

// IsValidCategory reports whether c is one of ImageCategories.
func IsValidCategory(c string) bool {
	for _, category := range ImageCategories {
		if category == c {
			return true
		}
	}
	return false
}

type ManagedImage struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Title      string    `json:"title,omitempty"`
	Alt        string    `json:"alt,omitempty"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	UsedIn     []string  `json:"usedIn"`
	IsActive   bool      `json:"isActive"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type AdminUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type AuthState struct {
	IsAuthenticated bool       `json:"isAuthenticated"`
	User            *AdminUser `json:"user,omitempty"`
	Token           string     `json:"token,omitempty"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
}

// Toast kinds.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

type Toast struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type UIState struct {
	SidebarOpen   bool    `json:"sidebarOpen"`
	Theme         string  `json:"theme"`
	ActiveSection string  `json:"activeSection"`
	Toasts        []Toast `json:"toasts"`
}
