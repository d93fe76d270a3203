// Package model defines domain entities shared by stores, API clients and the CLI.
package model

import "time"

// User is the authenticated account as returned by the auth endpoints.
type User struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Token string `json:"token,omitempty"`
}

// AuthState is the full authentication snapshot kept in memory and mirrored
// to both persistence tiers. IsAuthenticated implies User != nil.
type AuthState struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	User            *User  `json:"user"`
	Token           string `json:"token,omitempty"`
}

// Material is a single library entry mirrored from the remote API.
// Downloads only grows locally; a full refresh may replace it wholesale.
type Material struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	CourseCode  string    `json:"courseCode"`
	Level       string    `json:"level"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Downloads   int       `json:"downloads"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ActivityType classifies a logged user action.
type ActivityType string

const (
	ActivityUpload   ActivityType = "upload"
	ActivityDownload ActivityType = "download"
	ActivityFeedback ActivityType = "feedback"
	ActivityReading  ActivityType = "reading"
	ActivityPending  ActivityType = "pending"
)

// ActivityMeta carries optional context attached to an activity entry.
type ActivityMeta struct {
	CourseCode string `json:"courseCode,omitempty"`
	Level      string `json:"level,omitempty"`
	Downloads  int    `json:"downloads,omitempty"`
	Status     string `json:"status,omitempty"`
	URL        string `json:"url,omitempty"`
}

// Activity is one immutable entry in the per-user activity log.
type Activity struct {
	ID          string        `json:"id"`
	Type        ActivityType  `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Timestamp   time.Time     `json:"timestamp"`
	Meta        *ActivityMeta `json:"metadata,omitempty"`
}

// CategoryShare is a derived per-category count with its share of the whole.
// Never persisted on its own; recomputed from the source collection.
type CategoryShare struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DashboardStats are running counters maintained incrementally.
// TotalMaterials counts every material ever added through the dashboard,
// independent of the bounded preview list.
type DashboardStats struct {
	TotalMaterials  int `json:"totalMaterials"`
	TotalDownloads  int `json:"totalDownloads"`
	Uploads         int `json:"uploads"`
	ActiveThisMonth int `json:"activeThisMonth"`
}

// Dashboard is the per-user aggregate persisted after every mutation.
type Dashboard struct {
	Materials  []Material      `json:"materials"`
	Stats      DashboardStats  `json:"stats"`
	Categories []CategoryShare `json:"categories"`
}

// MaterialUpload is the client-side form for creating a material.
type MaterialUpload struct {
	Level       string
	CourseCode  string
	CourseTitle string
	Description string
	FileName    string
	File        []byte
}

// Feedback is the client-side form relayed to the feedback mail service.
type Feedback struct {
	Feedback   string
	Category   string
	Rating     int
	Email      string // empty means anonymous
	FileName   string
	Attachment []byte
}
