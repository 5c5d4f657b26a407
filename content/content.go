// Package content serves the read-only portfolio records shown on the site:
// profile, active resume, projects and skills.
package content

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a single record does not exist.
var ErrNotFound = errors.New("content: not found")

// Profile is the public identity card.
type Profile struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Bio             string    `json:"bio"`
	Tagline         string    `json:"tagline"`
	Location        string    `json:"location"`
	Age             string    `json:"age"`
	AvatarURL       string    `json:"avatar_url"`
	SquareAvatarURL string    `json:"square_avatar_url"`
	FunImageURL     string    `json:"fun_image_url,omitempty"`
	Email           string    `json:"email"`
	GitHubURL       string    `json:"github_url"`
	LinkedInURL     string    `json:"linkedin_url"`
	TwitterURL      string    `json:"twitter_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Resume describes a downloadable resume document.
type Resume struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileURL     string    `json:"file_url"`
	FileSize    string    `json:"file_size"`
	FileType    string    `json:"file_type"`
	LastUpdated string    `json:"last_updated"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Project is a portfolio project card.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TechStack   []string  `json:"tech_stack"`
	GitHubURL   string    `json:"github_url,omitempty"`
	LiveURL     string    `json:"live_url,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Featured    bool      `json:"featured"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Skill is a category of skills.
type Skill struct {
	ID         string    `json:"id"`
	Category   string    `json:"category"`
	Skills     []string  `json:"skills"`
	Icon       string    `json:"icon"`
	Color      string    `json:"color"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store reads portfolio content. Lists are ordered by OrderIndex.
type Store interface {
	Profile(ctx context.Context) (*Profile, error)
	ActiveResume(ctx context.Context) (*Resume, error)
	Projects(ctx context.Context) ([]Project, error)
	Skills(ctx context.Context) ([]Skill, error)
}
