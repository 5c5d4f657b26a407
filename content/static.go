package content

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/folio/persona"
)

// StaticStore serves content derived from a persona. It is used when no
// database is configured.
type StaticStore struct {
	profile  Profile
	resume   Resume
	projects []Project
	skills   []Skill
}

// NewStaticStore builds the store once from p.
func NewStaticStore(p persona.Persona) *StaticStore {
	// stable timestamp so repeated responses are byte identical
	created := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)

	s := &StaticStore{
		profile: Profile{
			ID:        "static",
			Name:      p.Name,
			Bio:       p.Bio,
			Tagline:   p.Tagline,
			Location:  p.Location,
			Age:       p.Age,
			Email:     p.Contact.Email,
			GitHubURL: p.GitHub.RepoURL,
			CreatedAt: created,
			UpdatedAt: created,
		},
		resume: Resume{
			ID:          "static",
			Title:       p.Resume.Title,
			Description: p.Resume.Description,
			FileURL:     p.Resume.DownloadURL,
			FileSize:    p.Resume.FileSize,
			FileType:    p.Resume.FileType,
			LastUpdated: p.Resume.LastUpdated,
			IsActive:    true,
			CreatedAt:   created,
		},
	}

	for _, l := range p.Contact.Socials {
		switch l.Name {
		case "LinkedIn":
			s.profile.LinkedInURL = l.URL
		case "X", "Twitter":
			s.profile.TwitterURL = l.URL
		}
	}

	for i, pr := range p.Projects {
		s.projects = append(s.projects, Project{
			ID:          fmt.Sprintf("project-%d", i+1),
			Title:       pr.Title,
			Description: pr.Description,
			TechStack:   append([]string(nil), pr.TechStack...),
			GitHubURL:   pr.GitHubURL,
			LiveURL:     pr.LiveURL,
			Featured:    i == 0,
			OrderIndex:  i,
			CreatedAt:   created,
			UpdatedAt:   created,
		})
	}

	for i, sg := range p.Skills {
		s.skills = append(s.skills, Skill{
			ID:         fmt.Sprintf("skill-%d", i+1),
			Category:   sg.Category,
			Skills:     append([]string(nil), sg.Skills...),
			OrderIndex: i,
			CreatedAt:  created,
			UpdatedAt:  created,
		})
	}

	return s
}

// Profile implements Store.
func (s *StaticStore) Profile(context.Context) (*Profile, error) {
	p := s.profile
	return &p, nil
}

// ActiveResume implements Store.
func (s *StaticStore) ActiveResume(context.Context) (*Resume, error) {
	if s.resume.FileURL == "" && s.resume.Title == "" {
		return nil, ErrNotFound
	}
	r := s.resume
	return &r, nil
}

// Projects implements Store.
func (s *StaticStore) Projects(context.Context) ([]Project, error) {
	return append([]Project{}, s.projects...), nil
}

// Skills implements Store.
func (s *StaticStore) Skills(context.Context) ([]Skill, error) {
	return append([]Skill{}, s.skills...), nil
}
