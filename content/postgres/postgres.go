// Package postgres reads portfolio content from the Supabase Postgres tables
// profiles, resumes, projects and skills.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/folio/content"
	"github.com/lib/pq"
)

// Options configures the connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store implements content.Store on top of database/sql.
type Store struct {
	db *sql.DB
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string, optFns ...func(o *Options)) (*Store, error) {
	opts := Options{
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{db: db}, nil
}

// New wraps an existing database handle.
func New(db *sql.DB) *Store { return &Store{db: db} }

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

const profileQuery = `
SELECT id, name, bio, tagline, location, age, avatar_url, square_avatar_url,
       fun_image_url, email, github_url, linkedin_url, twitter_url, created_at, updated_at
FROM profiles
ORDER BY created_at
LIMIT 1`

// Profile implements content.Store.
func (s *Store) Profile(ctx context.Context) (*content.Profile, error) {
	var (
		p        content.Profile
		funImage sql.NullString
	)
	err := s.db.QueryRowContext(ctx, profileQuery).Scan(
		&p.ID, &p.Name, &p.Bio, &p.Tagline, &p.Location, &p.Age, &p.AvatarURL, &p.SquareAvatarURL,
		&funImage, &p.Email, &p.GitHubURL, &p.LinkedInURL, &p.TwitterURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, content.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	p.FunImageURL = funImage.String
	return &p, nil
}

const resumeQuery = `
SELECT id, title, description, file_url, file_size, file_type, last_updated, is_active, created_at
FROM resumes
WHERE is_active = true
ORDER BY created_at DESC
LIMIT 1`

// ActiveResume implements content.Store.
func (s *Store) ActiveResume(ctx context.Context) (*content.Resume, error) {
	var r content.Resume
	err := s.db.QueryRowContext(ctx, resumeQuery).Scan(
		&r.ID, &r.Title, &r.Description, &r.FileURL, &r.FileSize, &r.FileType, &r.LastUpdated, &r.IsActive, &r.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, content.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query resume: %w", err)
	}
	return &r, nil
}

const projectsQuery = `
SELECT id, title, description, tech_stack, github_url, live_url, image_url,
       featured, order_index, created_at, updated_at
FROM projects
ORDER BY order_index ASC`

// Projects implements content.Store.
func (s *Store) Projects(ctx context.Context) ([]content.Project, error) {
	rows, err := s.db.QueryContext(ctx, projectsQuery)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := []content.Project{}
	for rows.Next() {
		var (
			p                         content.Project
			githubURL, liveURL, image sql.NullString
		)
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, pq.Array(&p.TechStack), &githubURL, &liveURL, &image,
			&p.Featured, &p.OrderIndex, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.GitHubURL, p.LiveURL, p.ImageURL = githubURL.String, liveURL.String, image.String
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

const skillsQuery = `
SELECT id, category, skills, icon, color, order_index, created_at, updated_at
FROM skills
ORDER BY order_index ASC`

// Skills implements content.Store.
func (s *Store) Skills(ctx context.Context) ([]content.Skill, error) {
	rows, err := s.db.QueryContext(ctx, skillsQuery)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	skills := []content.Skill{}
	for rows.Next() {
		var sk content.Skill
		if err := rows.Scan(
			&sk.ID, &sk.Category, pq.Array(&sk.Skills), &sk.Icon, &sk.Color, &sk.OrderIndex, &sk.CreatedAt, &sk.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, sk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate skills: %w", err)
	}
	return skills, nil
}

var _ content.Store = (*Store)(nil)
