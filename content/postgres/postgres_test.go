package postgres

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/folio/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	containerOnce sync.Once
	container     *tcpostgres.PostgresContainer
	containerDSN  string
	containerErr  error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if container != nil {
		if err := testcontainers.TerminateContainer(container); err != nil {
			log.Printf("terminate postgres container: %v", err)
		}
	}
	os.Exit(code)
}

// testDSN returns FOLIO_TEST_DATABASE_URL, or starts a disposable Postgres
// container shared by the package's tests.
func testDSN(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("FOLIO_TEST_DATABASE_URL"); dsn != "" {
		return dsn
	}
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	containerOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		container, containerErr = tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("folio"),
			tcpostgres.WithUsername("folio"),
			tcpostgres.WithPassword("folio"),
			tcpostgres.BasicWaitStrategies(),
		)
		if containerErr != nil {
			return
		}
		containerDSN, containerErr = container.ConnectionString(ctx, "sslmode=disable")
	})
	require.NoError(t, containerErr)
	return containerDSN
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := testDSN(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	for _, stmt := range []string{
		`DROP TABLE IF EXISTS profiles, resumes, projects, skills`,
		`CREATE TABLE profiles (id text PRIMARY KEY, name text, bio text, tagline text, location text, age text,
			avatar_url text, square_avatar_url text, fun_image_url text, email text, github_url text,
			linkedin_url text, twitter_url text, created_at timestamptz DEFAULT now(), updated_at timestamptz DEFAULT now())`,
		`CREATE TABLE resumes (id text PRIMARY KEY, title text, description text, file_url text, file_size text,
			file_type text, last_updated text, is_active boolean, created_at timestamptz DEFAULT now())`,
		`CREATE TABLE projects (id text PRIMARY KEY, title text, description text, tech_stack text[], github_url text,
			live_url text, image_url text, featured boolean, order_index int,
			created_at timestamptz DEFAULT now(), updated_at timestamptz DEFAULT now())`,
		`CREATE TABLE skills (id text PRIMARY KEY, category text, skills text[], icon text, color text, order_index int,
			created_at timestamptz DEFAULT now(), updated_at timestamptz DEFAULT now())`,
	} {
		_, err := s.db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	return s
}

func TestStore_Empty(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Profile(ctx)
	assert.ErrorIs(t, err, content.ErrNotFound)
	_, err = s.ActiveResume(ctx)
	assert.ErrorIs(t, err, content.ErrNotFound)

	projects, err := s.Projects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestStore_Reads(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, stmt := range []string{
		`INSERT INTO profiles (id, name, bio, tagline, location, age, avatar_url, square_avatar_url, email,
			github_url, linkedin_url, twitter_url) VALUES ('p1','Ada','bio','tag','London','36','a','b','e','g','l','t')`,
		`INSERT INTO resumes VALUES ('r0','old','d','/old.pdf','1 MB','PDF','2024', false)`,
		`INSERT INTO resumes VALUES ('r1','cv','d','/cv.pdf','1 MB','PDF','2025', true)`,
		`INSERT INTO projects (id, title, description, tech_stack, featured, order_index)
			VALUES ('b','Second','d','{Go,SQL}', false, 2), ('a','First','d','{React}', true, 1)`,
		`INSERT INTO skills (id, category, skills, icon, color, order_index) VALUES ('s','Dev','{Go}','i','c',0)`,
	} {
		_, err := s.db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	p, err := s.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
	assert.Empty(t, p.FunImageURL)

	r, err := s.ActiveResume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r1", r.ID)

	projects, err := s.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "First", projects[0].Title)
	assert.Equal(t, []string{"Go", "SQL"}, projects[1].TechStack)

	skills, err := s.Skills(ctx)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, []string{"Go"}, skills[0].Skills)
}

func TestOpen_InvalidDSN(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Open(ctx, "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	assert.Error(t, err)
}
