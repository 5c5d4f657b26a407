// Package persona holds the identity the chat model impersonates and the
// portfolio facts the canned tools and the content store are built from.
//
// A Persona is loaded once at process start (Default, optionally overlaid by
// a YAML/JSON/TOML file through viper) and never mutated afterwards.
package persona

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Link is a named URL (social profile, project website, ...).
type Link struct {
	Name string `mapstructure:"name" json:"name"`
	URL  string `mapstructure:"url" json:"url"`
}

// Contact groups public contact details.
type Contact struct {
	Email   string `mapstructure:"email" json:"email"`
	Handle  string `mapstructure:"handle" json:"handle"`
	Socials []Link `mapstructure:"socials" json:"socials"`
}

// Resume describes the downloadable resume document.
type Resume struct {
	Title       string `mapstructure:"title" json:"title"`
	Description string `mapstructure:"description" json:"description"`
	FileType    string `mapstructure:"fileType" json:"fileType"`
	FileSize    string `mapstructure:"fileSize" json:"fileSize"`
	LastUpdated string `mapstructure:"lastUpdated" json:"lastUpdated"`
	DownloadURL string `mapstructure:"downloadUrl" json:"downloadUrl"`
}

// GitHub points at the repository whose stars are shown on the site.
type GitHub struct {
	RepoURL    string `mapstructure:"repoUrl" json:"repoUrl"`
	APIRepoURL string `mapstructure:"apiRepoUrl" json:"apiRepoUrl"`
}

// Internship is the internship-search card.
type Internship struct {
	ContactEmail       string `mapstructure:"contactEmail" json:"contactEmail"`
	Duration           string `mapstructure:"duration" json:"duration"`
	StartDate          string `mapstructure:"startDate" json:"startDate"`
	LocationPreference string `mapstructure:"locationPreference" json:"locationPreference"`
	Focus              string `mapstructure:"focus" json:"focus"`
	Stack              string `mapstructure:"stack" json:"stack"`
	Visa               string `mapstructure:"visa" json:"visa"`
	WhatIBring         string `mapstructure:"whatIBring" json:"whatIBring"`
	ContactLinks       []Link `mapstructure:"contactLinks" json:"contactLinks"`
}

// Chat holds the fun facts used by chat tools.
type Chat struct {
	CrazyDescription string `mapstructure:"crazyDescription" json:"crazyDescription"`
	CrazyLink        string `mapstructure:"crazyLink" json:"crazyLink"`
}

// Project is one portfolio project card.
type Project struct {
	Title       string   `mapstructure:"title" json:"title"`
	Category    string   `mapstructure:"category" json:"category"`
	Description string   `mapstructure:"description" json:"description"`
	TechStack   []string `mapstructure:"techStack" json:"techStack"`
	Date        string   `mapstructure:"date" json:"date"`
	LiveURL     string   `mapstructure:"liveUrl" json:"liveUrl,omitempty"`
	GitHubURL   string   `mapstructure:"githubUrl" json:"githubUrl,omitempty"`
}

// SkillGroup is a titled list of skills.
type SkillGroup struct {
	Category string   `mapstructure:"category" json:"category"`
	Skills   []string `mapstructure:"skills" json:"skills"`
}

// Persona is the complete identity served by folio.
type Persona struct {
	Name         string       `mapstructure:"name" json:"name"`
	Age          string       `mapstructure:"age" json:"age"`
	Location     string       `mapstructure:"location" json:"location"`
	Tagline      string       `mapstructure:"tagline" json:"tagline"`
	Bio          string       `mapstructure:"bio" json:"bio"`
	Tags         []string     `mapstructure:"tags" json:"tags"`
	Presentation string       `mapstructure:"presentation" json:"presentation"`
	Education    []string     `mapstructure:"education" json:"education"`
	Professional []string     `mapstructure:"professional" json:"professional"`
	Contact      Contact      `mapstructure:"contact" json:"contact"`
	Resume       Resume       `mapstructure:"resume" json:"resume"`
	GitHub       GitHub       `mapstructure:"github" json:"github"`
	Internship   Internship   `mapstructure:"internship" json:"internship"`
	Chat         Chat         `mapstructure:"chat" json:"chat"`
	Projects     []Project    `mapstructure:"projects" json:"projects"`
	Skills       []SkillGroup `mapstructure:"skills" json:"skills"`
}

// ErrMissingName is returned by Validate for a persona without a name.
var ErrMissingName = errors.New("persona: name is required")

// Validate checks the fields the system prompt cannot do without.
func (p Persona) Validate() error {
	if p.Name == "" {
		return ErrMissingName
	}
	return nil
}

// Load returns Default overlaid with the values found in the file at path.
// An empty path yields the built-in persona. The format is inferred from the
// file extension (yaml, json, toml, ...).
func Load(path string) (Persona, error) {
	p := Default()
	if path == "" {
		return p, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Persona{}, fmt.Errorf("read persona file %s: %w", path, err)
	}
	// The decoder merges into existing slices element-wise; lists present in
	// the file replace the defaults instead.
	for key, list := range map[string]func(){
		"tags":                    func() { p.Tags = nil },
		"contact.socials":         func() { p.Contact.Socials = nil },
		"internship.contactlinks": func() { p.Internship.ContactLinks = nil },
		"projects":                func() { p.Projects = nil },
		"skills":                  func() { p.Skills = nil },
	} {
		if v.IsSet(key) {
			list()
		}
	}
	if err := v.Unmarshal(&p); err != nil {
		return Persona{}, fmt.Errorf("decode persona file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Persona{}, err
	}

	return p, nil
}

// Default returns the built-in persona.
func Default() Persona {
	linkedIn := "https://www.linkedin.com/in/mohamed-ashraf-77b89b24b/"

	return Persona{
		Name:     "Mohamed Ashraf El Sawy",
		Age:      "23",
		Location: "Cairo, Egypt",
		Tagline:  "Business Information Systems Graduate • Event & Tech Innovator",
		Bio: "Motivated BIS graduate with a strong mix of technical expertise, event management, and marketing experience. " +
			"Skilled in software development, AI-driven solutions, and large-scale event coordination, I strive to bridge " +
			"business and technology to create impactful solutions across industries.",
		Tags: []string{"Full-Stack Development", "Event Management", "AI Projects", "Real Estate Marketing", "Business Intelligence"},
		Presentation: "I'm Mohamed Ashraf El Sawy, a BIS graduate and event & tech innovator. " +
			"I bridge business and technology through full‑stack development and AI-driven solutions.",
		Contact: Contact{
			Email:  "mohamedashrafalsawyy@gmail.com",
			Handle: "@mooashrafff",
			Socials: []Link{
				{Name: "LinkedIn", URL: linkedIn},
				{Name: "GitHub", URL: "https://github.com/mooashrafff"},
				{Name: "X", URL: "https://x.com/mooashrraff"},
			},
		},
		Resume: Resume{
			Title:       "Mohamed Ashraf's Resume",
			Description: "Business Information Systems Graduate • Full-Stack & Event Innovator",
			FileType:    "PDF",
			FileSize:    "1.2 MB",
			LastUpdated: "August 2025",
			DownloadURL: "/mohamed_final_cv.pdf",
		},
		GitHub: GitHub{
			RepoURL:    "https://github.com/mooashrafff",
			APIRepoURL: "https://api.github.com/repos/mooashrafff",
		},
		Internship: Internship{
			ContactEmail:       "mohamedashrafalsawyy@gmail.com",
			Duration:           "6 months",
			StartDate:          "September 2025",
			LocationPreference: "Cairo or Remote",
			Focus:              "AI-integrated business systems",
			Stack:              "JavaScript, React.js, Node.js, SQL, PHP, Odoo, Oracle, Python",
			Visa:               "Eligible to work in Egypt",
			WhatIBring: "I bring a blend of technical development, event leadership, and creative problem-solving " +
				"with proven results across banking, real estate, and large-scale events.",
			ContactLinks: []Link{{Name: "LinkedIn", URL: linkedIn}},
		},
		Chat: Chat{
			CrazyDescription: "Directed 12+ large-scale campus events, organized international festivals like Gouna Film Festival, " +
				"and even managed logistics for national sports events, all while completing my BIS degree.",
			CrazyLink: linkedIn,
		},
		Projects: []Project{
			{
				Title:    "Back2Home",
				Category: "Graduation Project",
				Description: "Back2Home is a dedicated platform created by graduating students to address the critical issue of " +
					"missing persons, combining technology with compassionate service to help reunite families.",
				TechStack: []string{"Next.js", "React", "TypeScript", "TailwindCSS", "shadcn-ui", "Vercel"},
				Date:      "2025",
				LiveURL:   "https://back-to-home.vercel.app/#/",
			},
			{
				Title:    "My Previous Portfolio",
				Category: "Portfolio Project",
				Description: "My previous portfolio website showcasing my early work and projects, built with modern web " +
					"technologies and a clean, responsive interface.",
				TechStack: []string{"React", "JavaScript", "CSS3", "HTML5", "Vercel", "Responsive Design"},
				Date:      "2024",
				LiveURL:   "https://my-portfolio-one-alpha-25.vercel.app/",
			},
		},
		Skills: []SkillGroup{
			{Category: "Development", Skills: []string{"JavaScript", "React.js", "Node.js", "SQL", "PHP", "Python"}},
			{Category: "Business Systems", Skills: []string{"Odoo", "Oracle", "Business Intelligence"}},
			{Category: "Events & Marketing", Skills: []string{"Event Management", "Real Estate Marketing"}},
		},
	}
}
