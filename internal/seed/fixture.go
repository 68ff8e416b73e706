package seed

import (
	"fmt"
	"io"
	"os"

	"portal/internal/domain/models"

	"gopkg.in/yaml.v3"
)

// Fixture is the YAML document loaded by the seed command
type Fixture struct {
	Users   []UserFixture   `yaml:"users"`
	Portals []PortalFixture `yaml:"portals"`
	Grants  []GrantFixture  `yaml:"grants"`
}

// UserFixture describes an account. Password is hashed with the configured
// scheme; PasswordHash imports an existing hash unchanged.
type UserFixture struct {
	Username     string      `yaml:"username"`
	Email        string      `yaml:"email"`
	Password     string      `yaml:"password"`
	PasswordHash string      `yaml:"password_hash"`
	Role         models.Role `yaml:"role"`
}

// PortalFixture describes a portal with its folder tree and admins
type PortalFixture struct {
	Name        string          `yaml:"name"`
	DisplayName string          `yaml:"display_name"`
	Description string          `yaml:"description"`
	LogoURL     string          `yaml:"logo_url"`
	BannerURL   string          `yaml:"banner_url"`
	Inactive    bool            `yaml:"inactive"`
	Admins      []string        `yaml:"admins"`
	Folders     []FolderFixture `yaml:"folders"`
}

// FolderFixture names its parent by folder name within the same portal.
// Parents must be listed before their children.
type FolderFixture struct {
	Name        string `yaml:"name"`
	Parent      string `yaml:"parent"`
	Description string `yaml:"description"`
	Universal   bool   `yaml:"universal"`
}

// GrantFixture is an explicit per-user folder permission
type GrantFixture struct {
	User   string `yaml:"user"`
	Portal string `yaml:"portal"`
	Folder string `yaml:"folder"`
	View   bool   `yaml:"view"`
	Edit   bool   `yaml:"edit"`
}

// LoadFixture reads and validates a fixture file
func LoadFixture(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	return ParseFixture(f)
}

// ParseFixture decodes and validates a fixture. Unknown keys are rejected.
func ParseFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixture
	if err := dec.Decode(&fx); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	if err := fx.Validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// Validate checks that every reference in the fixture resolves
func (fx *Fixture) Validate() error {
	users := make(map[string]bool, len(fx.Users))
	for i, u := range fx.Users {
		if u.Username == "" || u.Email == "" {
			return fmt.Errorf("users[%d]: username and email are required", i)
		}
		if (u.Password == "") == (u.PasswordHash == "") {
			return fmt.Errorf("user %q: exactly one of password or password_hash is required", u.Username)
		}
		if u.Role != "" && !u.Role.Valid() {
			return fmt.Errorf("user %q: unknown role %q", u.Username, u.Role)
		}
		if users[u.Username] {
			return fmt.Errorf("user %q: listed twice", u.Username)
		}
		users[u.Username] = true
	}

	folders := make(map[string]map[string]bool, len(fx.Portals))
	for i, p := range fx.Portals {
		if p.Name == "" || p.DisplayName == "" {
			return fmt.Errorf("portals[%d]: name and display_name are required", i)
		}
		if folders[p.Name] != nil {
			return fmt.Errorf("portal %q: listed twice", p.Name)
		}

		for _, admin := range p.Admins {
			if !users[admin] {
				return fmt.Errorf("portal %q: admin %q is not a fixture user", p.Name, admin)
			}
		}

		names := make(map[string]bool, len(p.Folders))
		for _, f := range p.Folders {
			if f.Name == "" {
				return fmt.Errorf("portal %q: folder without name", p.Name)
			}
			if names[f.Name] {
				return fmt.Errorf("portal %q: folder %q listed twice", p.Name, f.Name)
			}
			if f.Parent != "" && !names[f.Parent] {
				return fmt.Errorf("portal %q: folder %q has unknown or later parent %q", p.Name, f.Name, f.Parent)
			}
			names[f.Name] = true
		}
		folders[p.Name] = names
	}

	for i, g := range fx.Grants {
		if !users[g.User] {
			return fmt.Errorf("grants[%d]: unknown user %q", i, g.User)
		}
		if !folders[g.Portal][g.Folder] {
			return fmt.Errorf("grants[%d]: unknown folder %q in portal %q", i, g.Folder, g.Portal)
		}
	}

	return nil
}
