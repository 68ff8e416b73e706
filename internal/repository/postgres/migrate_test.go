package postgres

import (
	"net/url"
	"testing"
)

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		schema     string
		wantScheme string
		wantPath   string
		wantSearch string
		wantErr    bool
	}{
		{
			name:       "postgres scheme",
			in:         "postgres://user:pw@localhost:5432/portal?sslmode=disable",
			schema:     "portal_dev",
			wantScheme: "pgx5",
			wantPath:   "/portal",
			wantSearch: "portal_dev",
		},
		{
			name:       "postgresql scheme",
			in:         "postgresql://localhost/portal",
			schema:     "portal_test",
			wantScheme: "pgx5",
			wantPath:   "/portal",
			wantSearch: "portal_test",
		},
		{
			name:       "no schema leaves search_path unset",
			in:         "postgres://localhost/portal",
			wantScheme: "pgx5",
			wantPath:   "/portal",
		},
		{
			name:    "keyword form rejected",
			in:      "host=localhost dbname=portal",
			wantErr: true,
		},
		{
			name:    "other driver rejected",
			in:      "mysql://localhost/portal",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MigrateURL(tt.in, tt.schema)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("MigrateURL(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("MigrateURL: %v", err)
			}

			u, err := url.Parse(got)
			if err != nil {
				t.Fatalf("result %q does not parse: %v", got, err)
			}
			if u.Scheme != tt.wantScheme || u.Path != tt.wantPath {
				t.Errorf("got %q, want scheme %q path %q", got, tt.wantScheme, tt.wantPath)
			}
			if sp := u.Query().Get("search_path"); sp != tt.wantSearch {
				t.Errorf("search_path = %q, want %q", sp, tt.wantSearch)
			}
		})
	}
}

func TestMigrateURLKeepsQuery(t *testing.T) {
	got, err := MigrateURL("postgres://localhost/portal?sslmode=require", "portal_dev")
	if err != nil {
		t.Fatalf("MigrateURL: %v", err)
	}
	u, _ := url.Parse(got)
	if u.Query().Get("sslmode") != "require" {
		t.Errorf("sslmode lost: %q", got)
	}
}
