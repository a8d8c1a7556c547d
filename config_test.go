package main

import (
	"io/ioutil"
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	configContent := `gh_token: test_token
required_version: ">= 1.0"
log_level: debug

projects:
  testproject:
    - repo: org1/repo1
      alias: Test Repo 1
      scheme: pep440
      jira: true
      cross_links: true
    - repo: org2/repo2
      alias: Test Repo 2
      scheme: semver

jira_boards:
  - TEST
  - PROJ

branches:
  org1/repo1: main
  org2/repo2: develop`

	tmpDir, err := ioutil.TempDir("", "pyversionista_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	configPath := tmpDir + "/.pyversionista.yml"
	if err := ioutil.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.GHToken != "test_token" {
		t.Errorf("Expected gh_token 'test_token', got: %s", cfg.GHToken)
	}
	if cfg.RequiredVersion != ">= 1.0" {
		t.Errorf("Expected required_version '>= 1.0', got: %s", cfg.RequiredVersion)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log_level 'debug', got: %s", cfg.LogLevel)
	}

	if len(cfg.Projects) != 1 {
		t.Errorf("Expected 1 project, got: %d", len(cfg.Projects))
	}

	testProject, exists := cfg.Projects["testproject"]
	if !exists {
		t.Fatal("Expected 'testproject' to exist")
	}

	if len(testProject) != 2 {
		t.Errorf("Expected 2 repositories in testproject, got: %d", len(testProject))
	}

	repo1 := testProject[0]
	if repo1.Repo != "org1/repo1" {
		t.Errorf("Expected repo 'org1/repo1', got: %s", repo1.Repo)
	}
	if repo1.Alias != "Test Repo 1" {
		t.Errorf("Expected alias 'Test Repo 1', got: %s", repo1.Alias)
	}
	if repo1.Scheme != "pep440" {
		t.Errorf("Expected scheme 'pep440', got: %s", repo1.Scheme)
	}
	if !repo1.Jira {
		t.Error("Expected Jira to be enabled")
	}
	if !repo1.CrossLinks {
		t.Error("Expected cross links to be enabled")
	}
	if testProject[1].CrossLinks {
		t.Error("Expected cross links to default to off")
	}

	if len(cfg.JiraBoards) != 2 || cfg.JiraBoards[0] != "TEST" {
		t.Errorf("Expected jira_boards [TEST PROJ], got: %v", cfg.JiraBoards)
	}

	if cfg.Branches["org2/repo2"] != "develop" {
		t.Errorf("Expected branch 'develop' for org2/repo2, got: %s", cfg.Branches["org2/repo2"])
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name: "valid config with jira",
			config: Config{
				GHToken:    "test_token",
				JiraBoards: []string{"TEST"},
				Projects: map[string][]RepoConfig{
					"test": {
						{Repo: "owner/repo", Alias: "Test", Scheme: "pep440", Jira: true},
						{Repo: "owner/other"},
					},
				},
			},
			expectError: false,
		},
		{
			name: "jira enabled without jira_boards",
			config: Config{
				GHToken: "test_token",
				Projects: map[string][]RepoConfig{
					"test": {
						{Repo: "owner/repo", Alias: "Test", Jira: true},
					},
				},
			},
			expectError: true,
		},
		{
			name: "missing gh_token",
			config: Config{
				Projects: map[string][]RepoConfig{
					"test": {
						{Repo: "owner/repo", Alias: "Test"},
					},
				},
			},
			expectError: true,
		},
		{
			name: "no projects",
			config: Config{
				GHToken:  "test_token",
				Projects: map[string][]RepoConfig{},
			},
			expectError: true,
		},
		{
			name: "project without repositories",
			config: Config{
				GHToken: "test_token",
				Projects: map[string][]RepoConfig{
					"test": {},
				},
			},
			expectError: true,
		},
		{
			name: "empty repo name",
			config: Config{
				GHToken: "test_token",
				Projects: map[string][]RepoConfig{
					"test": {
						{Repo: "", Alias: "Test"},
					},
				},
			},
			expectError: true,
		},
		{
			name: "unknown scheme",
			config: Config{
				GHToken: "test_token",
				Projects: map[string][]RepoConfig{
					"test": {
						{Repo: "owner/repo", Scheme: "calver"},
					},
				},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestGetProjectRepos(t *testing.T) {
	cfg := &Config{
		Projects: map[string][]RepoConfig{
			"project1": {
				{Repo: "org1/repo1", Alias: "Repo 1", Jira: true},
				{Repo: "org1/repo2", Alias: "Repo 2"},
			},
			"project2": {
				{Repo: "org2/repo1", Alias: "Other Repo", Jira: true},
			},
		},
	}

	repos, err := cfg.GetProjectRepos("project1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(repos) != 2 {
		t.Errorf("Expected 2 repos, got: %d", len(repos))
	}

	_, err = cfg.GetProjectRepos("nonexistent")
	if err == nil {
		t.Error("Expected error for non-existent project")
	}
}

func TestGetBranch(t *testing.T) {
	cfg := &Config{
		Branches: map[string]string{
			"org/repo1": "develop",
			"org/repo2": "feature-branch",
		},
	}

	branch := cfg.GetBranch("org/repo1")
	if branch != "develop" {
		t.Errorf("Expected 'develop', got: %s", branch)
	}

	branch = cfg.GetBranch("org/unmapped")
	if branch != "main" {
		t.Errorf("Expected 'main' (default), got: %s", branch)
	}
}

func TestFindProjectByRepository(t *testing.T) {
	cfg := &Config{
		Projects: map[string][]RepoConfig{
			"backend": {
				{Repo: "org/api"},
				{Repo: "org/worker"},
			},
			"frontend": {
				{Repo: "org/ui"},
			},
			"shared": {
				{Repo: "org/worker"},
			},
		},
	}

	project, err := cfg.FindProjectByRepository("api")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if project != "backend" {
		t.Errorf("Expected 'backend', got: %s", project)
	}

	project, err = cfg.FindProjectByRepository("org/ui")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if project != "frontend" {
		t.Errorf("Expected 'frontend', got: %s", project)
	}

	if _, err := cfg.FindProjectByRepository("missing"); err == nil {
		t.Error("Expected error for unknown repository")
	}

	// org/worker belongs to two projects, so the lookup is ambiguous.
	if _, err := cfg.FindProjectByRepository("worker"); err == nil {
		t.Error("Expected error for ambiguous repository")
	}
}

func TestGetProjectName(t *testing.T) {
	multi := &Config{
		Projects: map[string][]RepoConfig{
			"project1": {{Repo: "org/a"}},
			"project2": {{Repo: "org/b"}},
		},
	}
	single := &Config{
		Projects: map[string][]RepoConfig{
			"only": {{Repo: "org/a"}},
		},
	}

	name, err := multi.GetProjectName("project2", nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if name != "project2" {
		t.Errorf("Expected 'project2', got: %s", name)
	}

	if _, err := multi.GetProjectName("missing", nil); err == nil {
		t.Error("Expected error for unknown --project value")
	}

	name, err = multi.GetProjectName("", []string{"project1"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if name != "project1" {
		t.Errorf("Expected 'project1', got: %s", name)
	}

	name, err = single.GetProjectName("", nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if name != "only" {
		t.Errorf("Expected 'only', got: %s", name)
	}

	if _, err := multi.GetProjectName("", nil); err == nil {
		t.Error("Expected error when several projects are configured")
	}
}

func TestResolveRepos(t *testing.T) {
	cfg := &Config{
		Projects: map[string][]RepoConfig{
			"backend": {
				{Repo: "org/api", Alias: "API", Scheme: "pep440"},
				{Repo: "org/worker"},
			},
			"frontend": {
				{Repo: "org/ui"},
			},
		},
	}

	tests := []struct {
		name    string
		project string
		args    []string
		want    []string
		wantErr bool
	}{
		{
			name: "configured full spec",
			args: []string{"org/api"},
			want: []string{"org/api"},
		},
		{
			name: "unconfigured full spec released with defaults",
			args: []string{"other/tool"},
			want: []string{"other/tool"},
		},
		{
			name: "bare repository name",
			args: []string{"worker"},
			want: []string{"org/worker"},
		},
		{
			name: "project name argument",
			args: []string{"backend"},
			want: []string{"org/api", "org/worker"},
		},
		{
			name:    "project flag",
			project: "frontend",
			want:    []string{"org/ui"},
		},
		{
			name:    "no target with several projects",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos, err := cfg.ResolveRepos(tt.project, tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if len(repos) != len(tt.want) {
				t.Fatalf("Expected %d repos, got: %d", len(tt.want), len(repos))
			}
			for i, rc := range repos {
				if rc.Repo != tt.want[i] {
					t.Errorf("repo %d: expected %s, got: %s", i, tt.want[i], rc.Repo)
				}
			}
		})
	}

	// A configured spec keeps its alias, an unconfigured one starts blank.
	repos, err := cfg.ResolveRepos("", []string{"org/api"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if repos[0].Alias != "API" {
		t.Errorf("Expected alias 'API', got: %s", repos[0].Alias)
	}
}

func TestCheckRequiredVersion(t *testing.T) {
	tests := []struct {
		name        string
		required    string
		current     string
		expectError bool
	}{
		{name: "no requirement", required: "", current: "1.0.0", expectError: false},
		{name: "dev build skips the check", required: ">= 2.0", current: "dev", expectError: false},
		{name: "requirement satisfied", required: ">= 1.0", current: "1.2.0", expectError: false},
		{name: "requirement not satisfied", required: ">= 1.0", current: "0.9.0", expectError: true},
		{name: "bad constraint", required: "not-a-constraint", current: "1.0.0", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{RequiredVersion: tt.required}
			err := cfg.CheckRequiredVersion(tt.current)
			if tt.expectError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}
