package main

import (
	"fmt"
	"os"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"github.com/spf13/viper"

	"github.com/openstax/pyversionista/pkg/version"
)

type Config struct {
	GHToken         string                  `mapstructure:"gh_token"`
	RequiredVersion string                  `mapstructure:"required_version"`
	Projects        map[string][]RepoConfig `mapstructure:"projects"`
	JiraBoards      []string                `mapstructure:"jira_boards"`
	Branches        map[string]string       `mapstructure:"branches"`
	LogLevel        string                  `mapstructure:"log_level"`
}

type RepoConfig struct {
	Repo       string `mapstructure:"repo"`
	Alias      string `mapstructure:"alias"`
	Scheme     string `mapstructure:"scheme"`
	Jira       bool   `mapstructure:"jira"`
	CrossLinks bool   `mapstructure:"cross_links"`
}

func LoadFromPath(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName(".pyversionista")
		viper.SetConfigType("yaml")

		if homeDir, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(homeDir)
		}

		if cwd, err := os.Getwd(); err == nil {
			viper.AddConfigPath(cwd)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if configPath != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file .pyversionista.yml from home directory or current directory: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) GetProjectRepos(projectName string) ([]RepoConfig, error) {
	repos, exists := c.Projects[projectName]
	if !exists {
		return nil, fmt.Errorf("project %s not found in configuration", projectName)
	}
	return repos, nil
}

func (c *Config) GetBranch(repoSpec string) string {
	if branch, exists := c.Branches[repoSpec]; exists {
		return branch
	}
	return "main"
}

// FindProjectByRepository returns the project name that contains the given
// repository. The repoName can be either the short name (e.g., "my-repo")
// or the full name (e.g., "owner/my-repo").
func (c *Config) FindProjectByRepository(repoName string) (string, error) {
	var matchingProjects []string

	for projectName, repos := range c.Projects {
		for _, repo := range repos {
			if repoConfigMatches(repo, repoName) {
				matchingProjects = append(matchingProjects, projectName)
				break
			}
		}
	}

	if len(matchingProjects) == 0 {
		return "", fmt.Errorf("repository '%s' not found in any project", repoName)
	}
	if len(matchingProjects) > 1 {
		return "", fmt.Errorf("repository '%s' found in multiple projects (%v), please specify one using --project flag", repoName, matchingProjects)
	}
	return matchingProjects[0], nil
}

func repoConfigMatches(rc RepoConfig, repoName string) bool {
	if rc.Repo == repoName {
		return true
	}
	parts := strings.Split(rc.Repo, "/")
	return len(parts) == 2 && parts[1] == repoName
}

func (c *Config) GetProjectName(providedProject string, args []string) (string, error) {
	// If project flag is provided, use it
	if providedProject != "" {
		if _, exists := c.Projects[providedProject]; !exists {
			return "", fmt.Errorf("project '%s' not found in configuration", providedProject)
		}
		return providedProject, nil
	}

	// If project name is provided as argument, use it
	if len(args) > 0 {
		projectName := args[0]
		if _, exists := c.Projects[projectName]; !exists {
			return "", fmt.Errorf("project '%s' not found in configuration", projectName)
		}
		return projectName, nil
	}

	// If no project name provided, check if there's only one project
	if len(c.Projects) == 1 {
		for projectName := range c.Projects {
			return projectName, nil
		}
	}

	// Multiple projects exist, the caller has to pick one
	var projectNames []string
	for name := range c.Projects {
		projectNames = append(projectNames, name)
	}
	return "", fmt.Errorf("multiple projects found (%v), please specify one using --project flag or as argument", projectNames)
}

// ResolveRepos turns the release target into repo configs: a full
// "owner/repo" spec, a bare repository name, a project name, or nothing
// (the sole configured project).
func (c *Config) ResolveRepos(providedProject string, args []string) ([]RepoConfig, error) {
	if len(args) == 1 {
		target := args[0]

		if strings.Contains(target, "/") {
			for _, repos := range c.Projects {
				for _, rc := range repos {
					if rc.Repo == target {
						return []RepoConfig{rc}, nil
					}
				}
			}
			// Not configured: release it with defaults.
			return []RepoConfig{{Repo: target}}, nil
		}

		if _, isProject := c.Projects[target]; !isProject {
			projectName, err := c.FindProjectByRepository(target)
			if err != nil {
				return nil, err
			}
			repos, err := c.GetProjectRepos(projectName)
			if err != nil {
				return nil, err
			}
			var matched []RepoConfig
			for _, rc := range repos {
				if repoConfigMatches(rc, target) {
					matched = append(matched, rc)
				}
			}
			return matched, nil
		}
	}

	projectName, err := c.GetProjectName(providedProject, args)
	if err != nil {
		return nil, err
	}
	return c.GetProjectRepos(projectName)
}

func (c *Config) Validate() error {
	if c.GHToken == "" {
		return fmt.Errorf("gh_token is required in configuration")
	}

	if len(c.Projects) == 0 {
		return fmt.Errorf("at least one project must be configured")
	}

	for projectName, repos := range c.Projects {
		if len(repos) == 0 {
			return fmt.Errorf("project %s has no repositories configured", projectName)
		}

		for i, repo := range repos {
			if repo.Repo == "" {
				return fmt.Errorf("project %s, repo %d: repo field is required", projectName, i)
			}
			if _, err := version.ParseScheme(repo.Scheme); err != nil {
				return fmt.Errorf("project %s, repo %s: %w", projectName, repo.Repo, err)
			}
			if repo.Jira && len(c.JiraBoards) == 0 {
				return fmt.Errorf("project %s, repo %s: jira requires jira_boards to be configured", projectName, repo.Repo)
			}
		}
	}

	return nil
}

// CheckRequiredVersion gates the run on the tool version the
// configuration demands. Unstamped dev builds skip the check.
func (c *Config) CheckRequiredVersion(current string) error {
	if c.RequiredVersion == "" || current == "dev" {
		return nil
	}

	constraint, err := goversion.NewConstraint(c.RequiredVersion)
	if err != nil {
		return fmt.Errorf("invalid required_version %q: %w", c.RequiredVersion, err)
	}
	v, err := goversion.NewVersion(current)
	if err != nil {
		return fmt.Errorf("cannot check required_version against tool version %q: %w", current, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("this is pyversionista %s, but the configuration requires %q", current, c.RequiredVersion)
	}
	return nil
}
