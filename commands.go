package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	ghclient "github.com/openstax/pyversionista/pkg/github"
	"github.com/openstax/pyversionista/pkg/logging"
	"github.com/openstax/pyversionista/pkg/pep440"
	"github.com/openstax/pyversionista/pkg/release"
	"github.com/openstax/pyversionista/pkg/version"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		project    string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:           "pyversionista",
		Short:         "cut GitHub releases with semver or PEP 440 versions",
		Version:       toolVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logging.DefaultLogger = logging.NewWithLevel(logging.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&project, "project", "", "project to operate on when a repository belongs to several")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(newReleaseCmd(&configPath, &project, &verbose))
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newSortCmd())

	return rootCmd
}

func newReleaseCmd(configPath, project *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "release [project|owner/repo]",
		Short: "cut releases for a project's repositories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadFromPath(*configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.CheckRequiredVersion(toolVersion); err != nil {
				return err
			}
			if !*verbose && cfg.LogLevel != "" {
				logging.DefaultLogger = logging.NewWithLevel(logging.ParseLevel(cfg.LogLevel))
			}
			return runRelease(cmd.Context(), cmd.OutOrStdout(), cfg, *project, args)
		},
	}
}

func runRelease(ctx context.Context, out io.Writer, cfg *Config, project string, args []string) error {
	repoConfigs, err := cfg.ResolveRepos(project, args)
	if err != nil {
		return err
	}

	client := ghclient.New(cfg.GHToken)
	manager := release.NewManager(client, logging.DefaultLogger, cfg.JiraBoards)

	var releases []*release.Release
	for _, rc := range repoConfigs {
		repo, err := buildRepository(cfg, rc)
		if err != nil {
			return err
		}
		rel, err := manager.ProcessRelease(ctx, repo, releases)
		if err != nil {
			return fmt.Errorf("failed to release %s: %w", rc.Repo, err)
		}
		releases = append(releases, rel)
	}

	announceReleases(out, releases)
	return nil
}

func buildRepository(cfg *Config, rc RepoConfig) (*release.Repository, error) {
	ghRepo, err := ghclient.ParseRepoSpec(rc.Repo)
	if err != nil {
		return nil, err
	}
	scheme, err := version.ParseScheme(rc.Scheme)
	if err != nil {
		return nil, err
	}
	return &release.Repository{
		Repository:       ghRepo,
		Alias:            rc.Alias,
		Scheme:           scheme,
		Branch:           cfg.GetBranch(rc.Repo),
		JiraEnabled:      rc.Jira,
		CrossLinkEnabled: rc.CrossLinks,
	}, nil
}

func announceReleases(out io.Writer, releases []*release.Release) {
	fmt.Fprintln(out)
	for _, rel := range releases {
		if rel.Skipped {
			fmt.Fprintf(out, "%s: stays at %s\n", rel.Repository.DisplayName(), rel.Version.Tag())
			continue
		}
		fmt.Fprintf(out, "%s: released %s\n", rel.Repository.DisplayName(), rel.Version.Tag())
	}
}

func newNextCmd() *cobra.Command {
	var (
		bump   string
		scheme string
	)

	cmd := &cobra.Command{
		Use:   "next <segment> <version>",
		Short: "print the next version for a segment",
		Long: `Print the next version for a segment (major, minor, micro, alpha,
beta, rc or dev). Phase and dev segments accept --bump to pick the
release component to advance when starting from a final release.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seg, err := version.ParseSegment(args[0])
			if err != nil {
				return err
			}
			sch, err := version.ParseScheme(scheme)
			if err != nil {
				return err
			}
			v, err := version.Parse(sch, args[1])
			if err != nil {
				return err
			}

			var b pep440.Bump
			if bump != "" {
				if b, err = pep440.ParseBump(bump); err != nil {
					return err
				}
			}

			next, err := version.Next(v, seg, b)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), next)
			return nil
		},
	}

	cmd.Flags().StringVar(&bump, "bump", "", "release component to advance from a final release (major, minor or micro)")
	cmd.Flags().StringVar(&scheme, "scheme", string(version.SchemePEP440), "version scheme (semver or pep440)")
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <version>",
		Short: "validate a PEP 440 version and print its canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := pep440.Parse(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newSortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sort <version>...",
		Short: "sort PEP 440 versions, lowest first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versions := make(pep440.Versions, 0, len(args))
			for _, arg := range args {
				v, err := pep440.Parse(arg)
				if err != nil {
					return err
				}
				versions = append(versions, v)
			}
			versions.Sort()

			for _, v := range versions {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}
