package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/footprint/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// When a project directory is resolved (without --global), it creates a
// project-local .footprint/ directory with config.yaml and .gitignore.
// Otherwise, it creates the global ~/.footprint/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var (
		force      bool
		global     bool
		withLogDir bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

Inside a project (a directory tree containing .footprint/, or one named with
--project-dir or FOOTPRINT_PROJECT_DIR), creates $PROJECT/.footprint/config.yaml
with a .gitignore that keeps logs, exports and local answer files out of
version control. Use --global to initialize ~/.footprint/config.yaml instead.`,
		Example: `  # Create project-local configuration
  footprint config init --project-dir .

  # Create global configuration
  footprint config init --global

  # Create configuration with file logging enabled, overwriting existing
  footprint config init --global --log-file --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if withLogDir {
				cfg.Logging.File = config.DefaultLogPath()
			}

			target := initTarget{dir: config.Dir()}
			if dir := config.GetResolvedProjectDir(); dir != "" && !global {
				target = initTarget{dir: dir, project: true}
			}
			return target.write(cmd, cfg, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "force global configuration init even inside a project")
	cmd.Flags().BoolVar(&withLogDir, "log-file", false, "enable rotating file logging under the config directory")

	return cmd
}

// initTarget is the directory config init writes into. Project targets also
// receive a .gitignore.
type initTarget struct {
	dir     string
	project bool
}

func (t initTarget) write(cmd *cobra.Command, cfg *config.Config, force bool) error {
	path := filepath.Join(t.dir, "config.yaml")
	if !force {
		switch _, err := os.Stat(path); {
		case err == nil:
			return errors.New("configuration file already exists, use --force to overwrite")
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	cfg.SetConfigPath(path)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	if !t.project {
		cmd.Printf("Configuration initialized successfully\n")
		cmd.Printf("Configuration file: %s\n", path)
		return nil
	}

	created, err := config.EnsureGitignore(t.dir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}
	cmd.Printf("Configuration initialized at %s\n", path)
	if created {
		cmd.Printf("Created .gitignore to keep logs and exports out of version control\n")
	}
	return nil
}
