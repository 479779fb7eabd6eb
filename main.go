package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phravins/pyscaffold/internal/config"
	"github.com/phravins/pyscaffold/internal/logging"
	"github.com/phravins/pyscaffold/internal/scaffold"
	"github.com/phravins/pyscaffold/internal/tui"
)

var (
	cfg     *config.Config
	logger  *log.Logger
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:     "pyscaffold",
	Version: config.Version,
	Short:   "Generate Django and FastAPI project skeletons",
	Long: `pyscaffold writes a ready-to-run Python web project:
- Django projects with apps, a microservices layout, DRF and a custom user model
- FastAPI services with SQLAlchemy, Alembic, JWT auth and CRUD modules

Run without arguments for the interactive wizard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWizard(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every directory and file written")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")

	rootCmd.AddCommand(newCmd())
	rootCmd.AddCommand(moduleCmd())
	rootCmd.AddCommand(templatesCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(manifestCmd())
}

func setup() error {
	var err error
	cfg, err = config.LoadConfig()
	if err != nil {
		return scaffold.Wrap(scaffold.KindConfig, "load config", "~/.pyscaffold.yaml", err)
	}
	logger = logging.New(os.Stderr, logging.Options{Verbose: verbose, Quiet: quiet})
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.ErrorBox(err.Error(), hint(err)))
		os.Exit(1)
	}
}

func hint(err error) string {
	var se *scaffold.Error
	if errors.As(err, &se) && len(se.Suggestions) > 0 {
		return "did you mean: " + strings.Join(se.Suggestions, ", ")
	}
	switch scaffold.KindOf(err) {
	case scaffold.KindExternal:
		return "set secret_source to rand (pyscaffold config set secret_source rand) to skip Python"
	case scaffold.KindConfig:
		return "nothing was written"
	}
	return ""
}
