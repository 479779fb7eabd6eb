package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phravins/pyscaffold/internal/config"
	"github.com/phravins/pyscaffold/internal/history"
	"github.com/phravins/pyscaffold/internal/manifest"
	"github.com/phravins/pyscaffold/internal/preview"
	"github.com/phravins/pyscaffold/internal/project"
	"github.com/phravins/pyscaffold/internal/scaffold"
	"github.com/phravins/pyscaffold/internal/secret"
	"github.com/phravins/pyscaffold/internal/templates"
	"github.com/phravins/pyscaffold/internal/tui"
	"github.com/phravins/pyscaffold/internal/updater"
	"github.com/phravins/pyscaffold/pkg/utils"
)

type newOptions struct {
	flavor string
	apps   []string
	layout string
	api    bool
	auth   bool
	noDB   bool
	dir    string
	from   string
	dryRun bool
	backup bool
	readme bool
	secret string
	python string
}

func newCmd() *cobra.Command {
	var o newOptions
	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Generate a new project",
		Example: `  pyscaffold new shop --flavor django --app catalog --app orders --auth
  pyscaffold new shop --flavor django --app catalog --layout microservices
  pyscaffold new api --flavor fastapi --app book --auth
  pyscaffold new --from scaffold.yaml --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := descriptorFromFlags(cmd, args, o)
			if err != nil {
				return err
			}
			dir := o.dir
			if dir == "" {
				dir = cfg.OutputDir
			}
			dir, err = project.NewManager("").ValidateParentDir(dir)
			if err != nil {
				return scaffold.Wrap(scaffold.KindConfig, "validate output dir", o.dir, err)
			}
			if o.secret != "" {
				cfg.SecretSource = o.secret
			}
			if o.python != "" {
				cfg.PythonPath = o.python
			}

			res, err := generate(cmd.Context(), d, dir, project.Options{DryRun: o.dryRun, Backup: o.backup, Logger: logger})
			if err != nil {
				return err
			}
			if o.dryRun {
				return printDryRun(cmd.OutOrStdout(), res)
			}
			printResult(cmd.OutOrStdout(), d, res)
			if o.readme {
				if text, err := os.ReadFile(filepath.Join(res.Root, "README.md")); err == nil {
					fmt.Fprintln(cmd.OutOrStdout(), preview.File("README.md", string(text), cfg.EditorTheme))
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.flavor, "flavor", "f", "", "django or fastapi (default from config)")
	f.StringSliceVarP(&o.apps, "app", "a", nil, "Django app or FastAPI module name (repeatable)")
	f.StringVar(&o.layout, "layout", "", "standard or microservices (django)")
	f.BoolVar(&o.api, "api", false, "add Django REST framework (django)")
	f.BoolVar(&o.auth, "auth", false, "add authentication scaffolding")
	f.BoolVar(&o.noDB, "no-db", false, "skip SQLAlchemy and Alembic (fastapi)")
	f.StringVarP(&o.dir, "dir", "d", "", "parent directory (default from config)")
	f.StringVar(&o.from, "from", "", "read the descriptor from a YAML file")
	f.BoolVar(&o.dryRun, "dry-run", false, "print the tree without writing")
	f.BoolVar(&o.backup, "backup", false, "copy an existing target aside first")
	f.BoolVar(&o.readme, "readme", false, "render the generated README afterwards")
	f.StringVar(&o.secret, "secret-source", "", "python or rand (default from config)")
	f.StringVar(&o.python, "python", "", "Python interpreter for the python secret source")
	return cmd
}

// descriptorFromFlags starts from --from (if any) and lets explicit flags win.
func descriptorFromFlags(cmd *cobra.Command, args []string, o newOptions) (project.Descriptor, error) {
	d := project.Descriptor{Flavor: project.Flavor(cfg.DefaultFlavor), Database: true}
	if o.from != "" {
		var err error
		if d, err = manifest.Load(o.from); err != nil {
			return d, err
		}
	}
	if len(args) == 1 {
		d.Name = args[0]
	}
	f := cmd.Flags()
	if f.Changed("flavor") {
		d.Flavor = project.Flavor(strings.ToLower(o.flavor))
	}
	if f.Changed("app") {
		d.Apps = o.apps
	}
	if f.Changed("layout") {
		d.Layout = project.Layout(o.layout)
	}
	if f.Changed("api") {
		d.API = o.api
	}
	if f.Changed("auth") {
		d.Auth = o.auth
	}
	if f.Changed("no-db") {
		d.Database = !o.noDB
	}
	return d, nil
}

// generate validates d, picks the secret source from config and runs the
// generator. Successful writes are recorded in the history.
func generate(ctx context.Context, d project.Descriptor, dir string, opts project.Options) (*project.Result, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	src, err := secret.New(cfg.SecretSource, string(d.Flavor), cfg.PythonPath)
	if err != nil {
		return nil, err
	}
	if cfg.SecretTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.SecretTimeout)
		defer cancel()
	}

	opts.Dir = dir
	opts.Secret = src
	opts.PythonVersion = cfg.PythonVersion
	res, err := project.Generate(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	if !opts.DryRun && cfg.History {
		if store, err := history.Default(); err == nil {
			if err := store.Add(d.Name, res.Root, string(d.Flavor)); err != nil && opts.Logger != nil {
				opts.Logger.Warn("could not record history", "err", err)
			}
		}
	}
	return res, nil
}

func printDryRun(w io.Writer, res *project.Result) error {
	paths := make([]string, len(res.Files))
	for i, f := range res.Files {
		paths[i] = f.Path
	}
	tree, err := preview.Tree(res.Root, paths)
	if err != nil {
		return err
	}
	fmt.Fprint(w, tree)
	fmt.Fprintln(w, tui.Subtle(fmt.Sprintf("dry run: %d files in %d directories, nothing written", len(paths), len(preview.Dirs(paths)))))
	return nil
}

func printResult(w io.Writer, d project.Descriptor, res *project.Result) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", res.Root, project.Summary(d))
	fmt.Fprintf(&b, "%d files in %d directories", len(res.Report.Files), len(res.Report.Dirs))
	if len(res.Report.Removed) > 0 {
		fmt.Fprintf(&b, "\nremoved: %s", strings.Join(res.Report.Removed, ", "))
	}
	if res.BackupPath != "" {
		fmt.Fprintf(&b, "\nbackup: %s", res.BackupPath)
	}
	fmt.Fprintf(&b, "\n\nNext steps:\n  cd %s\n  %s\n  %s", res.Root, res.InstallCmd, res.RunCmd)
	fmt.Fprintln(w, tui.SuccessBox("PROJECT CREATED", b.String()))
}

func moduleCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "module <name>",
		Short: "Add a CRUD module to an existing FastAPI project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, lines, err := project.AddModule(dir, args[0], logger)
			if err != nil {
				return err
			}
			body := fmt.Sprintf("%s\n\nWire it into app/api/main_router.py:\n  %s", strings.Join(report.Files, "\n"), strings.Join(lines, "\n  "))
			fmt.Fprintln(cmd.OutOrStdout(), tui.SuccessBox("MODULE ADDED", body))
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "FastAPI project root")
	return cmd
}

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates [flavor]",
		Short: "List the embedded templates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if _, ok := templates.Blueprint(args[0]); !ok {
					return unknownFlavor(args[0])
				}
			}
			w := cmd.OutOrStdout()
			for _, bp := range templates.Blueprints {
				if len(args) == 1 && args[0] != bp.Flavor {
					continue
				}
				set, _ := templates.For(bp.Flavor)
				fmt.Fprintf(w, "%s (%s): %s\n", bp.Name, bp.Flavor, bp.Description)
				for _, p := range set.Paths() {
					fmt.Fprintf(w, "  %s\n", p)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	var name string
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <flavor> <group/path>",
		Short: "Print one template",
		Example: `  pyscaffold show django project/settings.py
  pyscaffold show fastapi module/router.py --name book`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, ok := templates.For(args[0])
			if !ok {
				return unknownFlavor(args[0])
			}
			e, err := set.Lookup(args[1])
			if err != nil {
				return err
			}
			text := e.Render(name)
			if !raw {
				text = preview.File(args[1], text, cfg.EditorTheme)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "item", "name passed to generated templates")
	cmd.Flags().BoolVar(&raw, "raw", false, "print without highlighting")
	return cmd
}

func unknownFlavor(flavor string) error {
	return &scaffold.Error{
		Kind:        scaffold.KindConfig,
		Op:          "select flavor",
		Path:        flavor,
		Err:         fmt.Errorf("unknown flavor %q", flavor),
		Suggestions: []string{string(project.FlavorDjango), string(project.FlavorFastAPI)},
	}
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List generated projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Default()
			if err != nil {
				return err
			}
			entries, err := store.Load()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), tui.Subtle("no projects generated yet"))
				return nil
			}
			t := newTable("NAME", "FLAVOR", "CREATED", "PATH")
			for _, e := range entries {
				t.Row(e.Name, e.Flavor, e.CreatedAt.Format("2006-01-02 15:04"), e.Path)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
			return nil
		},
	}

	var days int
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Drop history entries older than --days",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Default()
			if err != nil {
				return err
			}
			n, err := store.DeleteOld(days)
			if err != nil {
				return err
			}
			utils.PrintSuccess(fmt.Sprintf("removed %d entries", n))
			return nil
		},
	}
	prune.Flags().IntVar(&days, "days", 30, "keep entries newer than this")
	cmd.AddCommand(prune)
	return cmd
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

func updateCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check for and install a newer release",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !check {
				_, err := tea.NewProgram(tui.Wrap(tui.NewUpdaterModel()), tea.WithAltScreen()).Run()
				return err
			}
			info, err := updater.CheckForUpdates(cmd.Context())
			if err != nil {
				return scaffold.Wrap(scaffold.KindExternal, "check for updates", "", err)
			}
			if info.IsUpdateAvailable {
				fmt.Fprintf(cmd.OutOrStdout(), "update available: %s -> %s\n%s\n", info.CurrentVersion, info.LatestVersion, info.ReleaseURL)
				return nil
			}
			utils.PrintSuccess(fmt.Sprintf("pyscaffold %s is up to date", info.CurrentVersion))
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "only report whether an update exists")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change ~/.pyscaffold.yaml",
		Run: func(cmd *cobra.Command, args []string) {
			t := newTable("KEY", "VALUE")
			for _, k := range config.Keys() {
				t.Row(k, config.GetString(k))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Persist one setting",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SaveConfig(args[0], args[1]); err != nil {
				return scaffold.Wrap(scaffold.KindConfig, "config set", args[0], err)
			}
			utils.PrintSuccess(fmt.Sprintf("%s = %s", args[0], args[1]))
			return nil
		},
	})
	return cmd
}

func manifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Work with YAML project descriptors",
	}
	var flavor, name string
	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write an example descriptor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := manifest.DefaultFile
			if len(args) == 1 {
				path = args[0]
			}
			if flavor == "" {
				flavor = cfg.DefaultFlavor
			}
			if _, ok := templates.Blueprint(flavor); !ok {
				return unknownFlavor(flavor)
			}
			d := manifest.Example(project.Flavor(flavor), name)
			if err := manifest.Init(path, d, force); err != nil {
				return err
			}
			utils.PrintSuccess(fmt.Sprintf("wrote %s; run: pyscaffold new --from %s", path, path))
			return nil
		},
	}
	initCmd.Flags().StringVarP(&flavor, "flavor", "f", "", "django or fastapi")
	initCmd.Flags().StringVar(&name, "name", "my_project", "project name")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

func runWizard(ctx context.Context) error {
	quietLogger := log.New(io.Discard)
	gen := func(ctx context.Context, d project.Descriptor, dir string) (*project.Result, error) {
		return generate(ctx, d, dir, project.Options{Logger: quietLogger})
	}
	res, err := tui.RunWizard(tui.NewWizardModel(cfg.OutputDir, cfg.DefaultFlavor, gen))
	if err != nil {
		return err
	}
	if res != nil {
		utils.PrintSuccess("Project created at " + res.Root)
	}
	return nil
}
