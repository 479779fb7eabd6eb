package project

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/phravins/pyscaffold/internal/scaffold"
	"github.com/phravins/pyscaffold/internal/secret"
	"github.com/phravins/pyscaffold/internal/templates"
	"github.com/phravins/pyscaffold/pkg/utils"
)

// Options control one Generate call.
type Options struct {
	// Dir is the parent directory; the project lands in Dir/<name>.
	Dir           string
	Secret        secret.Source
	PythonVersion string
	DryRun        bool
	// Backup copies an existing target aside before writing into it.
	Backup bool
	Logger *log.Logger
}

// Result describes a finished run.
type Result struct {
	Root       string
	Flavor     Flavor
	Report     *scaffold.Report
	Files      []scaffold.File // dry run only
	BackupPath string
	InstallCmd string
	RunCmd     string
}

// Generate validates d, obtains the secret and writes the project. Nothing is
// written when validation, secret generation or rendering fails.
func Generate(ctx context.Context, d Descriptor, opts Options) (*Result, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if opts.Secret == nil {
		return nil, configErr("generate", "", "no secret source configured")
	}

	key, err := opts.Secret.Generate(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := BuildPlan(d, opts.Dir, Values{Secret: key, PythonVersion: opts.PythonVersion})
	if err != nil {
		return nil, err
	}

	res := &Result{Root: plan.Root, Flavor: d.Flavor}
	if bp, ok := templates.Blueprint(string(d.Flavor)); ok {
		res.InstallCmd, res.RunCmd = bp.InstallCmd, bp.RunCmd
	}

	if opts.DryRun {
		files, err := plan.Render()
		if err != nil {
			return nil, err
		}
		res.Files = files
		return res, nil
	}

	if opts.Backup && utils.DirExists(plan.Root) {
		res.BackupPath, err = NewManager(opts.Dir).BackupProject(plan.Root)
		if err != nil {
			return nil, scaffold.Wrap(scaffold.KindIO, "backup", plan.Root, err)
		}
		debug(opts.Logger, "backup written", "path", res.BackupPath)
	}

	m := scaffold.NewMaterializer(plan.Root, opts.Logger)
	report, err := m.Materialize(plan.Structure, plan.Layout.Source())
	if err != nil {
		return nil, err
	}
	report.Removed, err = m.RemoveStale(plan.Stale...)
	if err != nil {
		return nil, err
	}
	res.Report = report
	return res, nil
}

// AddModule writes one CRUD module into the existing FastAPI project at dir.
// The main router is left alone; the returned lines wire the module in.
func AddModule(dir, name string, logger *log.Logger) (*scaffold.Report, []string, error) {
	if err := scaffold.ValidateName("module name", name); err != nil {
		return nil, nil, err
	}
	if name == FastAPIAuth || name == FastAPIUser {
		return nil, nil, configErr("validate module name", name, "module name %q is reserved for the auth option", name)
	}
	if !utils.FileExists(filepath.Join(dir, "app", "api", "main_router.py")) {
		return nil, nil, configErr("add module", dir, "not a FastAPI project (app/api/main_router.py is missing)")
	}
	if !utils.FileExists(filepath.Join(dir, "app", "db", "session.py")) {
		return nil, nil, configErr("add module", dir, "CRUD modules need the database layer (app/db/session.py is missing)")
	}
	if utils.DirExists(filepath.Join(dir, filepath.FromSlash(ModuleDir(name)))) {
		return nil, nil, configErr("add module", ModuleDir(name), "module %q already exists", name)
	}

	layout := scaffold.NewLayout(nil).Mount(ModuleDir(name), set(FlavorFastAPI).Group(templates.GroupModule), name)
	report, err := scaffold.NewMaterializer(dir, logger).Materialize(ModuleStructure(name), layout.Source())
	if err != nil {
		return nil, nil, err
	}
	return report, []string{ImportLine(name), IncludeLine(name)}, nil
}

// Summary is a short human description of d.
func Summary(d Descriptor) string {
	d = d.Normalize()
	parts := []string{string(d.Flavor)}
	if d.Flavor == FlavorDjango {
		parts = append(parts, string(d.Layout))
		if d.API {
			parts = append(parts, "api")
		}
	} else if d.Database {
		parts = append(parts, "database")
	}
	if d.Auth {
		parts = append(parts, "auth")
	}
	if len(d.Apps) > 0 {
		parts = append(parts, fmt.Sprintf("%d apps", len(d.Apps)))
	}
	return strings.Join(parts, ", ")
}

func debug(logger *log.Logger, msg string, keyvals ...interface{}) {
	if logger != nil {
		logger.Debug(msg, keyvals...)
	}
}

func backupName(root string, now time.Time) string {
	return fmt.Sprintf("%s.bak-%s", root, now.Format("20060102-150405"))
}
