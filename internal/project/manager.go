package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phravins/pyscaffold/pkg/utils"
)

// Manager handles the file-system chores around a run
type Manager struct {
	Workspace string
}

func NewManager(workspace string) *Manager {
	if workspace == "" {
		workspace, _ = os.Getwd()
	}
	return &Manager{Workspace: workspace}
}

// ValidateParentDir checks if the path exists and is a directory
func (m *Manager) ValidateParentDir(path string) (string, error) {
	expanded := m.ExpandPath(path)
	info, err := os.Stat(expanded)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("directory does not exist: %s", expanded)
	}
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", expanded)
	}
	return expanded, nil
}

func (m *Manager) ExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				return home
			}
			if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
				return filepath.Join(home, path[2:])
			}
		}
	}
	return os.ExpandEnv(path)
}

// SuggestProjectName suggests a free package name like "django_project_01"
func (m *Manager) SuggestProjectName(flavor Flavor) string {
	base := "project"
	if flavor != "" {
		base = strings.ToLower(string(flavor)) + "_project"
	}
	name := base
	for counter := 1; ; counter++ {
		if _, err := os.Stat(filepath.Join(m.Workspace, name)); os.IsNotExist(err) {
			return name
		}
		name = fmt.Sprintf("%s_%02d", base, counter)
	}
}

// BackupProject copies srcDir next to itself as <srcDir>.bak-<timestamp>
// and returns the copy's path.
func (m *Manager) BackupProject(srcDir string) (string, error) {
	srcDir = m.ExpandPath(srcDir)
	dest := backupName(filepath.Clean(srcDir), time.Now())
	if utils.DirExists(dest) {
		return "", fmt.Errorf("backup target already exists: %s", dest)
	}
	if err := utils.CopyDir(srcDir, dest); err != nil {
		return "", err
	}
	return dest, nil
}
