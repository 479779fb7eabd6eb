package updater

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"

	"github.com/phravins/pyscaffold/internal/config"
)

// GitHub repository for releases
const githubRepo = "phravins/pyscaffold"

// UpdateInfo contains information about available updates
type UpdateInfo struct {
	CurrentVersion    string
	LatestVersion     string
	IsUpdateAvailable bool
	ReleaseURL        string
	ReleaseNotes      string
}

// CheckForUpdates asks GitHub for the latest release
func CheckForUpdates(ctx context.Context) (*UpdateInfo, error) {
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(githubRepo))
	if err != nil {
		return nil, fmt.Errorf("error checking for updates: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no releases found")
	}

	newer, err := IsNewer(GetCurrentVersion(), latest.Version())
	if err != nil {
		return nil, err
	}
	return &UpdateInfo{
		CurrentVersion:    GetCurrentVersion(),
		LatestVersion:     latest.Version(),
		IsUpdateAvailable: newer,
		ReleaseURL:        latest.URL,
		ReleaseNotes:      latest.ReleaseNotes,
	}, nil
}

// IsNewer reports whether latest is a higher semantic version than current.
func IsNewer(current, latest string) (bool, error) {
	currentVer, err := semver.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("invalid current version: %w", err)
	}
	latestVer, err := semver.NewVersion(latest)
	if err != nil {
		return false, fmt.Errorf("invalid latest version: %w", err)
	}
	return latestVer.GreaterThan(currentVer), nil
}

// PerformUpdate downloads and installs the latest version
func PerformUpdate(ctx context.Context) error {
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(githubRepo))
	if err != nil {
		return fmt.Errorf("error detecting latest version: %w", err)
	}
	if !found {
		return fmt.Errorf("no releases found")
	}

	newer, err := IsNewer(GetCurrentVersion(), latest.Version())
	if err != nil {
		return err
	}
	if !newer {
		return fmt.Errorf("already running the latest version (%s)", GetCurrentVersion())
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Validator: &selfupdate.ChecksumValidator{UniqueFilename: AssetName(runtime.GOOS, runtime.GOARCH)},
	})
	if err != nil {
		return fmt.Errorf("failed to create updater: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if err := updater.UpdateTo(ctx, latest, latest.AssetURL); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	return nil
}

// AssetName is the release asset expected for a platform
func AssetName(goos, goarch string) string {
	if goos == "windows" {
		return fmt.Sprintf("pyscaffold-windows-%s.exe", goarch)
	}
	return fmt.Sprintf("pyscaffold-%s-%s", goos, goarch)
}

func GetCurrentVersion() string {
	return strings.TrimPrefix(config.Version, "v")
}
