// Package paths provides XDG-compliant path resolution for strata's
// configuration, preset, and output locations.
package paths

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppDir is the directory name used under the XDG base directories.
const AppDir = "strata"

// ConfigHome returns the base directory for user configuration files.
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the base directory for user data files.
func DataHome() string {
	return xdg.DataHome
}

// PresetDir returns the directory searched for locally installed presets.
func PresetDir() string {
	return filepath.Join(DataHome(), AppDir, "presets")
}

// PackageDir returns the directory where externally-installed preset
// packages are unpacked. The package manager owns its contents; strata
// only reads from it.
func PackageDir() string {
	return filepath.Join(DataHome(), AppDir, "packages")
}

// DefaultOutputDir returns the default destination for compiled output.
func DefaultOutputDir() string {
	return filepath.Join(DataHome(), AppDir, "out")
}
