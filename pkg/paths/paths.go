package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for autopage
	EnvConfigDir = "AUTOPAGE_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for autopage
	EnvStateDir = "AUTOPAGE_STATE_DIR"

	// EnvServiceDataDir overrides the StreamController data root
	EnvServiceDataDir = "STREAMCONTROLLER_DATA_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name for autopage-specific files
	AppDirName = "autopage"

	// ServiceDirName is the directory StreamController keeps its data in
	ServiceDirName = "StreamController"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "autopage.log"
)

// ConfigDir returns the directory holding the user configuration file.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// ConfigFile returns the path of the user configuration file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// StateDir returns the directory autopage writes state (logs) to.
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// LogFilePath returns the path of the log file.
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// ServiceDataRoot returns the StreamController data root. Resolved icon
// paths have the form <root>/icons/<pack>/icons/<name>.<ext>.
func ServiceDataRoot() string {
	if dir := os.Getenv(EnvServiceDataDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.DataHome, ServiceDirName)
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if path == "~" {
		return homeDir
	}
	if path[1] == '/' {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
