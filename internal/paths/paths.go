// Package paths resolves per-user locations for showkeeper's config,
// databases, and logs.
//
// When running with sudo, these functions resolve to the original user's
// directories (via SUDO_USER) instead of root's.
package paths

import (
	"os"
	"os/user"
	"path/filepath"
)

// UserHomeDir returns the home directory of the actual user.
// If running with sudo, returns the SUDO_USER's home directory, not root's.
func UserHomeDir() (string, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		u, err := user.Lookup(sudoUser)
		if err == nil {
			return u.HomeDir, nil
		}
		// Fall through if lookup fails
	}

	return os.UserHomeDir()
}

// UserConfigDir returns the config directory of the actual user.
// On Linux this is typically ~/.config
func UserConfigDir() (string, error) {
	homeDir, err := UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config"), nil
}

// ShowkeeperDir returns the showkeeper config directory,
// ~/.config/showkeeper for the actual user.
func ShowkeeperDir() (string, error) {
	configDir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "showkeeper"), nil
}

// DatabasePath returns the path to the library mirror database,
// ~/.config/showkeeper/showkeeper.db for the actual user.
func DatabasePath() (string, error) {
	dir, err := ShowkeeperDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "showkeeper.db"), nil
}

// ConfigPath returns the path to the config file,
// ~/.config/showkeeper/config.toml for the actual user.
func ConfigPath() (string, error) {
	dir, err := ShowkeeperDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogDir returns the directory for log files,
// ~/.config/showkeeper/logs for the actual user.
func LogDir() (string, error) {
	dir, err := ShowkeeperDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs"), nil
}

// ActualUser returns the actual username (not root when using sudo).
func ActualUser() string {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		return sudoUser
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}
