package utils

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver finds config and word list locations relative to the binary
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver determines the executable location and the platform config dir
func NewPathResolver() (*PathResolver, error) {
	execDir, err := GetExecutableDir()
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: execDir,
		homeDir:       homeDir,
		configDir:     platformConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

// platformConfigDir returns the appropriate config directory for the platform
func platformConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "wordtrie")
		}
		return filepath.Join(homeDir, ".config", "wordtrie")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "wordtrie")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "wordtrie")
	default:
		return filepath.Join(homeDir, ".config", "wordtrie")
	}
}

// GetConfigPath returns a writable location for filename, falling back to
// ~/.wordtrie, the temp dir and the executable dir in that order
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	candidates := []string{
		pr.configDir,
		filepath.Join(pr.homeDir, ".wordtrie"),
		filepath.Join(os.TempDir(), "wordtrie"),
		pr.executableDir,
	}
	for i, dir := range candidates {
		if CheckDirStatus(dir).Writable {
			path := filepath.Join(dir, filename)
			if i > 0 {
				log.Warnf("Using fallback config location: %s", path)
			}
			return path, nil
		}
	}
	return "", errors.New("no writable config location found")
}

// ResolveWordsPath finds a word list file or directory. Relative paths are
// tried against the working dir, the executable dir and the config dir.
func (pr *PathResolver) ResolveWordsPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		if FileExists(path) {
			return path, nil
		}
		return "", os.ErrNotExist
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, path))
	}
	candidates = append(candidates,
		filepath.Join(pr.executableDir, path),
		filepath.Join(pr.configDir, path),
	)
	for _, candidate := range candidates {
		if FileExists(candidate) {
			log.Debugf("Found word list at: %s", candidate)
			return candidate, nil
		}
		log.Debugf("Word list candidate not found: %s", candidate)
	}
	return "", os.ErrNotExist
}
