package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved absolute paths used by a run
type Paths struct {
	BaseDir       string
	DataDir       string
	ReportsDir    string
	LogsDir       string
	ReferenceFile string
}

// ResolvePaths resolves the configured paths against baseDir.
// An empty baseDir means the current working directory.
func ResolvePaths(cfg PathsConfig, baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	return &Paths{
		BaseDir:       baseDir,
		DataDir:       resolve(cfg.DataDir),
		ReportsDir:    resolve(cfg.ReportsDir),
		LogsDir:       resolve(cfg.LogsDir),
		ReferenceFile: resolve(cfg.ReferenceFile),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// GetDataPath returns a path inside the data directory
func (p *Paths) GetDataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// GetReportPath returns a path inside the reports directory
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// FileExists checks if a regular file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
