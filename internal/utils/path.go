package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// PathResolver finds word lists relative to the places hive is usually run
// from.
type PathResolver struct {
	executableDir string
	configDir     string
	workDir       string
}

// NewPathResolver creates a resolver for the running executable. configDir
// may be empty.
func NewPathResolver(configDir string) *PathResolver {
	pr := &PathResolver{configDir: configDir}
	if dir, err := GetExecutableDir(); err == nil {
		pr.executableDir = dir
	} else {
		log.Debugf("Could not determine executable directory: %v", err)
	}
	if cwd, err := os.Getwd(); err == nil {
		pr.workDir = cwd
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s, workDir=%s",
		pr.executableDir, pr.configDir, pr.workDir)
	return pr
}

// Candidates lists where a word list named path is looked for, in order:
// 1. path itself (absolute, or relative to the working directory)
// 2. relative to the executable directory and its parent
// 3. relative to the config directory
func (pr *PathResolver) Candidates(path string) []string {
	if filepath.IsAbs(path) {
		return []string{path}
	}
	var candidates []string
	if pr.workDir != "" {
		candidates = append(candidates, filepath.Join(pr.workDir, path))
	} else {
		candidates = append(candidates, path)
	}
	if pr.executableDir != "" {
		candidates = append(candidates,
			filepath.Join(pr.executableDir, path),
			filepath.Join(filepath.Dir(pr.executableDir), path),
		)
	}
	if pr.configDir != "" {
		candidates = append(candidates, filepath.Join(pr.configDir, path))
	}
	return candidates
}

// ResolveFile returns the first candidate that is a regular file. When none
// is, path is returned unchanged so the caller reports the name the user gave.
func (pr *PathResolver) ResolveFile(path string) string {
	for _, candidate := range pr.Candidates(path) {
		if IsRegularFile(candidate) {
			log.Debugf("Found word list: %s", candidate)
			return candidate
		}
		log.Debugf("Word list candidate not found: %s", candidate)
	}
	return path
}
