package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// gitignoreContent keeps generated artifacts out of version control while the
// shared config and questionnaire definitions stay tracked.
const gitignoreContent = `# footprint project-local data (auto-generated)
*.log
*.xlsx
answers.local.*
`

// GitignoreContent returns the .gitignore written into project directories.
func GitignoreContent() string {
	return gitignoreContent
}

// EnsureGitignore writes dir/.gitignore, creating dir as needed. An existing
// file is left untouched and reported as not created.
func EnsureGitignore(dir string) (bool, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("creating project directory: %w", err)
	}

	target := filepath.Join(dir, ".gitignore")
	//nolint:gosec // shared with git tooling, so group/other readable
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	switch {
	case errors.Is(err, fs.ErrExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("opening %s: %w", target, err)
	}

	_, werr := f.WriteString(gitignoreContent)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return false, fmt.Errorf("writing %s: %w", target, werr)
	}
	return true, nil
}
