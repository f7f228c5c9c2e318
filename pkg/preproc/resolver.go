package preproc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aycc/aycc/pkg/config"
)

// Resolver locates the file named by an include directive. Name keeps its
// delimiters ("f.h" or <f.h>) and from is the path of the including file.
// It returns the file contents and the path they were read from.
type Resolver interface {
	Resolve(name, from string) ([]byte, string, error)
}

// FileResolver resolves includes on the local filesystem. Quoted names are
// searched next to the including file, angle names under the standard
// include root (its Target subdirectory first); both then fall back to
// IncludePaths.
type FileResolver struct {
	StdRoot      string
	Target       string
	IncludePaths []string
}

func NewFileResolver(cfg *config.Config) *FileResolver {
	return &FileResolver{
		StdRoot:      cfg.StdIncludeRoot,
		Target:       cfg.Target,
		IncludePaths: cfg.UserIncludePaths,
	}
}

func (r *FileResolver) Resolve(name, from string) ([]byte, string, error) {
	if len(name) < 2 {
		return nil, "", fmt.Errorf("invalid include name %q", name)
	}
	bare := name[1 : len(name)-1]
	if bare == "" {
		return nil, "", fmt.Errorf("empty include name %s", name)
	}

	var dirs []string
	switch {
	case filepath.IsAbs(bare):
		dirs = []string{""}
	case name[0] == '"':
		dirs = append(dirs, filepath.Dir(from))
	case name[0] == '<':
		if r.Target != "" {
			dirs = append(dirs, filepath.Join(r.StdRoot, r.Target))
		}
		dirs = append(dirs, r.StdRoot)
	default:
		return nil, "", fmt.Errorf("invalid include name %q", name)
	}
	if !filepath.IsAbs(bare) {
		dirs = append(dirs, r.IncludePaths...)
	}

	for _, dir := range dirs {
		path := filepath.Join(dir, bare)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return nil, "", fmt.Errorf("include %s: %w", name, fs.ErrNotExist)
}
