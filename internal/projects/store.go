// Package projects enumerates the Claude Code project archive: one directory
// per project, one .jsonl file per session.
package projects

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ccviewer/internal/transcript"
)

// ErrProjectNotFound is returned when a project id names no directory.
var ErrProjectNotFound = errors.New("project not found")

const sessionExt = ".jsonl"

// DefaultRoot returns ~/.claude/projects.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".claude", "projects"), nil
}

// Store reads the archive rooted at a projects directory.
type Store struct {
	root string
}

// NewStore returns a Store over root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the projects directory.
func (s *Store) Root() string {
	return s.root
}

// Project is one project directory.
type Project struct {
	ID   string
	Path string
}

// SessionFile is the on-disk metadata of one session; it is never parsed here.
type SessionFile struct {
	ID        string
	ProjectID string
	Path      string
	Size      int64
	ModTime   time.Time
}

// Empty reports whether the file has no content and should not be parsed.
func (f SessionFile) Empty() bool {
	return f.Size == 0
}

// IsSubSession reports whether the file is an agent session.
func (f SessionFile) IsSubSession() bool {
	return transcript.IsSubSession(f.ID)
}

// Projects lists the project directories sorted by id. A missing root yields
// no projects.
func (s *Store) Projects(ctx context.Context) ([]Project, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read projects dir: %w", err)
	}

	var out []Project
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		out = append(out, Project{ID: entry.Name(), Path: filepath.Join(s.root, entry.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Project looks up a single project directory.
func (s *Store) Project(ctx context.Context, id string) (Project, error) {
	if err := ctx.Err(); err != nil {
		return Project{}, err
	}
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return Project{}, fmt.Errorf("%w: %q", ErrProjectNotFound, id)
	}

	path := filepath.Join(s.root, id)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Project{}, fmt.Errorf("%w: %q", ErrProjectNotFound, id)
		}
		return Project{}, fmt.Errorf("stat project dir: %w", err)
	}
	if !info.IsDir() {
		return Project{}, fmt.Errorf("%w: %q", ErrProjectNotFound, id)
	}
	return Project{ID: id, Path: path}, nil
}

// Sessions lists the session files of a project, including empty files and
// agent sessions.
func (s *Store) Sessions(ctx context.Context, p Project) ([]SessionFile, error) {
	entries, err := os.ReadDir(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read project dir %s: %w", p.ID, err)
	}

	var out []SessionFile
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), sessionExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		out = append(out, SessionFile{
			ID:        strings.TrimSuffix(entry.Name(), sessionExt),
			ProjectID: p.ID,
			Path:      filepath.Join(p.Path, entry.Name()),
			Size:      info.Size(),
			ModTime:   info.ModTime(),
		})
	}
	return out, nil
}

// IndexByID maps session ids to their files.
func IndexByID(files []SessionFile) map[string]SessionFile {
	idx := make(map[string]SessionFile, len(files))
	for _, f := range files {
		idx[f.ID] = f
	}
	return idx
}
