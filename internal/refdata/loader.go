package refdata

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// ManifestFile is the manifest name inside a data directory.
const ManifestFile = "tools.yaml"

// Paths resolves files inside a data directory.
type Paths struct {
	BaseDir string // e.g. /opt/craft-odds/data
}

func (p Paths) ManifestPath() string {
	return filepath.Join(p.BaseDir, ManifestFile)
}

func (p Paths) ToolPath(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(p.BaseDir, file)
}

// Loader reads the manifest and tool files of a data directory.
// Parsed tool files are cached until Invalidate is called.
type Loader struct {
	paths  Paths
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]*Tool // key: tool file path
}

// NewLoader creates a loader for the given data directory.
func NewLoader(baseDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		paths:  Paths{BaseDir: baseDir},
		logger: logger,
		cache:  make(map[string]*Tool),
	}
}

// Load builds and validates a fresh snapshot.
func (l *Loader) Load() (*Store, error) {
	m, err := l.manifest()
	if err != nil {
		return nil, err
	}

	b := NewBuilder(m.Version)
	for _, r := range m.Ranks {
		b.AddRank(r.Name, r.Visible)
	}
	for _, entry := range m.Tools {
		path := l.paths.ToolPath(entry.File)
		t, err := l.tool(entry.Name, path)
		if err != nil {
			return nil, err
		}
		b.mergeTool(entry.Name, t)
		if entry.Price != nil {
			b.SetPrice(entry.Name, *entry.Price)
		}
		l.logger.Debug("tool loaded", "tool", entry.Name, "file", path, "options", t.Options.Len())
	}

	store := b.Build()
	if err := Validate(store); err != nil {
		return nil, err
	}
	l.logger.Info("reference data loaded", "dir", l.paths.BaseDir, "version", store.Version, "tools", len(m.Tools))
	return store, nil
}

// Reload invalidates the cache, loads a new snapshot and publishes it to h.
// On failure h keeps serving the previous snapshot.
func (l *Loader) Reload(h *Holder) error {
	l.Invalidate()
	store, err := l.Load()
	if err != nil {
		l.logger.Warn("reload failed, keeping previous snapshot", "error", err)
		return err
	}
	h.Set(store)
	return nil
}

// Invalidate clears the tool cache. Call after the watcher detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*Tool)
}

// WatchPaths lists the manifest and every tool file it references.
func (l *Loader) WatchPaths() ([]string, error) {
	m, err := l.manifest()
	if err != nil {
		return nil, err
	}
	out := []string{l.paths.ManifestPath()}
	for _, t := range m.Tools {
		out = append(out, l.paths.ToolPath(t.File))
	}
	return out, nil
}

func (l *Loader) manifest() (Manifest, error) {
	path := l.paths.ManifestPath()
	b, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(b)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (l *Loader) tool(name, path string) (*Tool, error) {
	l.mu.RLock()
	t, ok := l.cache[path]
	l.mu.RUnlock()
	if ok {
		return t, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tool %s: %w", name, err)
	}
	t, err = ParseTool(name, b)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[path] = t
	l.mu.Unlock()
	return t, nil
}
