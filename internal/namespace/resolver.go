package namespace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"aspectstudio/internal/domain"
	"aspectstudio/internal/rdf"
)

// FileRef identifies one model file in the workspace. Files live under
// <root>/<namespace>/<version>/<file>.ttl.
type FileRef struct {
	Namespace string `json:"namespace"`
	Version   string `json:"version"`
	File      string `json:"file"`
}

// String returns the workspace-relative path of the file.
func (f FileRef) String() string {
	return filepath.Join(f.Namespace, f.Version, f.File)
}

// Resolver finds and parses model files from the workspace directory. Every
// element it returns is flagged as an external reference: read-only in the
// editor, excluded from cascade deletes, reduced affordances.
type Resolver struct {
	root string

	mu    sync.RWMutex
	cache map[string]*domain.Store
}

// NewResolver creates a resolver over the workspace root.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root, cache: make(map[string]*domain.Store)}
}

// Root returns the workspace directory.
func (r *Resolver) Root() string { return r.root }

// Scan lists every model file in the workspace, sorted by path.
func (r *Resolver) Scan() ([]FileRef, error) {
	var refs []FileRef
	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(r.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match("**/*.ttl", rel); !ok {
			return nil
		}
		ref, ok := refFromPath(rel)
		if !ok {
			return nil
		}
		refs = append(refs, ref)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan workspace %s: %w", r.root, err)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].String() < refs[j].String() })
	return refs, nil
}

// Namespaces groups the scanned files by namespace:version.
func (r *Resolver) Namespaces() (map[string][]string, error) {
	refs, err := r.Scan()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	for _, ref := range refs {
		key := ref.Namespace + ":" + ref.Version
		out[key] = append(out[key], ref.File)
	}
	return out, nil
}

// Resolve parses the referenced file into a read-only element graph. Results
// are cached until the file is invalidated.
func (r *Resolver) Resolve(ref FileRef) (*domain.Store, error) {
	key := ref.String()
	r.mu.RLock()
	if store, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return store, nil
	}
	r.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(r.root, ref.Namespace, ref.Version, ref.File))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", key, err)
	}
	store, err := rdf.ParseExternal(data)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", key, err)
	}

	r.mu.Lock()
	r.cache[key] = store
	r.mu.Unlock()
	return store, nil
}

// Invalidate drops the cached graph for a changed workspace path.
func (r *Resolver) Invalidate(path string) {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return
	}
	ref, ok := refFromPath(filepath.ToSlash(rel))
	if !ok {
		return
	}
	r.mu.Lock()
	delete(r.cache, ref.String())
	r.mu.Unlock()
}

// refFromPath splits namespace/version/file.ttl; deeper namespace segments
// are joined with dots.
func refFromPath(rel string) (FileRef, bool) {
	parts := strings.Split(rel, "/")
	if len(parts) < 3 {
		return FileRef{}, false
	}
	file := parts[len(parts)-1]
	version := parts[len(parts)-2]
	ns := strings.Join(parts[:len(parts)-2], ".")
	return FileRef{Namespace: ns, Version: version, File: file}, true
}
