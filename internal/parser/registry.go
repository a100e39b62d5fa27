package parser

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dbsmedya/tabconv/internal/config"
	"github.com/dbsmedya/tabconv/internal/logger"
)

// Registry maps file extensions to adapter constructors. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	ctors   map[string]Constructor
	aliases map[string]Options
	log     *logger.Logger
}

// NewRegistry creates a registry seeded with the CSV, JSON and XML adapters.
func NewRegistry(log *logger.Logger) *Registry {
	r := &Registry{
		ctors:   make(map[string]Constructor),
		aliases: make(map[string]Options),
		log:     orNop(log),
	}
	r.Register(".csv", NewCSVAdapter)
	r.Register(".json", NewJSONAdapter)
	r.Register(".xml", NewXMLAdapter)
	return r
}

// Get returns a new adapter for path's extension.
func (r *Registry) Get(path string) (Adapter, error) {
	ext := Extension(path)

	r.mu.RLock()
	ctor, ok := r.ctors[ext]
	r.mu.RUnlock()

	if !ok {
		msg := fmt.Sprintf("no adapter for extension %q, supported: %s", ext, strings.Join(r.Formats(), ", "))
		if ext == "" {
			msg = fmt.Sprintf("file has no extension, supported: %s", strings.Join(r.Formats(), ", "))
		}
		return nil, unsupportedFormat(path, msg)
	}

	r.log.Debugw("adapter selected", "file", path, "extension", ext)
	return ctor(r.log), nil
}

// Register adds or replaces the constructor for ext. The extension is
// lower-cased and gets a leading dot if missing.
func (r *Registry) Register(ext string, ctor Constructor) {
	ext = config.NormalizeExtension(ext)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ctors[ext]; exists {
		r.log.Debugw("replacing adapter registration", "extension", ext)
	}
	r.ctors[ext] = ctor
	delete(r.aliases, ext)
}

// Unregister removes ext. It reports whether ext was registered.
func (r *Registry) Unregister(ext string) bool {
	ext = config.NormalizeExtension(ext)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ctors[ext]; !ok {
		return false
	}
	delete(r.ctors, ext)
	delete(r.aliases, ext)
	return true
}

// Formats returns the registered extensions in sorted order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.ctors))
	for ext := range r.ctors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// RegisterAlias maps ext onto an already registered format. opts are
// applied on top of the caller's options whenever a file with ext is parsed
// through OptionsFor.
func (r *Registry) RegisterAlias(ext, format string, opts Options) error {
	ext = config.NormalizeExtension(ext)

	r.mu.Lock()
	defer r.mu.Unlock()

	var target Constructor
	for _, ctor := range r.ctors {
		if ctor(nil).Format() == format {
			target = ctor
			break
		}
	}
	if target == nil {
		return fmt.Errorf("alias %s: format %q is not registered", ext, format)
	}

	r.ctors[ext] = target
	r.aliases[ext] = opts
	r.log.Debugw("registered format alias", "extension", ext, "format", format)
	return nil
}

// RegisterAliases registers every alias in the config formats section.
func (r *Registry) RegisterAliases(aliases map[string]config.FormatAlias) error {
	exts := make([]string, 0, len(aliases))
	for ext := range aliases {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	for _, ext := range exts {
		alias := aliases[ext]
		if err := r.RegisterAlias(ext, alias.Format, OptionsFromAlias(alias)); err != nil {
			return err
		}
	}
	return nil
}

// OptionsFor returns base with the alias overrides of path's extension
// applied. Paths without an alias get base unchanged.
func (r *Registry) OptionsFor(path string, base Options) Options {
	r.mu.RLock()
	over, ok := r.aliases[Extension(path)]
	r.mu.RUnlock()

	if !ok {
		return base
	}
	return base.Merge(over)
}
