package preset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Library lists and loads presets from a directory of <name>.json files.
// Loaded presets are cached for the lifetime of the process; load failures
// are cached too so a broken file is read once.
type Library struct {
	dir string

	mu    sync.Mutex
	cache map[string]*Preset
}

// NewLibrary builds a Library over the given presets directory.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir, cache: make(map[string]*Preset)}
}

// Names returns the sorted preset names (file stems) in the directory.
// A missing directory yields an empty list, not an error.
func (l *Library) Names() []string {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

// Load returns the extracted preset by name, or nil when the file is
// missing or malformed. Malformed presets are skipped, never fatal.
func (l *Library) Load(name string) *Preset {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.cache[name]; ok {
		return p
	}

	var p *Preset
	data, err := os.ReadFile(filepath.Join(l.dir, name+".json"))
	if err == nil {
		var f File
		if err := json.Unmarshal(data, &f); err == nil {
			p = extract(name, f)
		}
	}
	l.cache[name] = p
	return p
}
