package media

import (
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	"github.com/MaTriXy/videowall/internal/config"
)

// Library is the set of media resolved from the configured sources. Next
// draws from a shuffle bag so every item appears once before any repeats.
type Library struct {
	store config.Store

	mu    sync.Mutex
	items []Media
	dirs  []string
	bag   []int
	rng   *rand.Rand
}

func NewLibrary(store config.Store) *Library {
	return &Library{
		store: store,
		rng:   rand.New(rand.NewSource(rand.Int63())),
	}
}

// Reload resolves the configured sources again and resets the shuffle bag.
// It returns the number of media found.
func (l *Library) Reload() (int, error) {
	cfg, err := l.store.GetConfig()
	if err != nil {
		return 0, err
	}

	var items []Media
	var dirs []string
	for _, source := range cfg.Sources {
		if IsStream(source.Path) {
			items = append(items, Media{
				UUID: source.UUID,
				Path: source.Path,
				Kind: sourceKind(source, KindVideo),
			})
			continue
		}

		info, err := os.Stat(source.Path)
		if err != nil {
			return 0, err
		}

		if !info.IsDir() {
			kind, _ := Classify(source.Path)
			if kind = sourceKind(source, kind); kind == "" {
				continue
			}
			items = append(items, Media{
				UUID: source.UUID,
				Path: source.Path,
				Kind: kind,
			})
			continue
		}

		dirs = append(dirs, source.Path)
		entries, err := os.ReadDir(source.Path)
		if err != nil {
			return 0, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			kind, ok := Classify(entry.Name())
			if !ok {
				continue
			}
			items = append(items, Media{
				UUID: source.UUID + ":" + entry.Name(),
				Path: filepath.Join(source.Path, entry.Name()),
				Kind: kind,
			})
		}
	}

	l.mu.Lock()
	l.items = items
	l.dirs = dirs
	l.bag = nil
	l.mu.Unlock()

	return len(items), nil
}

func sourceKind(source config.Source, fallback Kind) Kind {
	switch source.Kind {
	case "photo":
		return KindPhoto
	case "video":
		return KindVideo
	default:
		return fallback
	}
}

// Next returns the next media from the shuffle bag, refilling it when empty.
func (l *Library) Next() (Media, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.items) == 0 {
		return Media{}, false
	}
	if len(l.bag) == 0 {
		l.bag = l.rng.Perm(len(l.items))
	}

	idx := l.bag[len(l.bag)-1]
	l.bag = l.bag[:len(l.bag)-1]
	return l.items[idx], true
}

func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Directories returns the source directories seen by the last Reload.
func (l *Library) Directories() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.dirs...)
}
