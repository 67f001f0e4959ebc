package remote

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"
)

// ErrFolderNotFound is returned when the template repository has no folder
// for the requested chip.
var ErrFolderNotFound = errors.New("template folder not found")

// File is one template file, Path relative to the template folder with
// forward slashes.
type File struct {
	Path string
	Data []byte
}

// Source provides the template files of one folder ("nrf52840",
// "rp2040_split", ...).
type Source interface {
	Fetch(ctx context.Context, folder string) ([]File, error)
}

// LocalDir is a template checked out on disk. The directory is the
// template itself, so the folder argument only labels errors.
type LocalDir struct {
	FS fs.FS
}

// Fetch implements Source.
func (l LocalDir) Fetch(ctx context.Context, folder string) ([]File, error) {
	var files []File

	err := fs.WalkDir(l.FS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != "." && d.Name() == ".git" {
				return fs.SkipDir
			}

			return nil
		}

		data, err := fs.ReadFile(l.FS, path)
		if err != nil {
			return err
		}

		files = append(files, File{Path: path, Data: data})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading local template for %s: %w", folder, err)
	}

	sortFiles(files)

	return files, nil
}

// Cache fetches each folder at most once. Entries live as long as the
// cache; there is no eviction.
type Cache struct {
	src     Source
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	once  sync.Once
	files []File
	err   error
}

// NewCache wraps src.
func NewCache(src Source) *Cache {
	return &Cache{src: src, entries: make(map[string]*cacheEntry)}
}

// Fetch implements Source. A failed fetch is cached too.
func (c *Cache) Fetch(ctx context.Context, folder string) ([]File, error) {
	c.mu.Lock()

	e, ok := c.entries[folder]
	if !ok {
		e = &cacheEntry{}
		c.entries[folder] = e
	}

	c.mu.Unlock()

	e.once.Do(func() {
		e.files, e.err = c.src.Fetch(ctx, folder)
	})

	if e.err != nil {
		return nil, e.err
	}

	return append([]File(nil), e.files...), nil
}

func sortFiles(files []File) {
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
}
