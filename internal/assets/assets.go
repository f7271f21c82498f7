// Package assets resolves and caches wall textures.
package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // register BMP decoder

	"github.com/Faultbox/sectorview/internal/engine/texture"
	"github.com/Faultbox/sectorview/internal/logger"
	"github.com/Faultbox/sectorview/pkg/encoding"
)

// Texture lookup errors.
var (
	ErrTextureNotFound = errors.New("texture not found")
	ErrTextureDecode   = errors.New("texture decode failed")
)

// TextureLibrary finds texture files by reference in a list of directories.
type TextureLibrary struct {
	dirs       []string
	extensions []string
	cache      *Cache
	mu         sync.RWMutex
}

// NewTextureLibrary creates a library searching dirs in order.
// extensions are tried when a reference does not name an existing file.
func NewTextureLibrary(dirs, extensions []string) *TextureLibrary {
	return &TextureLibrary{
		dirs:       append([]string(nil), dirs...),
		extensions: append([]string(nil), extensions...),
		cache:      NewCache(),
	}
}

// AddDir appends a search directory with the lowest priority.
func (l *TextureLibrary) AddDir(dir string) {
	l.mu.Lock()
	l.dirs = append(l.dirs, dir)
	l.mu.Unlock()
}

// Resolve returns the file a texture reference points to.
func (l *TextureLibrary) Resolve(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", ErrTextureNotFound)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	names := []string{ref}
	if norm := encoding.NormalizeAssetPath(ref); norm != ref {
		names = append(names, norm)
	}

	for _, dir := range l.dirs {
		for _, name := range names {
			base := filepath.Join(dir, filepath.FromSlash(name))
			if isFile(base) {
				return base, nil
			}
			for _, ext := range l.extensions {
				if isFile(base + ext) {
					return base + ext, nil
				}
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTextureNotFound, ref)
}

// Load returns the decoded image for a texture reference.
// Failed lookups are cached too, so a missing texture is only searched once.
func (l *TextureLibrary) Load(ref string) (image.Image, error) {
	key := encoding.NormalizeAssetPath(ref)
	if entry, ok := l.cache.Get(key); ok {
		return entry.Image, entry.Err
	}

	img, err := l.load(ref)
	l.cache.Set(key, Entry{Image: img, Err: err})
	return img, err
}

func (l *TextureLibrary) load(ref string) (image.Image, error) {
	path, err := l.Resolve(ref)
	if err != nil {
		return nil, err
	}

	img, format, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	logger.Named("assets").Debug("texture loaded",
		zap.String("ref", ref),
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))
	return img, nil
}

// Stats returns cache statistics.
func (l *TextureLibrary) Stats() (hits, misses int) {
	return l.cache.Stats()
}

// Clear drops every cached texture.
func (l *TextureLibrary) Clear() {
	l.cache.Clear()
}

// decodeFile decodes path by content sniffing, or as TGA by extension.
func decodeFile(path string) (image.Image, string, error) {
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s: %w", ErrTextureNotFound, path, err)
		}
		img, err := texture.DecodeTGA(data)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s: %w", ErrTextureDecode, path, err)
		}
		return img, "tga", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", ErrTextureNotFound, path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", ErrTextureDecode, path, err)
	}
	return img, format, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Entry is a cached lookup result. Err is set for failed lookups.
type Entry struct {
	Image image.Image
	Err   error
}

// Cache is a simple in-memory cache for loaded textures.
type Cache struct {
	data map[string]Entry
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]Entry),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return entry, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]Entry)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
