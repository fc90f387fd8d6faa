package canvas

import (
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// BackgroundName is the stable name of the pinned mockup layer.
const BackgroundName = "tshirt-background"

var defaultMockups = map[Side]string{
	SideFront: "front-white-tshirt.png",
	SideBack:  "back-white-tshirt.png",
}

// BackgroundLoader resolves the per-side garment mockup, decodes it once and
// pins it as the non-interactive bottom layer. Decoded mockups are cached;
// an optional fsnotify watcher drops cache entries when the asset files
// change on disk so a merchant can swap mockups without a restart.
type BackgroundLoader struct {
	assetDir string
	files    map[Side]string
	logger   *slog.Logger

	mu      sync.Mutex
	cache   map[Side]image.Image
	watcher *fsnotify.Watcher
}

func NewBackgroundLoader(assetDir string, logger *slog.Logger) *BackgroundLoader {
	if logger == nil {
		logger = slog.Default()
	}
	files := make(map[Side]string, len(defaultMockups))
	for side, name := range defaultMockups {
		files[side] = name
	}
	return &BackgroundLoader{
		assetDir: assetDir,
		files:    files,
		logger:   logger,
		cache:    map[Side]image.Image{},
	}
}

// SetMockup overrides the asset file used for one side.
func (l *BackgroundLoader) SetMockup(side Side, filename string) {
	l.mu.Lock()
	l.files[side] = filename
	delete(l.cache, side)
	l.mu.Unlock()
}

// Watch starts invalidating cached mockups when files in the asset dir
// change. Safe to skip; the cache simply stays warm forever.
func (l *BackgroundLoader) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(l.assetDir); err != nil {
		w.Close()
		return err
	}
	l.watcher = w

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				l.invalidate(filepath.Base(ev.Name))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.logger.Warn("mockup watcher error", "err", err)
			}
		}
	}()
	return nil
}

func (l *BackgroundLoader) Close() error {
	if l.watcher == nil {
		return nil
	}
	return l.watcher.Close()
}

func (l *BackgroundLoader) invalidate(filename string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for side, name := range l.files {
		if name == filename {
			delete(l.cache, side)
			l.logger.Info("mockup cache invalidated", "side", side, "file", filename)
		}
	}
}

func (l *BackgroundLoader) mockup(side Side) (image.Image, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if img, ok := l.cache[side]; ok {
		return img, nil
	}
	path := filepath.Join(l.assetDir, l.files[side])
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	l.cache[side] = img
	return img, nil
}

// Load replaces the canvas background with the given side's mockup, scaled
// to fit the canvas width and pinned at the bottom of the draw order. A
// missing or undecodable mockup is logged and swallowed: the canvas stays
// usable without a background, it never blocks the caller.
func (l *BackgroundLoader) Load(c *Canvas, side Side) error {
	if prev := c.Background(); prev != nil {
		c.Remove(prev)
	}

	img, err := l.mockup(side)
	if err != nil {
		l.logger.Error("background mockup load failed", "side", side, "err", err)
		return nil
	}

	o := NewImageObject(KindBackground, BackgroundName, img, nil)
	o.Selectable = false
	o.Evented = false
	o.Left = float64(c.Width()) / 2
	o.Top = float64(c.Height()) / 2

	// scale-to-fit canvas width
	if o.baseW > 0 {
		s := float64(c.Width()) / o.baseW
		o.ScaleX = s
		o.ScaleY = s
	}

	c.InsertAt(0, o)
	return nil
}
