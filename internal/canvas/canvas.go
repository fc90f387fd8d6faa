package canvas

import (
	"log/slog"
	"sync"
)

// Canvas is the shared scene graph every tool mutates. Access is
// single-threaded and cooperative; the op token exists to reject re-entrant
// tool invocations (a second upload racing a pending one, an export started
// mid-crop), not to make the canvas safe for parallel use.
type Canvas struct {
	width  int
	height int
	logger *slog.Logger

	mu    sync.Mutex
	busy  bool
	curOp string

	objects []*Object
	active  *Object
}

func New(width, height int, logger *slog.Logger) *Canvas {
	if logger == nil {
		logger = slog.Default()
	}
	return &Canvas{width: width, height: height, logger: logger}
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Begin acquires the canvas operation token. Every mutating tool entry point
// calls Begin and defers the returned release; a concurrent call fails with
// ErrBusy instead of silently racing.
func (c *Canvas) Begin(op string) (release func(), err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		c.logger.Warn("canvas busy, operation rejected", "op", op, "holder", c.curOp)
		return nil, ErrBusy
	}
	c.busy = true
	c.curOp = op
	return func() {
		c.mu.Lock()
		c.busy = false
		c.curOp = ""
		c.mu.Unlock()
	}, nil
}

// Add appends an object at the top of the draw order.
func (c *Canvas) Add(o *Object) {
	c.objects = append(c.objects, o)
}

// InsertAt places an object at the given z-index (0 = bottom).
func (c *Canvas) InsertAt(i int, o *Object) {
	if i < 0 {
		i = 0
	}
	if i >= len(c.objects) {
		c.objects = append(c.objects, o)
		return
	}
	c.objects = append(c.objects[:i], append([]*Object{o}, c.objects[i:]...)...)
}

// Remove deletes an object; removing the active object clears the selection.
func (c *Canvas) Remove(o *Object) {
	for i, cur := range c.objects {
		if cur == o {
			c.objects = append(c.objects[:i], c.objects[i+1:]...)
			break
		}
	}
	if c.active == o {
		c.active = nil
	}
}

// Objects returns the draw-ordered object list (bottom first).
func (c *Canvas) Objects() []*Object {
	out := make([]*Object, len(c.objects))
	copy(out, c.objects)
	return out
}

func (c *Canvas) ObjectByName(name string) *Object {
	for _, o := range c.objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Background returns the current background object, if any.
func (c *Canvas) Background() *Object {
	for _, o := range c.objects {
		if o.Kind == KindBackground {
			return o
		}
	}
	return nil
}

// ImageCount counts user-visible images (uploaded or cropped) on the canvas.
func (c *Canvas) ImageCount() int {
	n := 0
	for _, o := range c.objects {
		if o.Kind.IsImage() {
			n++
		}
	}
	return n
}

func (c *Canvas) SetActive(o *Object) {
	if o != nil && !o.Selectable {
		return
	}
	c.active = o
}

func (c *Canvas) Active() *Object { return c.active }

// Clear removes every object including the background and drops the
// selection. Used on view toggles; the background is reconstructed fresh.
func (c *Canvas) Clear() {
	c.objects = nil
	c.active = nil
}

// RemoveNonBackground removes everything except the background object.
// This is the "reset canvas" operation.
func (c *Canvas) RemoveNonBackground() {
	kept := c.objects[:0]
	for _, o := range c.objects {
		if o.Kind == KindBackground {
			kept = append(kept, o)
		}
	}
	c.objects = kept
	c.active = nil
}
