package canvas

import "log/slog"

// StateCache holds one serialized snapshot per garment side so toggling
// views restores each side's prior edits. Snapshots exist only in memory
// for the session; they never contain backgrounds or crop overlays.
type StateCache struct {
	canvas *Canvas
	bg     *BackgroundLoader
	crop   *CropTool
	logger *slog.Logger

	current Side
	slots   map[Side][]byte
}

func NewStateCache(c *Canvas, bg *BackgroundLoader, crop *CropTool, logger *slog.Logger) *StateCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateCache{
		canvas:  c,
		bg:      bg,
		crop:    crop,
		logger:  logger,
		current: SideFront,
		slots:   map[Side][]byte{},
	}
}

// Current is the side being edited.
func (s *StateCache) Current() Side { return s.current }

// SaveCurrent overwrites the current side's snapshot slot with the canvas's
// non-background, non-overlay objects.
func (s *StateCache) SaveCurrent() error {
	data, err := s.canvas.Serialize()
	if err != nil {
		return err
	}
	s.slots[s.current] = data
	return nil
}

// Toggle switches to the other side: any active crop is cancelled first,
// the outgoing side is snapshotted, the canvas is cleared, and the incoming
// side's snapshot (if any) is restored under a freshly loaded background.
func (s *StateCache) Toggle() (Side, error) {
	if s.crop != nil && s.crop.Active() {
		s.crop.Cancel()
	}

	release, err := s.canvas.Begin("view-toggle")
	if err != nil {
		return s.current, err
	}
	defer release()

	data, err := s.canvas.Serialize()
	if err != nil {
		return s.current, err
	}
	s.slots[s.current] = data

	next := s.current.Other()
	s.canvas.Clear()

	if saved := s.slots[next]; saved != nil {
		if err := s.canvas.Restore(saved); err != nil {
			s.logger.Error("snapshot restore failed", "side", next, "err", err)
			s.canvas.Clear()
		}
	}
	if s.bg != nil {
		// background is reconstructed fresh on every restore, never cached
		// in a snapshot
		_ = s.bg.Load(s.canvas, next)
	}

	s.current = next
	return next, nil
}
