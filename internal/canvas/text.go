package canvas

import "log/slog"

const (
	DefaultFontSize = 30
	DefaultTextFill = "#000000"
)

// TextTool adds and edits styled single-line text objects. Property updates
// apply only to the currently selected text object.
type TextTool struct {
	canvas *Canvas
	logger *slog.Logger
}

func NewTextTool(c *Canvas, logger *slog.Logger) *TextTool {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextTool{canvas: c, logger: logger}
}

// Add places a text object at canvas center with the default styling and
// selects it.
func (t *TextTool) Add(view Side, content string) (*Object, error) {
	release, err := t.canvas.Begin("text-add")
	if err != nil {
		return nil, err
	}
	defer release()

	o, err := NewTextObject(uniqueName("text", view), content, DefaultFontFamily, DefaultFontSize, DefaultTextFill)
	if err != nil {
		t.logger.Error("text object create failed", "view", view, "err", err)
		return nil, err
	}
	o.Left = float64(t.canvas.Width()) / 2
	o.Top = float64(t.canvas.Height()) / 2

	t.canvas.Add(o)
	t.canvas.SetActive(o)
	return o, nil
}

func (t *TextTool) selectedText() (*Object, error) {
	sel := t.canvas.Active()
	if sel == nil {
		return nil, ErrNoSelection
	}
	if sel.Kind != KindText {
		return nil, ErrNotText
	}
	return sel, nil
}

// UpdateText replaces the selected text object's content.
func (t *TextTool) UpdateText(content string) error {
	sel, err := t.selectedText()
	if err != nil {
		return err
	}
	return sel.SetText(content)
}

// UpdateFont changes family and size on the selected text object.
func (t *TextTool) UpdateFont(family string, size float64) error {
	sel, err := t.selectedText()
	if err != nil {
		return err
	}
	return sel.SetFont(family, size)
}

// UpdateFill changes the selected text object's color.
func (t *TextTool) UpdateFill(fill string) error {
	sel, err := t.selectedText()
	if err != nil {
		return err
	}
	sel.Fill = fill
	return nil
}

// DeleteSelected removes whatever object is selected, text or not.
func (t *TextTool) DeleteSelected() error {
	sel := t.canvas.Active()
	if sel == nil {
		return ErrNoSelection
	}
	t.canvas.Remove(sel)
	return nil
}
