// Package designer wires the canvas engine, the upload client and the event
// emitter into the one customizer surface the storefront embeds.
package designer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/canvas"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/events"
)

const (
	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 1000
)

type Config struct {
	ProductID int64
	VariantID int64

	// AssetDir holds the garment mockup PNGs.
	AssetDir string

	// ServerURL is the app server base for the signing endpoint.
	ServerURL string

	CanvasWidth  int
	CanvasHeight int

	Logger *slog.Logger
}

// Designer is one product customization session: a dual-side canvas, its
// tools and the save pipeline.
type Designer struct {
	cfg    Config
	logger *slog.Logger

	canvas   *canvas.Canvas
	bg       *canvas.BackgroundLoader
	ingestor *canvas.Ingestor
	crop     *canvas.CropTool
	text     *canvas.TextTool
	sides    *canvas.StateCache
	exporter *canvas.Exporter

	client  *UploadClient
	emitter *events.Emitter

	notes string
}

func New(cfg Config, emitter *events.Emitter) *Designer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CanvasWidth <= 0 {
		cfg.CanvasWidth = DefaultCanvasWidth
	}
	if cfg.CanvasHeight <= 0 {
		cfg.CanvasHeight = DefaultCanvasHeight
	}

	c := canvas.New(cfg.CanvasWidth, cfg.CanvasHeight, logger)
	bg := canvas.NewBackgroundLoader(cfg.AssetDir, logger)
	crop := canvas.NewCropTool(c, logger)

	d := &Designer{
		cfg:      cfg,
		logger:   logger,
		canvas:   c,
		bg:       bg,
		ingestor: canvas.NewIngestor(logger),
		crop:     crop,
		text:     canvas.NewTextTool(c, logger),
		sides:    canvas.NewStateCache(c, bg, crop, logger),
		exporter: canvas.NewExporter(c, logger),
		client:   NewUploadClient(cfg.ServerURL),
		emitter:  emitter,
	}
	_ = bg.Load(c, canvas.SideFront)
	return d
}

// Canvas exposes the scene graph for direct object manipulation (move,
// scale, rotate handled by the embedding UI).
func (d *Designer) Canvas() *canvas.Canvas { return d.canvas }

// Side is the garment face currently being edited.
func (d *Designer) Side() canvas.Side { return d.sides.Current() }

// UploadImage ingests an uploaded file onto the current side. A non-nil
// PendingUpload means the image cap was hit and the caller must resolve it.
func (d *Designer) UploadImage(data []byte) (*canvas.Object, *canvas.PendingUpload, error) {
	return d.ingestor.Upload(d.canvas, d.Side(), data)
}

// AddText places a new text object on the current side.
func (d *Designer) AddText(content string) (*canvas.Object, error) {
	return d.text.Add(d.Side(), content)
}

func (d *Designer) Text() *canvas.TextTool { return d.text }

// ToggleSide switches between front and back, preserving each side's state.
func (d *Designer) ToggleSide() (canvas.Side, error) {
	return d.sides.Toggle()
}

// StartCrop enters crop mode on the selected image.
func (d *Designer) StartCrop() error {
	return d.crop.Begin(d.Side())
}

func (d *Designer) Crop() *canvas.CropTool { return d.crop }

// ApplyCrop replaces the crop target with the cropped raster.
func (d *Designer) ApplyCrop() (*canvas.Object, error) {
	return d.crop.Apply()
}

func (d *Designer) CancelCrop() { d.crop.Cancel() }

// SetNotes stores free-form production notes carried into the order.
func (d *Designer) SetNotes(notes string) { d.notes = notes }

func (d *Designer) Notes() string { return d.notes }

// Reset clears the current side back to a bare garment.
func (d *Designer) Reset() {
	if d.crop.Active() {
		d.crop.Cancel()
	}
	d.canvas.RemoveNonBackground()
}

// Save exports the current design, uploads both artifacts through signed
// URLs and announces the saved design. The emitted URLs are the stable
// object addresses with the signatures stripped.
func (d *Designer) Save(ctx context.Context) (events.DesignSaved, error) {
	preview, err := d.exporter.ExportPreview()
	if err != nil {
		return events.DesignSaved{}, err
	}
	printFile, err := d.exporter.ExportPrint()
	if err != nil {
		return events.DesignSaved{}, err
	}

	signed, err := d.client.Sign(ctx, len(printFile))
	if err != nil {
		d.logger.Error("design save: sign failed", "err", err)
		return events.DesignSaved{}, err
	}
	if err := d.client.PutPNG(ctx, signed.PreviewURL, preview); err != nil {
		d.logger.Error("design save: preview upload failed", "err", err)
		return events.DesignSaved{}, err
	}
	if err := d.client.PutPNG(ctx, signed.PrintURL, printFile); err != nil {
		d.logger.Error("design save: print upload failed", "err", err)
		return events.DesignSaved{}, err
	}

	saved := events.DesignSaved{
		DesignID:   uuid.NewString(),
		PreviewURL: stripQuery(signed.PreviewURL),
		PrintURL:   stripQuery(signed.PrintURL),
		Notes:      d.notes,
		ProductID:  d.cfg.ProductID,
		VariantID:  d.cfg.VariantID,
	}

	d.logger.Info("design saved",
		"design_id", saved.DesignID, "preview_url", saved.PreviewURL, "print_url", saved.PrintURL)

	if d.emitter != nil {
		d.emitter.Emit(saved)
	}
	return saved, nil
}
