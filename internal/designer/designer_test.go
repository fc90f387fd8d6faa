package designer

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/canvas"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/cart"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/events"
)

// fakeServer plays both roles of the save pipeline: the app server's signing
// endpoint and the storage endpoint the signed URLs point at.
type fakeServer struct {
	srv *httptest.Server

	mu   sync.Mutex
	puts map[string][]byte
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{puts: map[string][]byte{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/sign-upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			FileType string `json:"fileType"`
			FileSize int    `json:"fileSize"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileType != "png" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"previewUrl":      f.srv.URL + "/storage/previews/1.png?sig=abc",
			"printUrl":        f.srv.URL + "/storage/prints/1.png?sig=def",
			"previewFileName": "previews/1.png",
			"printFileName":   "prints/1.png",
		})
	})
	mux.HandleFunc("/storage/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Query().Get("sig") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		data, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.puts[r.URL.Path] = data
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeServer) put(path string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts[path]
}

func newTestDesigner(t *testing.T, srvURL string, em *events.Emitter) *Designer {
	t.Helper()
	return New(Config{
		ProductID: 11,
		VariantID: 21,
		AssetDir:  t.TempDir(), // no mockups: backgroundless canvas
		ServerURL: srvURL,
	}, em)
}

func TestSaveUploadsAndEmits(t *testing.T) {
	f := newFakeServer(t)
	em := events.New()
	bridge := cart.NewBridge(em, 11, 21)
	defer bridge.Close()

	d := newTestDesigner(t, f.srv.URL, em)
	if _, err := d.AddText("HELLO"); err != nil {
		t.Fatalf("add text: %v", err)
	}
	d.SetNotes("left chest")

	saved, err := d.Save(context.Background())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if saved.DesignID == "" {
		t.Fatalf("no design id")
	}
	if saved.PreviewURL != f.srv.URL+"/storage/previews/1.png" {
		t.Fatalf("preview url = %q, signature not stripped", saved.PreviewURL)
	}
	if saved.PrintURL != f.srv.URL+"/storage/prints/1.png" {
		t.Fatalf("print url = %q", saved.PrintURL)
	}
	if saved.ProductID != 11 || saved.VariantID != 21 || saved.Notes != "left chest" {
		t.Fatalf("saved = %+v", saved)
	}

	// Both artifacts landed in storage at their signed keys, at the preview
	// and print resolutions.
	preview := f.put("/storage/previews/1.png")
	printFile := f.put("/storage/prints/1.png")
	if preview == nil || printFile == nil {
		t.Fatalf("uploads missing: preview=%v print=%v", preview != nil, printFile != nil)
	}
	pimg, err := png.Decode(bytes.NewReader(preview))
	if err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if pimg.Bounds().Dx() != 400 || pimg.Bounds().Dy() != 500 {
		t.Fatalf("preview = %v", pimg.Bounds())
	}
	qimg, err := png.Decode(bytes.NewReader(printFile))
	if err != nil {
		t.Fatalf("decode print: %v", err)
	}
	if qimg.Bounds().Dx() != 1600 || qimg.Bounds().Dy() != 2000 {
		t.Fatalf("print = %v", qimg.Bounds())
	}

	// The cart bridge picked the save up.
	if !bridge.Ready() {
		t.Fatalf("bridge not ready after save")
	}
	props := bridge.FormProperties()
	if props.Get("properties[design_id]") != saved.DesignID {
		t.Fatalf("bridge design_id = %q", props.Get("properties[design_id]"))
	}
}

func TestSaveFailsWhenSigningFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := newTestDesigner(t, srv.URL, events.New())
	if _, err := d.Save(context.Background()); err == nil {
		t.Fatalf("save succeeded against failing signer")
	}
}

func TestDesignerSideWorkflow(t *testing.T) {
	d := newTestDesigner(t, "http://unused", events.New())

	if d.Side() != canvas.SideFront {
		t.Fatalf("initial side = %q", d.Side())
	}
	if _, err := d.AddText("front"); err != nil {
		t.Fatalf("add text: %v", err)
	}

	side, err := d.ToggleSide()
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if side != canvas.SideBack {
		t.Fatalf("side = %q", side)
	}
	if n := len(d.Canvas().Objects()); n != 0 {
		t.Fatalf("back side has %d objects", n)
	}

	if _, err := d.ToggleSide(); err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if n := len(d.Canvas().Objects()); n != 1 {
		t.Fatalf("front side restored %d objects, want 1", n)
	}
}

func TestDesignerResetKeepsBackgroundOnly(t *testing.T) {
	d := newTestDesigner(t, "http://unused", events.New())

	if _, err := d.AddText("x"); err != nil {
		t.Fatalf("add text: %v", err)
	}
	d.Reset()
	if n := len(d.Canvas().Objects()); n != 0 {
		t.Fatalf("objects after reset = %d", n)
	}
}
