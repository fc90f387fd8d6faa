package janitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/storage"
)

func TestSweepRemovesOldUnclaimedFiles(t *testing.T) {
	dir := t.TempDir()
	local := storage.NewLocal(dir, "http://localhost:8080/uploads", "secret")

	for _, key := range []string{"previews/old.png", "previews/claimed.png", "prints/fresh.png"} {
		if err := local.PutAt(key, []byte("x")); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	// age two of them past the retention window
	stale := time.Now().Add(-48 * time.Hour)
	for _, key := range []string{"previews/old.png", "previews/claimed.png"} {
		if err := os.Chtimes(filepath.Join(dir, filepath.FromSlash(key)), stale, stale); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	j := New(local, nil, nil)
	j.claimFn = func(_ context.Context, key string) (bool, error) {
		return key == "previews/claimed.png", nil
	}

	if err := j.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	keys, err := local.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, ok := keys["previews/old.png"]; ok {
		t.Fatalf("stale orphan survived sweep")
	}
	if _, ok := keys["previews/claimed.png"]; !ok {
		t.Fatalf("claimed file was removed")
	}
	if _, ok := keys["prints/fresh.png"]; !ok {
		t.Fatalf("fresh file was removed")
	}
}
