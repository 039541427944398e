package vizengine

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// captureFrame snapshots the screen into CaptureDir. Pixels are copied on the
// game thread; encoding and disk IO happen in a goroutine.
func (e *Engine) captureFrame(img *ebiten.Image, timestamp time.Time) {
	if e.CaptureDir == "" {
		return
	}

	if err := os.MkdirAll(e.CaptureDir, 0o755); err != nil {
		log.Printf("[CAPTURE] Error creating capture directory: %v", err)
		return
	}

	filename := fmt.Sprintf("fightsongs-%s-%s.png", timestamp.Format("20060102-150405"), e.sections[e.section].name)
	path := filepath.Join(e.CaptureDir, filename)

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	img.ReadPixels(rgba.Pix)

	go func() {
		f, err := os.Create(path)
		if err != nil {
			log.Printf("[CAPTURE] Error creating capture file: %v", err)
			return
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Printf("[CAPTURE] Error closing capture file: %v", err)
			}
		}()

		if err := png.Encode(f, rgba); err != nil {
			log.Printf("[CAPTURE] Error encoding capture: %v", err)
			return
		}
		log.Printf("[CAPTURE] Captured frame: %s", path)
	}()
}
