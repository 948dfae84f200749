package debug

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/valerio/go-dmgcore/dmg/video"
)

// Image converts a frame buffer to RGBA at native resolution.
func Image(fb *video.FrameBuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width(), fb.Height()))
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			img.SetRGBA(x, y, fb.At(x, y).RGBA())
		}
	}
	return img
}

// ScaledImage is Image enlarged by an integer factor without smoothing.
func ScaledImage(fb *video.FrameBuffer, scale int) *image.RGBA {
	src := Image(fb)
	if scale <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, fb.Width()*scale, fb.Height()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SavePNG writes fb to path, scaled by scale.
func SavePNG(fb *video.FrameBuffer, path string, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, ScaledImage(fb, scale)); err != nil {
		return fmt.Errorf("encoding snapshot %s: %w", path, err)
	}
	return f.Close()
}

// Snapshotter saves every Nth frame into a directory, named by frame
// number.
type Snapshotter struct {
	Dir      string
	Interval int
	Scale    int
	Prefix   string
}

// Path returns the file a given frame is written to.
func (s Snapshotter) Path(frame uint64) string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = "frame"
	}
	return filepath.Join(s.Dir, fmt.Sprintf("%s_%06d.png", prefix, frame))
}

// Capture saves fb if frame falls on the interval. It reports whether a
// file was written.
func (s Snapshotter) Capture(fb *video.FrameBuffer, frame uint64) (bool, error) {
	if s.Interval <= 0 || frame%uint64(s.Interval) != 0 {
		return false, nil
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return false, fmt.Errorf("creating snapshot dir: %w", err)
	}

	path := s.Path(frame)
	if err := SavePNG(fb, path, s.Scale); err != nil {
		return false, err
	}
	slog.Info("snapshot saved", "path", path, "frame", frame)
	return true, nil
}
