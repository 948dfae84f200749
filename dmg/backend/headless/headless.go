// Package headless is a backend with no display, for batch runs and tests.
package headless

import (
	"log/slog"

	"github.com/valerio/go-dmgcore/dmg/backend"
	"github.com/valerio/go-dmgcore/dmg/debug"
	"github.com/valerio/go-dmgcore/dmg/video"
)

// progressInterval is how often, in frames, progress is logged.
const progressInterval = 60

// Backend counts frames and optionally saves PNG snapshots.
type Backend struct {
	maxFrames int
	frames    uint64
	snapshots debug.Snapshotter
	saved     int
}

// New returns a headless backend that quits after maxFrames frames, or
// never when maxFrames is zero. Snapshots are written when
// snapshots.Interval is positive.
func New(maxFrames int, snapshots debug.Snapshotter) *Backend {
	return &Backend{maxFrames: maxFrames, snapshots: snapshots}
}

func (h *Backend) Init(cfg backend.Config) error {
	if h.snapshots.Scale == 0 {
		h.snapshots.Scale = cfg.Scale
	}
	slog.Info("running headless",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshots.Interval,
		"snapshot_dir", h.snapshots.Dir)
	return nil
}

func (h *Backend) Update(frame *video.FrameBuffer) (backend.Events, error) {
	h.frames++

	wrote, err := h.snapshots.Capture(frame, h.frames)
	if err != nil {
		return backend.Events{}, err
	}
	if wrote {
		h.saved++
	}

	if h.frames%progressInterval == 0 {
		slog.Debug("frame progress", "completed", h.frames, "total", h.maxFrames)
	}

	if h.maxFrames > 0 && h.frames >= uint64(h.maxFrames) {
		slog.Info("headless run completed", "frames", h.frames, "snapshots", h.saved)
		return backend.Events{Quit: true}, nil
	}
	return backend.Events{}, nil
}

func (h *Backend) Cleanup() error { return nil }

// Frames returns how many frames were presented.
func (h *Backend) Frames() uint64 { return h.frames }

// Snapshots returns how many PNG files were written.
func (h *Backend) Snapshots() int { return h.saved }
