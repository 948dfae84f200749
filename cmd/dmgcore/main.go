package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/urfave/cli"
	"golang.org/x/term"

	"github.com/valerio/go-dmgcore/dmg"
	"github.com/valerio/go-dmgcore/dmg/backend"
	"github.com/valerio/go-dmgcore/dmg/backend/ebiten"
	"github.com/valerio/go-dmgcore/dmg/backend/headless"
	"github.com/valerio/go-dmgcore/dmg/backend/sdl2"
	"github.com/valerio/go-dmgcore/dmg/backend/terminal"
	"github.com/valerio/go-dmgcore/dmg/debug"
	"github.com/valerio/go-dmgcore/dmg/host"
	"github.com/valerio/go-dmgcore/dmg/script"
	"github.com/valerio/go-dmgcore/dmg/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Usage = "run a Game Boy ROM"
	app.UsageText = "dmgcore [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "terminal, headless, sdl2 or ebiten (default: terminal on a TTY, headless otherwise)",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Stop after N frames (0 = run until quit)",
		},
		cli.IntFlag{
			Name:  "steps",
			Usage: "Run exactly N steps without a backend, then exit",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Pixel scale for windows and snapshots",
			Value: 1,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save a PNG every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory for PNG snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "dump",
			Usage: "Print CPU state and a text rendering of the last frame on exit",
		},
		cli.StringFlag{
			Name:  "script",
			Usage: "Run a Lua script; the ROM path is available as the global 'rom'",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
	app.Action = runEmulator
	app.Commands = []cli.Command{
		{
			Name:      "disasm",
			Usage:     "disassemble a ROM",
			ArgsUsage: "<ROM file>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "from", Usage: "Start address", Value: "0x0100"},
				cli.IntFlag{Name: "n", Usage: "Number of instructions", Value: 32},
			},
			Action: runDisassembler,
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmgcore failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// restoreLogging points the default logger back at w and replays what was
// held while the screen was taken.
func restoreLogging(w io.Writer, held *bytes.Buffer, verbose bool) {
	setupLogging(w, verbose)
	_, _ = held.WriteTo(w)
}

func romPath(c *cli.Context) string {
	if path := c.String("rom"); path != "" {
		return path
	}
	return c.Args().First()
}

func runEmulator(c *cli.Context) error {
	verbose := c.Bool("verbose")
	setupLogging(os.Stderr, verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := romPath(c)
	if scriptPath := c.String("script"); scriptPath != "" {
		return runScript(scriptPath, path)
	}
	if path == "" {
		cli.ShowAppHelp(c)
		return errors.New("no ROM path provided")
	}

	emu, err := dmg.NewWithFile(path)
	if err != nil {
		return err
	}

	if steps := c.Int("steps"); steps > 0 {
		err = emu.RunContext(ctx, steps)
	} else {
		err = runBackend(ctx, c, emu, path)
	}

	if c.Bool("dump") {
		fmt.Print(debug.Dump(emu, true))
	}
	return err
}

func runBackend(ctx context.Context, c *cli.Context, emu *dmg.Emulator, path string) error {
	name := c.String("backend")
	stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))
	if name == "" {
		name = defaultBackend(stdoutTTY)
	}

	cfg := backend.Config{
		Title: fmt.Sprintf("dmgcore - %s", emu.MMU().Cartridge().Title),
		Scale: c.Int("scale"),
	}

	var (
		b       backend.Backend
		limiter timing.Limiter
	)
	switch name {
	case "headless":
		snaps, err := snapshotter(c.Int("snapshot-interval"), c.String("snapshot-dir"), path, cfg.Scale)
		if err != nil {
			return err
		}
		b = headless.New(c.Int("frames"), snaps)
	case "terminal":
		if !stdoutTTY {
			return errors.New("terminal backend needs a terminal on stdout, use --backend headless")
		}
		// tcell owns the screen, hold logs until it is released
		var logs bytes.Buffer
		setupLogging(&logs, c.Bool("verbose"))
		defer restoreLogging(os.Stderr, &logs, c.Bool("verbose"))
		b = terminal.New()
		limiter = timing.NewTicker()
	case "sdl2":
		b = sdl2.New()
		limiter = timing.NewAdaptive()
	case "ebiten":
		b = ebiten.New()
	default:
		return fmt.Errorf("unknown backend %q", name)
	}

	slog.Info("starting", "backend", name, "rom", path)
	return backend.Run(ctx, emu, b, cfg, limiter, c.Int("frames"))
}

func defaultBackend(stdoutTTY bool) string {
	if stdoutTTY {
		return "terminal"
	}
	return "headless"
}

// snapshotter builds the headless snapshot settings, creating a temp
// directory when none is given.
func snapshotter(interval int, dir, romPath string, scale int) (debug.Snapshotter, error) {
	if interval <= 0 {
		return debug.Snapshotter{}, nil
	}
	if dir == "" {
		tmp, err := os.MkdirTemp("", "dmgcore-snapshots-*")
		if err != nil {
			return debug.Snapshotter{}, fmt.Errorf("creating snapshot directory: %w", err)
		}
		dir = tmp
	}

	name := strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))
	return debug.Snapshotter{Dir: dir, Interval: interval, Scale: scale, Prefix: name}, nil
}

func runScript(path, rom string) error {
	registry := host.NewRegistry()
	defer registry.CloseAll()

	rt := script.New(registry, os.Stdout)
	defer rt.Close()
	rt.SetString("rom", rom)
	return rt.DoFile(path)
}

func runDisassembler(c *cli.Context) error {
	setupLogging(os.Stderr, false)

	path := c.Args().First()
	if path == "" {
		return errors.New("no ROM path provided")
	}
	from, err := parseAddress(c.String("from"))
	if err != nil {
		return err
	}

	emu, err := dmg.NewWithFile(path)
	if err != nil {
		return err
	}
	lines, err := emu.DisassembleAt(from, c.Int("n"))
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}

// parseAddress accepts decimal, 0x-prefixed or $-prefixed hex.
func parseAddress(s string) (uint16, error) {
	if rest, ok := strings.CutPrefix(s, "$"); ok {
		s = "0x" + rest
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint16(v), nil
}
