// Command pinscroll-demo runs the bottom-anchored feed widget in a real
// terminal. Keys: a append, A append a burst of three, d delete last,
// r replace last, End or click jump to bottom, arrows/PgUp/PgDn scroll,
// q or Ctrl+C quit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"github.com/odvcencio/pinscroll/pkg/config"
	"github.com/odvcencio/pinscroll/pkg/logging"
	"github.com/odvcencio/pinscroll/pkg/terminal"
	tcellbackend "github.com/odvcencio/pinscroll/pkg/ui/backend/tcell"
	"github.com/odvcencio/pinscroll/pkg/ui/runtime"
	uiterm "github.com/odvcencio/pinscroll/pkg/ui/terminal"
	"github.com/odvcencio/pinscroll/pkg/ui/widgets"
	"github.com/odvcencio/pinscroll/pkg/watch"
)

func main() {
	out := terminal.New()

	configPath := flag.String("config", "pinscroll.yaml", "path to YAML config")
	flag.Parse()

	if err := run(out, *configPath); err != nil {
		out.Error("%v", err)
		os.Exit(1)
	}
}

func run(out *terminal.Writer, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.File, logging.Level(cfg.Log.Level))
	if err != nil {
		return err
	}
	defer logger.Close()

	be, err := tcellbackend.New()
	if err != nil {
		return fmt.Errorf("starting terminal: %w", err)
	}
	be.SetMouseEnabled(cfg.UI.Mouse)

	feed := widgets.NewFeedView(cfg.AnchorConfig())
	root := runtime.VBox(
		runtime.Fixed(newHeader("pinscroll demo")),
		runtime.Expanded(feed),
		runtime.Fixed(newStatusBar("a append · A burst ·  d delete · r replace · End jump · q quit")),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	demo := &demoApp{
		feed:       feed,
		logger:     logger,
		configPath: configPath,
		stop:       stop,
	}

	// Hot-reload animation timings when the config file is saved. The
	// watcher fires on its own goroutine, so it only flips a flag that
	// the next frame tick picks up on the UI loop.
	if watcher, werr := watch.New(); werr == nil {
		defer watcher.Close()
		dir := filepath.Dir(configPath)
		if werr := watcher.Watch(dir); werr != nil {
			logger.Warn(logging.CategoryWatch, "watch_failed", "config watch failed",
				map[string]any{"dir": dir, "error": werr.Error()})
		} else {
			watcher.Subscribe(filepath.Base(configPath), func(watch.Change) {
				demo.reload.Store(true)
			})
		}
	} else {
		logger.Warn(logging.CategoryWatch, "watch_unavailable", "file watcher unavailable",
			map[string]any{"error": werr.Error()})
	}

	app := runtime.NewApp(runtime.AppConfig{
		Backend:        be,
		Root:           root,
		Update:         demo.update,
		CommandHandler: demo.handleCommand,
		TickRate:       cfg.UI.TickRate.Std(),
	})

	logger.Info(logging.CategoryApp, "starting", "demo starting",
		map[string]any{"config": configPath, "tick_rate": cfg.UI.TickRate.String()})
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	out.Success("done")
	return nil
}

// demoApp holds the demo's mutable state outside the widget tree.
type demoApp struct {
	feed       *widgets.FeedView
	logger     *logging.Logger
	configPath string
	stop       context.CancelFunc
	reload     atomic.Bool
	appended   int
}

func (d *demoApp) update(app *runtime.App, msg runtime.Message) bool {
	switch m := msg.(type) {
	case runtime.KeyMsg:
		if cmd := keyCommand(m); cmd != nil {
			return d.handleCommand(cmd)
		}
	case runtime.TickMsg:
		if d.reload.CompareAndSwap(true, false) {
			d.applyConfig()
		}
	}
	return runtime.DefaultUpdate(app, msg)
}

// keyCommand maps demo keys to widget commands. Arrow and paging keys
// are not handled here; the feed owns those.
func keyCommand(m runtime.KeyMsg) runtime.Command {
	if m.Key == uiterm.KeyCtrlC {
		return runtime.Quit{}
	}
	if m.Key == uiterm.KeyEnd {
		return runtime.JumpToBottom{}
	}
	if m.Key != uiterm.KeyRune {
		return nil
	}
	switch m.Rune {
	case 'q':
		return runtime.Quit{}
	case 'a':
		return runtime.AppendEntry{Count: 1}
	case 'A':
		return runtime.AppendEntry{Count: 3}
	case 'd':
		return runtime.RemoveEntry{}
	case 'r':
		return runtime.ReplaceEntry{}
	}
	return nil
}

func (d *demoApp) handleCommand(cmd runtime.Command) bool {
	switch c := cmd.(type) {
	case runtime.Quit:
		d.stop()
		return false
	case runtime.JumpToBottom:
		d.feed.Coordinator().Jump()
		return true
	case runtime.AppendEntry:
		n := c.Count
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			d.appended++
			id := d.feed.Append(widgets.NewText(d.nextMessage()))
			d.logger.Debug(logging.CategoryFeed, "entry_appended", "", map[string]any{"id": id})
		}
		return true
	case runtime.RemoveEntry:
		if c.ID != 0 {
			d.feed.Remove(c.ID)
		} else {
			d.feed.RemoveLast()
		}
		return true
	case runtime.ReplaceEntry:
		d.feed.ReplaceLast(widgets.NewText(d.nextMessage()))
		return true
	}
	return false
}

// applyConfig re-reads the config file and applies the animation
// timings to the live feed.
func (d *demoApp) applyConfig() {
	cfg, err := config.Load(d.configPath)
	if err != nil {
		d.logger.Warn(logging.CategoryConfig, "reload_failed", "config reload failed",
			map[string]any{"error": err.Error()})
		return
	}
	d.feed.ApplyTimings(cfg.AnchorConfig())
	d.logger.Info(logging.CategoryConfig, "reloaded", "config reloaded", map[string]any{
		"pre_scroll": cfg.Animation.PreScroll.String(),
		"settle":     cfg.Animation.Settle.String(),
		"entry":      cfg.Animation.Entry.String(),
	})
}

var sampleMessages = []string{
	"Short note.",
	"A medium-length update that wraps once or twice at typical terminal widths, enough to give the entry a few rows of height.",
	"Deploy finished. All checks passed and the rollout completed without a hitch.",
	"This is the long one. It rambles on for several sentences so the entry expands well past the others and the feed has to pin the viewport to the bottom while the height transition runs. When a batch of these lands at once, the pre-scroll has to complete before any of them start growing.",
	"ack",
	"Two lines maybe: the spacer should shrink as this lands and the feed stays bottom-anchored.",
}

func (d *demoApp) nextMessage() string {
	msg := sampleMessages[rand.Intn(len(sampleMessages))]
	return fmt.Sprintf("#%d %s", d.appended, msg)
}
