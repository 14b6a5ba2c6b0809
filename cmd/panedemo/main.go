package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nickprotop/pane"
)

var (
	configPath string
	mouseFlag  bool
)

func main() {
	root := &cobra.Command{
		Use:   "panedemo",
		Short: "Overlapping-window terminal rendering demo",
		Long: `panedemo opens a few overlapping windows and drives the
renderer interactively.

  tab         cycle window activation
  arrow keys  move the active window
  + / -       resize the active window
  j / k       scroll the log window
  p           open a dropdown portal on the active window
  m           minimize / restore the active window
  q, ctrl-c   quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "panedemo.toml", "config file path")
	root.Flags().BoolVar(&mouseFlag, "mouse", true, "enable mouse support")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := pane.LoadConfig(configPath)
	if err != nil {
		return err
	}
	cfg.Mouse = cfg.Mouse && mouseFlag

	log, closer, err := pane.NewLogger(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	var opts []pane.TermOption
	if cfg.Mouse {
		opts = append(opts, pane.WithMouse())
	}
	driver, err := pane.OpenTerm(opts...)
	if err != nil {
		return err
	}
	defer driver.Close()

	mgr, err := pane.NewManager(driver,
		pane.WithLogger(log),
		pane.WithResizePoll(cfg.PollInterval()),
	)
	if err != nil {
		return err
	}

	logBox := pane.NewScrollBox()
	for i := 1; i <= 40; i++ {
		logBox.Add(pane.Labelf("%3d  event recorded", i).Dim())
	}
	logWin := pane.NewWindow("log", pane.NewRect(4, 2, 44, 14))
	logWin.SetRoot(pane.NewBox(
		pane.NewLabel("recent activity").Bold().Pin(pane.StickyTop),
		logBox,
	))

	statusWin := pane.NewWindow("status", pane.NewRect(30, 8, 40, 10))
	statusWin.SetRoot(pane.NewBox(
		pane.NewLabel("all systems nominal").Fg(pane.Green),
		pane.NewSpacer(),
		pane.NewLabel("tab: switch  q: quit").Dim().Align(pane.AlignCenter),
	))

	clockWin := pane.NewWindow("clock", pane.NewRect(58, 1, 20, 3))
	clockWin.SetClass(pane.ClassAlwaysOnTop)
	clockLabel := pane.NewLabel(time.Now().Format("15:04:05")).Align(pane.AlignCenter)
	clockWin.SetRoot(pane.NewBox(clockLabel))

	chrome := pane.DefaultChrome()
	chrome.Border = cfg.BorderStyle()
	for _, w := range []*pane.Window{logWin, statusWin, clockWin} {
		w.SetChrome(chrome)
		mgr.AddWindow(w)
	}
	mgr.Activate(logWin)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				clockLabel.SetText(t.Format("15:04:05"))
				clockWin.Invalidate()
			}
		}
	}()

	mgr.OnEvent(func(ev pane.Event) bool {
		key, ok := ev.(pane.KeyEvent)
		if !ok {
			return false
		}
		active := mgr.Active()
		switch {
		case key.Key == pane.KeyCtrlC, key.Rune == 'q':
			cancel()
		case key.Key == pane.KeyTab:
			cycleActivation(mgr)
		case key.Key == pane.KeyUp && active != nil:
			moveWindow(active, 0, -1)
		case key.Key == pane.KeyDown && active != nil:
			moveWindow(active, 0, 1)
		case key.Key == pane.KeyLeft && active != nil:
			moveWindow(active, -2, 0)
		case key.Key == pane.KeyRight && active != nil:
			moveWindow(active, 2, 0)
		case key.Rune == '+' && active != nil:
			resizeWindow(active, 2, 1)
		case key.Rune == '-' && active != nil:
			resizeWindow(active, -2, -1)
		case key.Rune == 'j':
			logBox.ScrollBy(1)
			logWin.Invalidate()
		case key.Rune == 'k':
			logBox.ScrollBy(-1)
			logWin.Invalidate()
		case key.Rune == 'm' && active != nil:
			if active.Minimized() {
				active.Restore()
			} else {
				active.Minimize()
			}
		case key.Rune == 'p' && active != nil:
			openMenu(active)
		default:
			return false
		}
		return true
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sig:
			cancel()
		case <-ctx.Done():
		}
	}()

	return mgr.Run(ctx)
}

func cycleActivation(mgr *pane.Manager) {
	windows := mgr.Windows()
	if len(windows) == 0 {
		return
	}
	active := mgr.Active()
	next := 0
	for i, w := range windows {
		if w == active {
			next = (i + 1) % len(windows)
			break
		}
	}
	mgr.Activate(windows[next])
}

func moveWindow(w *pane.Window, dx, dy int) {
	b := w.Bounds()
	w.SetBounds(pane.NewRect(max(b.X+dx, 0), max(b.Y+dy, 0), b.Width, b.Height))
}

func resizeWindow(w *pane.Window, dw, dh int) {
	b := w.Bounds()
	w.SetBounds(pane.NewRect(b.X, b.Y, max(b.Width+dw, 8), max(b.Height+dh, 3)))
}

// menu is a small dropdown rendered through the portal layer.
type menu struct {
	bounds pane.Rect
	items  []string
}

func (m *menu) Bounds() pane.Rect { return m.bounds }

func (m *menu) Paint(buf *pane.Buffer, bounds, clip pane.Rect) {
	style := pane.DefaultStyle().Background(pane.RGB(0x20, 0x30, 0x50))
	buf.FillRect(bounds.Intersect(clip), pane.NewCell(' ', style))
	buf.DrawBorder(bounds, pane.BorderRounded, style)
	for i, item := range m.items {
		buf.WriteStringClipped(bounds.X+2, bounds.Y+1+i, item, style, bounds.Width-3)
	}
}

func (m *menu) HitTest(x, y int) bool { return m.bounds.Contains(x, y) }

func (m *menu) DismissOnOutsideClick() bool { return true }

func openMenu(w *pane.Window) {
	items := []string{"first action", "second action", "third action"}
	anchor := pane.NewRect(2, 0, 1, 1)
	size := pane.Size{Width: 20, Height: len(items) + 2}
	container := pane.Rect{Width: w.Bounds().Width, Height: w.Bounds().Height}
	m := &menu{
		bounds: pane.PositionPortal(anchor, size, pane.PlaceBelow, container),
		items:  items,
	}
	w.OpenPortal(m, nil)
}
