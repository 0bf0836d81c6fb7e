// cmd/panelsim/main.go
// Interactive host demo: a virtual character LCD driven by the same
// cooperative polling loop a command-station firmware would run.
// Status lines travel from the producer to the display rows through a
// ring stream as NUL-terminated "row:text" messages.
//
// Keys: q/ESC quit, r force a full refresh, o burst messages to
// provoke a ring overflow.

package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/openrailkit/panelmux/drivers/lcdsim"
	"github.com/openrailkit/panelmux/panel"
	"github.com/openrailkit/panelmux/ringstream"
)

var (
	cols     = flag.Int("cols", 16, "module columns")
	rows     = flag.Int("rows", 2, "module rows")
	mode     = flag.String("mode", "continuous", "scroll mode: continuous, page, row")
	interval = flag.Duration("interval", 2*time.Second, "pause between screen passes")
	latency  = flag.Duration("latency", 2*time.Millisecond, "simulated transfer time per operation")
	logPath  = flag.String("log", "", "write diagnostics to this file")
)

func scrollMode(s string) (panel.ScrollMode, error) {
	switch s {
	case "continuous":
		return panel.ScrollContinuous, nil
	case "page":
		return panel.ScrollPage, nil
	case "row":
		return panel.ScrollRow, nil
	}
	return 0, fmt.Errorf("unknown scroll mode %q", s)
}

func main() {
	flag.Parse()

	sm, err := scrollMode(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var logW io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		logW = f
	}
	logger := slog.New(slog.NewTextHandler(logW, nil))

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer screen.Fini()

	dev := lcdsim.New(screen, lcdsim.Config{
		Cols: *cols, Rows: *rows, X: 2, Y: 1, Latency: *latency,
	})

	display := panel.New(dev)
	_ = display.Configure(panel.Config{Mode: sm, ScrollInterval: *interval})
	if err := display.Begin(); err != nil {
		screen.Fini()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var registry panel.Registry
	registry.Add(display)

	stream := ringstream.New(128)
	stream.SetLogger(logger)

	display.PrintRow(0, "openrailkit")
	display.Refresh()

	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	// Producer state: rotating railway status lines.
	locoSpeed := 0
	produce := func(row int, text string) {
		if _, err := fmt.Fprintf(stream, "%d:%s\x00", row, text); err != nil {
			logger.Warn("status message dropped", "row", row, "err", err)
		}
	}

	// drain moves complete messages from the stream into display rows.
	drain := func() {
		for {
			n := stream.Count()
			if n == 0 {
				return
			}
			msg := make([]byte, n)
			for i := range msg {
				msg[i], _ = stream.Get()
			}
			stream.Get() // terminator
			if len(msg) < 2 || msg[1] != ':' {
				logger.Warn("malformed status message", "msg", string(msg))
				continue
			}
			display.PrintRow(int(msg[0]-'0'), string(msg[2:]))
		}
	}

	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()
	status := time.NewTicker(700 * time.Millisecond)
	defer status.Stop()
	start := time.Now()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
					return
				case ev.Rune() == 'r':
					display.Refresh()
				case ev.Rune() == 'o':
					for i := 0; i < 64; i++ {
						produce(7, "overflow burst filler text")
					}
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-status.C:
			locoSpeed = (locoSpeed + 3) % 127
			produce(1, fmt.Sprintf("Up %ds", int(time.Since(start).Seconds())))
			produce(2, "Track power ON")
			produce(3, fmt.Sprintf("Loco 3: FWD %d", locoSpeed))
			produce(4, fmt.Sprintf("Main 14.2V %dmA", 400+locoSpeed*7))

		case <-tick.C:
			// The cooperative loop body: consume pending messages, then
			// give every display one render micro-step.
			drain()
			registry.Poll()
		}
	}
}
