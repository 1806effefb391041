package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
	"unicode/utf8"

	"warehousecharts/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

// Braille spinner frames similar to docker CLI
var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const tick = 120 * time.Millisecond

// Display shows chart progress. On a terminal it animates a pterm area that
// is removed when the run stops; elsewhere it prints one line per finished
// chart to Out.
type Display struct {
	State *State
	Out   io.Writer

	interactive bool
	rs          *RenderState
	area        *pterm.AreaPrinter
	stop        chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
}

// New creates a display for the given charts.
func New(interactive bool, charts ...string) *Display {
	return &Display{
		State:       NewState(charts...),
		Out:         os.Stdout,
		interactive: interactive,
		rs:          NewRenderState(),
	}
}

// Start begins animating when interactive. It is a no-op otherwise.
func (d *Display) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.interactive || d.area != nil {
		return
	}
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		d.interactive = false
		return
	}
	cursor.Hide()
	d.area = area
	d.stop = make(chan struct{})
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		t := time.NewTicker(tick)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				d.update(d.rs.Next())
			case <-d.stop:
				return
			}
		}
	}()
}

// Stop halts the animation, removes the area and restores the cursor.
func (d *Display) Stop() {
	d.mu.Lock()
	if d.area == nil {
		d.mu.Unlock()
		return
	}
	close(d.stop)
	d.mu.Unlock()

	d.wg.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	_ = d.area.Stop()
	d.area = nil
	cursor.Show()
}

func (d *Display) update(frame int) {
	lines := d.State.Lines(frames[frame%len(frames)])
	width := terminal.Width()
	for i, l := range lines {
		if utf8.RuneCountInString(l) >= width {
			lines[i] = string([]rune(l)[:width-1])
		}
	}
	text, changed := d.rs.Compose(lines)
	if !changed {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.area != nil {
		d.area.Update(text)
	}
}

// Stage records that chart entered stage.
func (d *Display) Stage(chart, stage string) {
	d.State.Start(chart, stage)
}

// Done records that chart was written to path.
func (d *Display) Done(chart, path string) {
	d.State.Complete(chart, path)
	if !d.interactive {
		fmt.Fprintf(d.Out, "%s wrote %s\n", pterm.Green("✓"), path)
	}
}

// Failed records that chart failed.
func (d *Display) Failed(chart string, err error) {
	d.State.Fail(chart, err.Error())
	if !d.interactive {
		fmt.Fprintf(d.Out, "%s failed %s\n", pterm.Red("✗"), chart)
	}
}

// IsInteractive reports whether the display animates.
func (d *Display) IsInteractive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.interactive
}

// Auto creates a display that animates only when stdout is a terminal.
func Auto(charts ...string) *Display {
	return New(terminal.IsInteractive(), charts...)
}
