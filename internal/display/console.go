package display

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Console writes the status block to a writer, or to a device file opened
// at Init (a serial character LCD, a VT, ...).
type Console struct {
	mu   sync.Mutex
	path string
	w    io.Writer
	f    *os.File
}

// NewConsole renders to w. Use NewConsoleFile to render to a device path.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func NewConsoleFile(path string) *Console {
	return &Console{path: path}
}

func (c *Console) Init(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path != "" {
		f, err := os.OpenFile(c.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			return fmt.Errorf("open console %s: %w", c.path, err)
		}
		c.f = f
		c.w = f
	}
	if c.w == nil {
		return fmt.Errorf("console: no output configured")
	}
	_, err := fmt.Fprintln(c.w, BootMessage)
	return err
}

func (c *Console) Render(temperature float64, heaterOn bool, label string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.w == nil {
		return fmt.Errorf("console: not initialised")
	}
	_, err := io.WriteString(c.w, strings.Join(StatusLines(temperature, heaterOn, label), "\n")+"\n\n")
	return err
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.f == nil {
		return nil
	}
	err := c.f.Close()
	c.f = nil
	c.w = nil
	return err
}
