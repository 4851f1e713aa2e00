package display

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"
)

// LineHeight matches the 16px row pitch of the 128x64 layout.
const LineHeight = 16

type OLEDConfig struct {
	Bus    string // i2creg bus name, "" for the first available
	Width  int
	Height int
}

// panel is the subset of *ssd1306.Dev the renderer needs.
type panel interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// OLED drives an SSD1306 panel over I²C.
type OLED struct {
	cfg OLEDConfig

	mu  sync.Mutex
	bus i2c.BusCloser
	dev panel
	img *image1bit.VerticalLSB
}

func NewOLED(cfg OLEDConfig) *OLED {
	if cfg.Width == 0 {
		cfg.Width = 128
	}
	if cfg.Height == 0 {
		cfg.Height = 64
	}
	return &OLED{cfg: cfg}
}

// Init opens the bus and performs the panel handshake.
func (o *OLED) Init(_ context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(o.cfg.Bus)
	if err != nil {
		return fmt.Errorf("open i2c bus %q: %w", o.cfg.Bus, err)
	}

	opts := ssd1306.DefaultOpts
	opts.W = o.cfg.Width
	opts.H = o.cfg.Height
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		_ = bus.Close()
		return fmt.Errorf("ssd1306 init: %w", err)
	}

	o.bus = bus
	o.attach(dev)
	return o.drawLines([]string{BootMessage})
}

func (o *OLED) attach(p panel) {
	o.dev = p
	o.img = image1bit.NewVerticalLSB(p.Bounds())
}

func (o *OLED) Render(temperature float64, heaterOn bool, label string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.dev == nil {
		return fmt.Errorf("oled: not initialised")
	}
	return o.drawLines(StatusLines(temperature, heaterOn, label))
}

func (o *OLED) drawLines(lines []string) error {
	draw.Draw(o.img, o.img.Bounds(), image.NewUniform(image1bit.Off), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  o.img,
		Src:  image.NewUniform(image1bit.On),
		Face: basicfont.Face7x13,
	}
	ascent := basicfont.Face7x13.Ascent
	for i, l := range lines {
		d.Dot = fixed.P(0, i*LineHeight+ascent)
		d.DrawString(l)
	}
	return o.dev.Draw(o.dev.Bounds(), o.img, image.Point{})
}

// Close blanks the panel and releases the bus.
func (o *OLED) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var errs []error
	if o.dev != nil {
		if err := o.dev.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt panel: %w", err))
		}
		o.dev = nil
	}
	if o.bus != nil {
		if err := o.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
		}
		o.bus = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
