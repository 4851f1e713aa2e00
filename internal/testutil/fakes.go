package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// FakeSource returns scripted readings. Put ONLY what multiple test packages
// need here.
type FakeSource struct {
	mu sync.Mutex

	// Readings are consumed one per Read; the last one repeats.
	Readings []Reading
	index    int

	ReadCalls int
}

// Reading is one scripted sample. A non-nil Err makes the read fault.
type Reading struct {
	Temp float64
	Err  error
}

func NewFakeSource(temps ...float64) *FakeSource {
	f := &FakeSource{}
	for _, t := range temps {
		f.Readings = append(f.Readings, Reading{Temp: t})
	}
	return f
}

func (f *FakeSource) Read(_ context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReadCalls++
	if len(f.Readings) == 0 {
		return 0, errors.New("no readings configured")
	}
	r := f.Readings[f.index]
	if f.index < len(f.Readings)-1 {
		f.index++
	}
	return r.Temp, r.Err
}

// FakeActuator records every command.
type FakeActuator struct {
	mu     sync.Mutex
	Calls  []bool
	SetErr error
}

func (f *FakeActuator) Set(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, on)
	return f.SetErr
}

func (f *FakeActuator) Commands() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.Calls...)
}

// Frame is one Render call.
type Frame struct {
	Temperature float64
	HeaterOn    bool
	Label       string
}

type FakeDisplay struct {
	mu        sync.Mutex
	InitErr   error
	InitCalls int
	RenderErr error
	Frames    []Frame
	Closed    bool
}

func (f *FakeDisplay) Init(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InitCalls++
	return f.InitErr
}

func (f *FakeDisplay) Render(temperature float64, heaterOn bool, label string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Frames = append(f.Frames, Frame{temperature, heaterOn, label})
	return f.RenderErr
}

func (f *FakeDisplay) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

func (f *FakeDisplay) Rendered() []Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Frame(nil), f.Frames...)
}

// Lines is a LineLogger that keeps formatted lines in memory.
type Lines struct {
	mu    sync.Mutex
	lines []string
}

func (l *Lines) Printf(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func (l *Lines) All() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

func (l *Lines) Last() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.lines) == 0 {
		return ""
	}
	return l.lines[len(l.lines)-1]
}
