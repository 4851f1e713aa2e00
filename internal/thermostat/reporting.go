package thermostat

import (
	"context"
	"time"

	"github.com/Agrid-Dev/thermoguard/internal/ports"
)

// SnapshotReader is the read-only view the reporting side gets.
type SnapshotReader interface {
	Get() Snapshot
}

type ReportingLoop struct {
	src  SnapshotReader
	disp ports.Display
	log  ports.LineLogger
}

func NewReportingLoop(src SnapshotReader, disp ports.Display, log ports.LineLogger) *ReportingLoop {
	return &ReportingLoop{src: src, disp: disp, log: log}
}

// Step renders the current snapshot once.
func (l *ReportingLoop) Step(_ context.Context) error {
	s := l.src.Get()
	if err := l.disp.Render(s.Temperature, s.HeaterOn, DisplayLabels.Of(s.State)); err != nil {
		l.log.Printf("display error: %v", err)
		return err
	}
	return nil
}

func (l *ReportingLoop) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	_ = l.Step(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = l.Step(ctx)
		}
	}
}
