package input

import (
	log "github.com/sirupsen/logrus"
)

// LogSink records every action in the log instead of performing it.
// Used for dry runs on machines where robotgo cannot reach a display.
type LogSink struct {
	Width, Height int
}

// NewLogSink creates a dry-run sink reporting the given screen size
func NewLogSink(width, height int) *LogSink {
	return &LogSink{Width: width, Height: height}
}

func (s *LogSink) ScreenSize() (int, int) { return s.Width, s.Height }

func (s *LogSink) MoveAbsolute(x, y int) {
	log.WithFields(log.Fields{"x": x, "y": y}).Info("DryRun: move absolute")
}

func (s *LogSink) MoveRelative(dx, dy int) {
	log.WithFields(log.Fields{"dx": dx, "dy": dy}).Info("DryRun: move relative")
}

func (s *LogSink) MouseDown(button Button) {
	log.WithField("button", button).Info("DryRun: mouse down")
}

func (s *LogSink) MouseUp(button Button) {
	log.WithField("button", button).Info("DryRun: mouse up")
}

func (s *LogSink) Click() { log.Info("DryRun: click") }

func (s *LogSink) RightClick() { log.Info("DryRun: right click") }

func (s *LogSink) ScrollLines(n int) {
	log.WithField("lines", n).Info("DryRun: scroll")
}

func (s *LogSink) Hotkey(modifier, key string) {
	log.WithFields(log.Fields{"modifier": modifier, "key": key}).Info("DryRun: hotkey")
}

func (s *LogSink) ClipboardWrite(text string) {
	log.WithField("bytes", len(text)).Info("DryRun: clipboard write")
}

func (s *LogSink) Notify(title, body string) {
	log.WithFields(log.Fields{"title": title, "body": body}).Info("DryRun: notify")
}
