package logging

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type logDataKey struct{}

// LogData collects the fields and millisecond timings of one request so they
// can be written as a single log line when the request ends. It is safe for
// concurrent use.
type LogData struct {
	mu      sync.Mutex
	logger  *logrus.Logger
	fields  logrus.Fields
	timings map[string]int64
}

func NewLogData(logger *logrus.Logger) *LogData {
	return &LogData{
		logger:  logger,
		fields:  logrus.Fields{},
		timings: map[string]int64{},
	}
}

// WithLogData returns a copy of ctx carrying logData.
func WithLogData(ctx context.Context, logData *LogData) context.Context {
	return context.WithValue(ctx, logDataKey{}, logData)
}

// GetLogData returns the request's LogData, or nil outside a request.
func GetLogData(ctx context.Context) *LogData {
	logData, _ := ctx.Value(logDataKey{}).(*LogData)
	return logData
}

// AddTiming starts a timer; calling the returned func records the elapsed
// milliseconds under name, replacing any earlier value.
func (l *LogData) AddTiming(name string) func() {
	return l.timer(name, false)
}

// AddToExistingTiming is AddTiming that sums repeated measurements, e.g. one
// per retry.
func (l *LogData) AddToExistingTiming(name string) func() {
	return l.timer(name, true)
}

func (l *LogData) timer(name string, accumulate bool) func() {
	started := time.Now()
	return func() {
		elapsed := time.Since(started).Milliseconds()
		l.mu.Lock()
		defer l.mu.Unlock()
		if accumulate {
			elapsed += l.timings[name]
		}
		l.timings[name] = elapsed
	}
}

func (l *LogData) AddData(key string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fields[key] = value
}

// Log returns an entry carrying every field and timing recorded so far.
func (l *LogData) Log() *logrus.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(logrus.Fields, len(l.fields)+len(l.timings))
	for key, value := range l.fields {
		fields[key] = value
	}
	for name, ms := range l.timings {
		fields[name] = ms
	}
	return l.logger.WithFields(fields)
}
