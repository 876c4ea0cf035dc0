// Package testutils holds test helpers shared across packages.
package testutils

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// SimpleLogrusHook implements the logrus.Hook interface and could be
// used to check if log messages were outputted.
type SimpleLogrusHook struct {
	HookedLevels []logrus.Level
	mutex        sync.Mutex
	messageCache []logrus.Entry
}

// Levels just returns whatever was stored in the HookedLevels slice.
func (h *SimpleLogrusHook) Levels() []logrus.Level {
	return h.HookedLevels
}

// Fire saves whatever message the logrus library passed in the cache.
func (h *SimpleLogrusHook) Fire(e *logrus.Entry) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.messageCache = append(h.messageCache, *e)
	return nil
}

// Drain returns the currently stored messages and deletes them from
// the cache.
func (h *SimpleLogrusHook) Drain() []logrus.Entry {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	res := h.messageCache
	h.messageCache = []logrus.Entry{}
	return res
}

// Lines returns the logged message lines.
func (h *SimpleLogrusHook) Lines() []string {
	entries := h.Drain()
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = entry.Message
	}
	return lines
}

// NewLogger returns a logger that discards its output and captures
// all levels through the returned hook.
func NewLogger() (*logrus.Logger, *SimpleLogrusHook) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	hook := &SimpleLogrusHook{HookedLevels: logrus.AllLevels}
	logger.AddHook(hook)
	return logger, hook
}
