package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vk/passgrid/internal/extension"
	"github.com/vk/passgrid/internal/handlers"
	"github.com/vk/passgrid/internal/plugin"
)

// SimpleModule registers a single handler.
type SimpleModule struct {
	Name    string
	Factory handlers.Factory
}

// Register implements the handlers.Module interface.
func (m *SimpleModule) Register(h *handlers.Handlers) {
	h.Register(m.Name, m.Factory)
}

// RecordName is the handler registered by Recorder.
const RecordName = "record"

// Recorder registers the "record" handler. Each pass built from it appends
// its "name" argument to the event log when executed. The optional "watch"
// argument is a comma-separated list of extension ids; the ones active while
// the pass runs are appended in brackets.
type Recorder struct {
	// Fail makes the pass with the given name return an error.
	Fail map[string]error

	mu     sync.Mutex
	events []string
}

// Register implements the handlers.Module interface.
func (r *Recorder) Register(h *handlers.Handlers) {
	h.Register(RecordName, r.build)
}

// Events returns the recorded events in execution order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *Recorder) build(args map[string]string) (plugin.Pass, error) {
	name := args["name"]
	if name == "" {
		return nil, errors.New("missing required argument 'name'")
	}
	var watch []extension.ID
	for _, id := range strings.Split(args["watch"], ",") {
		if id = strings.TrimSpace(id); id != "" {
			watch = append(watch, extension.ID(id))
		}
	}

	return plugin.PassFunc(func(_ context.Context, env plugin.Env) error {
		event := name
		var active []string
		for _, id := range watch {
			if _, ok := env.Extension(id); ok {
				active = append(active, string(id))
			}
		}
		if len(active) > 0 {
			event = fmt.Sprintf("%s [%s]", name, strings.Join(active, " "))
		}

		r.mu.Lock()
		r.events = append(r.events, event)
		r.mu.Unlock()

		return r.Fail[name]
	}), nil
}
