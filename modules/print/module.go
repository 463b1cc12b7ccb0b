// Package print provides pass handlers that report progress: "print" writes
// its arguments to an output stream and "log" emits them as a log record.
package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/vk/passgrid/internal/ctxlog"
	"github.com/vk/passgrid/internal/handlers"
	"github.com/vk/passgrid/internal/plugin"
)

// Module implements handlers.Module for this package.
type Module struct {
	// Out receives "print" output. Defaults to os.Stdout.
	Out io.Writer
}

func sortedKeys(args map[string]string) []string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *Module) out() io.Writer {
	if m.Out == nil {
		return os.Stdout
	}
	return m.Out
}

// newPrint returns a pass that writes args, one `key = "value"` line each.
func (m *Module) newPrint(args map[string]string) (plugin.Pass, error) {
	keys := sortedKeys(args)
	return plugin.PassFunc(func(ctx context.Context, env plugin.Env) error {
		ctxlog.FromContext(ctx).Info("Printing pass arguments.")
		w := m.out()
		if len(keys) == 0 {
			_, err := fmt.Fprintln(w, "      (null)")
			return err
		}
		for _, k := range keys {
			if _, err := fmt.Fprintf(w, "      %s = %q\n", k, args[k]); err != nil {
				return err
			}
		}
		return nil
	}), nil
}

// newLog returns a pass that logs args["message"] with the rest as attributes.
func newLog(args map[string]string) (plugin.Pass, error) {
	message := args["message"]
	if message == "" {
		message = "Pass executed."
	}
	var attrs []any
	for _, k := range sortedKeys(args) {
		if k != "message" {
			attrs = append(attrs, k, args[k])
		}
	}
	return plugin.PassFunc(func(ctx context.Context, env plugin.Env) error {
		ctxlog.FromContext(ctx).Info(message, attrs...)
		return nil
	}), nil
}

// Register registers the handlers.
func (m *Module) Register(h *handlers.Handlers) {
	h.Register("print", m.newPrint)
	h.Register("log", newLog)
}
