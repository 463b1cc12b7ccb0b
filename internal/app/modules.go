package app

import (
	"io"

	"github.com/vk/passgrid/internal/handlers"
	"github.com/vk/passgrid/modules/env_vars"
	"github.com/vk/passgrid/modules/print"
)

// coreModules lists the handler modules compiled into the passgrid binary.
// print writes to outW.
func coreModules(outW io.Writer) []handlers.Module {
	return []handlers.Module{
		&env_vars.Module{},
		&print.Module{Out: outW},
	}
}
