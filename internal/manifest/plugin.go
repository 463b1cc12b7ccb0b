package manifest

import (
	"github.com/vk/passgrid/internal/extension"
	"github.com/vk/passgrid/internal/phase"
	"github.com/vk/passgrid/internal/plugin"
)

// Plugin is a plugin declared in a manifest. It replays its declarations
// every time it is configured.
type Plugin struct {
	name      string
	display   string
	source    string
	sequences []sequenceDef
	phantoms  []phantomDef
}

type sequenceDef struct {
	phase        phase.BuildPhase
	beforePlugin []string
	afterPlugin  []string
	requires     []extension.ID
	compatible   []extension.ID
	passes       []passDef
}

type passDef struct {
	name         string
	description  string
	body         plugin.Pass
	requires     []extension.ID
	compatible   []extension.ID
	before       []string
	after        []string
	beforePlugin []string
	afterPlugin  []string
}

type phantomDef struct {
	name   string
	phase  phase.BuildPhase
	before []string
	after  []string
}

func (p *Plugin) QualifiedName() string { return p.name }

func (p *Plugin) DisplayName() string {
	if p.display != "" {
		return p.display
	}
	return p.name
}

// Source returns the file the plugin was declared in.
func (p *Plugin) Source() string { return p.source }

func (p *Plugin) Configure(info *plugin.Info) {
	for _, s := range p.sequences {
		seq := info.InPhase(s.phase).
			WithRequiredExtensions(s.requires...).
			WithCompatibleExtensions(s.compatible...)
		for _, name := range s.beforePlugin {
			seq.BeforePlugin(name)
		}
		for _, name := range s.afterPlugin {
			seq.AfterPlugin(name)
		}

		for _, def := range s.passes {
			dp := seq.Run(def.name, def.body).
				WithDescription(def.description).
				WithRequiredExtensions(def.requires...).
				WithCompatibleExtensions(def.compatible...)
			relate(dp, def.before, def.after)
			for _, name := range def.beforePlugin {
				dp.BeforePlugin(name)
			}
			for _, name := range def.afterPlugin {
				dp.AfterPlugin(name)
			}
		}
	}

	for _, def := range p.phantoms {
		relate(info.DeclarePhantom(def.phase, def.name), def.before, def.after)
	}
}

func relate(dp *plugin.DeclaringPass, before, after []string) {
	for _, key := range before {
		dp.BeforePass(key)
	}
	for _, key := range after {
		dp.AfterPass(key)
	}
}
