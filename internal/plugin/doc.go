// Package plugin is the declaration layer that plugins use to contribute build
// passes and ordering constraints.
//
// A plugin implements Plugin. When a Registry collects it, the registry calls
// Configure with an Info bound to that plugin, and the plugin declares its
// passes through sequences:
//
//	func (p *Optimizer) Configure(info *plugin.Info) {
//	    seq := info.InPhase(phase.Optimizing)
//	    seq.AfterPlugin("com.example.generator")
//	    seq.Run("MergeMeshes", mergeMeshes).
//	        WithRequiredExtensions("com.example.meshes")
//	    seq.Run("StripUnused", stripUnused).
//	        BeforePass("com.example.upload/Upload")
//	}
//
// Passes inside one sequence run in declaration order. Plugin-level ordering
// (BeforePlugin/AfterPlugin) is expressed through phantom anchor passes that
// the registry synthesizes at the start and end of each plugin's span in every
// phase it participates in.
//
// The registry only records declarations and rejects malformed ones (empty
// names, unknown phases, unparsable keys). All ordering validation is done by
// the resolver.
package plugin
