// Package manifest loads plugins declared in HCL files.
//
// A manifest declares one or more plugins. Each plugin lists the extensions it
// provides, sequences of passes per phase, and phantom anchors:
//
//	plugin "com.example.optimizer" {
//	  display_name = "Optimizer"
//
//	  extension "com.example.meshes" {
//	    depends_on = ["com.example.objects"]
//	  }
//
//	  sequence {
//	    phase         = phase.optimizing
//	    before_plugin = ["com.example.upload"]
//
//	    pass "MergeMeshes" {
//	      run      = "log"
//	      requires = ["com.example.meshes"]
//	      args     = { message = "merging" }
//	    }
//	  }
//
//	  phantom "Anchor" {
//	    phase = "Generating"
//	  }
//	}
//
// Passes inside one sequence run in the order they are written. The `run`
// attribute names a handler from the handlers registry; passes without one do
// nothing. Phases may be written as `phase.<name>` or as a string.
package manifest
