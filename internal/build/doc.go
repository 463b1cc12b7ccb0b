// Package build runs an execution plan.
//
// Passes run one at a time in plan order. Before each pass the runner closes
// the extensions the plan lists for deactivation, then opens the ones listed
// for activation, then executes the pass body. Extension contexts are created
// from the catalog the Environment was built with and live until they are
// deactivated.
//
// If a pass or an extension transition fails, the run stops and every
// extension that is still open is closed in reverse activation order.
package build
