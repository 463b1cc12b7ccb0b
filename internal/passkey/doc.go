/*
Package passkey provides the structured identifier of a build pass.

A key is written in the canonical form `<plugin>/<pass>`, for example
`com.example.optimizer/MergeMeshes`. The plugin part is the qualified plugin
name, a dot-separated sequence of segments. The pass part is the pass name and
may itself be split into `/`-separated segments.

Keys created by Parse are restricted to a conservative character set. Keys
synthesized by the resolver for internal anchors (plugin start/end markers,
cleanup passes) use Synthetic and carry a leading `~` on their first pass
segment, which Parse rejects, so they can never collide with a declared key.
*/
package passkey
