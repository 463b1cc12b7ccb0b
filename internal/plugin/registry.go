package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vk/passgrid/internal/extension"
	"github.com/vk/passgrid/internal/passkey"
	"github.com/vk/passgrid/internal/phase"
)

// Registry is the flat collection of every declared pass and constraint.
type Registry struct {
	Passes      []*PassDecl
	Constraints []Constraint

	errs []error
}

// span records the passes one plugin declared per phase during a single
// Configure call, so anchors can be synthesized afterwards.
type span struct {
	passes map[phase.BuildPhase][]passkey.Key
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Collect configures each plugin against the registry. Declaration errors from
// all plugins are joined and returned; the registry keeps every well-formed
// declaration regardless.
func (r *Registry) Collect(plugins ...Plugin) error {
	for _, p := range plugins {
		if p == nil {
			r.errs = append(r.errs, errors.New("nil plugin"))
			continue
		}
		if err := validatePluginName(p.QualifiedName()); err != nil {
			r.errs = append(r.errs, err)
			continue
		}
		slog.Debug("Configuring plugin.", "plugin", p.QualifiedName())
		info := &Info{registry: r, plugin: p}
		p.Configure(info)
		r.closeSpans(info)
	}
	return errors.Join(r.errs...)
}

// AddPass records a pass declaration as-is.
func (r *Registry) AddPass(decl *PassDecl) {
	r.Passes = append(r.Passes, decl)
}

// AddConstraint records a constraint as-is.
func (r *Registry) AddConstraint(c Constraint) {
	r.Constraints = append(r.Constraints, c)
}

// closeSpans synthesizes the start and end anchors of info's plugin for every
// phase it declared passes in during this Configure call.
func (r *Registry) closeSpans(info *Info) {
	s, ok := info.span()
	if !ok {
		return
	}
	name := info.plugin.QualifiedName()
	for _, p := range phase.BuiltIn() {
		keys := s.passes[p]
		if len(keys) == 0 {
			continue
		}
		start, end := StartKey(name, p), EndKey(name, p)
		r.AddPass(&PassDecl{Key: start, Phase: p, Plugin: info.plugin, Description: "start of " + name, Phantom: true})
		r.AddPass(&PassDecl{Key: end, Phase: p, Plugin: info.plugin, Description: "end of " + name, Phantom: true})
		for _, k := range keys {
			r.AddConstraint(Constraint{First: start, Second: k, Kind: Before, DeclaredBy: name})
			r.AddConstraint(Constraint{First: k, Second: end, Kind: Before, DeclaredBy: name})
		}
	}
}

func validatePluginName(name string) error {
	if name == InternalName {
		return fmt.Errorf("plugin name %q is reserved", name)
	}
	if _, err := passkey.New(name, "x"); err != nil {
		return fmt.Errorf("invalid plugin name %q: %w", name, err)
	}
	return nil
}

// Info is the handle a plugin declares through during Configure.
type Info struct {
	registry *Registry
	plugin   Plugin
	spanData *span
}

// Plugin returns the plugin being configured.
func (i *Info) Plugin() Plugin {
	return i.plugin
}

// InPhase starts a new sequence of passes in p.
func (i *Info) InPhase(p phase.BuildPhase) *Sequence {
	if !p.Valid() {
		i.fail(fmt.Errorf("plugin %s: cannot declare passes in invalid phase %v", i.plugin.QualifiedName(), p))
	}
	return &Sequence{info: i, phase: p}
}

// DeclarePhantom declares an ordering-only anchor in p. Other passes can be
// constrained against it with BeforePass/AfterPass. Anchors are not part of
// the plugin's span, so they can sit outside it.
func (i *Info) DeclarePhantom(p phase.BuildPhase, name string) *DeclaringPass {
	return i.InPhase(p).declare(name, "", nil, true)
}

func (i *Info) fail(err error) {
	i.registry.errs = append(i.registry.errs, err)
}

func (i *Info) span() (*span, bool) {
	return i.spanData, i.spanData != nil
}

func (i *Info) record(p phase.BuildPhase, k passkey.Key) {
	if i.spanData == nil {
		i.spanData = &span{passes: make(map[phase.BuildPhase][]passkey.Key)}
	}
	i.spanData.passes[p] = append(i.spanData.passes[p], k)
}

func (i *Info) constrain(first, second passkey.Key, kind ConstraintKind) {
	i.registry.AddConstraint(Constraint{First: first, Second: second, Kind: kind, DeclaredBy: i.plugin.QualifiedName()})
}

// Sequence declares passes in one phase. Passes run in the order they are
// declared within a sequence.
type Sequence struct {
	info       *Info
	phase      phase.BuildPhase
	last       *DeclaringPass
	required   []extension.ID
	compatible []extension.ID
}

// Run declares a pass named name with the given body. The pass key is
// "<plugin>/<name>".
func (s *Sequence) Run(name string, body Pass) *DeclaringPass {
	return s.declare(name, "", body, false)
}

// RunFunc is Run with a function body.
func (s *Sequence) RunFunc(name string, fn func(ctx context.Context, env Env) error) *DeclaringPass {
	return s.Run(name, PassFunc(fn))
}

// WithRequiredExtensions makes every pass declared after this call require ids.
func (s *Sequence) WithRequiredExtensions(ids ...extension.ID) *Sequence {
	s.required = append(s.required, ids...)
	return s
}

// WithCompatibleExtensions marks every pass declared after this call as
// compatible with ids.
func (s *Sequence) WithCompatibleExtensions(ids ...extension.ID) *Sequence {
	s.compatible = append(s.compatible, ids...)
	return s
}

// BeforePlugin orders this plugin's passes in the sequence's phase before all
// passes of the named plugin in the same phase. If that plugin declares
// nothing in the phase, the constraint has no effect.
func (s *Sequence) BeforePlugin(name string) *Sequence {
	self := s.info.plugin.QualifiedName()
	s.info.constrain(EndKey(self, s.phase), StartKey(name, s.phase), Before)
	return s
}

// AfterPlugin orders this plugin's passes in the sequence's phase after all
// passes of the named plugin in the same phase.
func (s *Sequence) AfterPlugin(name string) *Sequence {
	self := s.info.plugin.QualifiedName()
	s.info.constrain(StartKey(self, s.phase), EndKey(name, s.phase), After)
	return s
}

func (s *Sequence) declare(name, description string, body Pass, phantom bool) *DeclaringPass {
	k, err := passkey.New(s.info.plugin.QualifiedName(), name)
	if err != nil {
		s.info.fail(fmt.Errorf("plugin %s: invalid pass name %q: %w", s.info.plugin.QualifiedName(), name, err))
		return &DeclaringPass{seq: s}
	}
	if !s.phase.Valid() {
		return &DeclaringPass{seq: s}
	}
	if body == nil && !phantom {
		body = Noop
	}
	decl := &PassDecl{
		Key:         k,
		Phase:       s.phase,
		Plugin:      s.info.plugin,
		Description: description,
		Required:    extension.NewSet(s.required...),
		Compatible:  extension.NewSet(s.compatible...),
		Phantom:     phantom,
		Body:        body,
	}
	s.info.registry.AddPass(decl)
	if !phantom {
		s.info.record(s.phase, k)
	}

	if s.last != nil && s.last.decl != nil {
		s.info.constrain(s.last.decl.Key, k, Before)
	}
	dp := &DeclaringPass{seq: s, decl: decl}
	s.last = dp
	return dp
}

// DeclaringPass refines a pass that was just declared. Methods on a pass whose
// declaration failed are no-ops.
type DeclaringPass struct {
	seq  *Sequence
	decl *PassDecl
}

// Key returns the declared pass key, or the zero key if the declaration failed.
func (d *DeclaringPass) Key() passkey.Key {
	if d.decl == nil {
		return passkey.Key{}
	}
	return d.decl.Key
}

// Then returns the owning sequence so the next pass can be chained.
func (d *DeclaringPass) Then() *Sequence {
	return d.seq
}

// WithDescription sets the human-readable description of the pass.
func (d *DeclaringPass) WithDescription(text string) *DeclaringPass {
	if d.decl != nil {
		d.decl.Description = text
	}
	return d
}

// WithRequiredExtensions adds extensions this pass requires.
func (d *DeclaringPass) WithRequiredExtensions(ids ...extension.ID) *DeclaringPass {
	if d.decl != nil {
		for _, id := range ids {
			d.decl.Required.Add(id)
		}
	}
	return d
}

// WithCompatibleExtensions adds extensions that may stay active through this pass.
func (d *DeclaringPass) WithCompatibleExtensions(ids ...extension.ID) *DeclaringPass {
	if d.decl != nil {
		for _, id := range ids {
			d.decl.Compatible.Add(id)
		}
	}
	return d
}

// BeforePass orders this pass before the pass with the given qualified key.
func (d *DeclaringPass) BeforePass(key string) *DeclaringPass {
	return d.relate(key, Before)
}

// AfterPass orders this pass after the pass with the given qualified key.
func (d *DeclaringPass) AfterPass(key string) *DeclaringPass {
	return d.relate(key, After)
}

// BeforePlugin orders this pass before every pass of the named plugin in the
// same phase.
func (d *DeclaringPass) BeforePlugin(name string) *DeclaringPass {
	if d.decl != nil {
		d.seq.info.constrain(d.decl.Key, StartKey(name, d.decl.Phase), Before)
	}
	return d
}

// AfterPlugin orders this pass after every pass of the named plugin in the
// same phase.
func (d *DeclaringPass) AfterPlugin(name string) *DeclaringPass {
	if d.decl != nil {
		d.seq.info.constrain(d.decl.Key, EndKey(name, d.decl.Phase), After)
	}
	return d
}

func (d *DeclaringPass) relate(raw string, kind ConstraintKind) *DeclaringPass {
	if d.decl == nil {
		return d
	}
	other, err := passkey.Parse(raw)
	if err != nil {
		d.seq.info.fail(fmt.Errorf("pass %s: %w", d.decl.Key, err))
		return d
	}
	d.seq.info.constrain(d.decl.Key, other, kind)
	return d
}
