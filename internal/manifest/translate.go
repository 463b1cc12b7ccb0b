package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/passgrid/internal/extension"
	"github.com/vk/passgrid/internal/handlers"
	"github.com/vk/passgrid/internal/phase"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// evalContext exposes every built-in phase as `phase.<lower-case name>`.
func evalContext() *hcl.EvalContext {
	phases := make(map[string]cty.Value, len(phase.BuiltIn()))
	for _, p := range phase.BuiltIn() {
		phases[strings.ToLower(p.String())] = cty.StringVal(p.String())
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"phase": cty.ObjectVal(phases)},
	}
}

func (l *Loader) translatePlugin(block *pluginBlock, file string) (*Plugin, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	p := &Plugin{name: block.Name, display: block.DisplayName, source: file}

	for _, sb := range block.Sequences {
		bp, phaseDiags := decodePhase(sb.Phase)
		diags = append(diags, phaseDiags...)

		s := sequenceDef{
			phase:        bp,
			beforePlugin: sb.BeforePlugin,
			afterPlugin:  sb.AfterPlugin,
			requires:     toIDs(sb.Requires),
			compatible:   toIDs(sb.CompatibleWith),
		}
		for _, pb := range sb.Passes {
			def, passDiags := l.translatePass(pb)
			diags = append(diags, passDiags...)
			s.passes = append(s.passes, def)
		}
		p.sequences = append(p.sequences, s)
	}

	for _, pb := range block.Phantoms {
		bp, phaseDiags := decodePhase(pb.Phase)
		diags = append(diags, phaseDiags...)
		p.phantoms = append(p.phantoms, phantomDef{name: pb.Name, phase: bp, before: pb.Before, after: pb.After})
	}
	return p, diags
}

func (l *Loader) translatePass(block *passBlock) (passDef, hcl.Diagnostics) {
	def := passDef{
		name:         block.Name,
		description:  block.Description,
		requires:     toIDs(block.Requires),
		compatible:   toIDs(block.CompatibleWith),
		before:       block.Before,
		after:        block.After,
		beforePlugin: block.BeforePlugin,
		afterPlugin:  block.AfterPlugin,
	}

	args, diags := decodeArgs(block.Args)
	if diags.HasErrors() {
		return def, diags
	}

	name := block.Run
	if name == "" {
		name = handlers.NoopName
	}
	body, err := l.handlers.Build(name, args)
	if err != nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid pass handler",
			Detail:   fmt.Sprintf("Pass %q: %s. Known handlers: %s.", block.Name, err, strings.Join(l.handlers.Names(), ", ")),
			Subject:  subject(block.Body),
		})
		return def, diags
	}
	def.body = body
	return def, diags
}

// decodePhase evaluates a phase expression to a BuildPhase.
func decodePhase(expr hcl.Expression) (phase.BuildPhase, hcl.Diagnostics) {
	val, diags := expr.Value(evalContext())
	if diags.HasErrors() {
		return 0, diags
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil || str.IsNull() || !str.IsKnown() {
		return 0, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid phase",
			Detail:   "The phase must be a string or a phase.<name> reference.",
			Subject:  expr.Range().Ptr(),
		}}
	}
	bp, err := phase.Parse(str.AsString())
	if err != nil {
		return 0, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid phase",
			Detail:   fmt.Sprintf("%s. Known phases: %s.", err, phaseNames()),
			Subject:  expr.Range().Ptr(),
		}}
	}
	return bp, nil
}

// decodeArgs evaluates an `args` object into strings. Numbers and bools are
// converted; anything else is rejected.
func decodeArgs(expr hcl.Expression) (map[string]string, hcl.Diagnostics) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(evalContext())
	if diags.HasErrors() || val.IsNull() {
		return nil, diags
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid args",
			Detail:   "The args attribute must be an object, e.g. { message = \"hello\" }.",
			Subject:  expr.Range().Ptr(),
		}}
	}

	args := make(map[string]string, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		key := k.AsString()
		str, err := convert.Convert(v, cty.String)
		if err != nil || str.IsNull() || !str.IsKnown() {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid args value",
				Detail:   fmt.Sprintf("Argument %q must be a string, number or bool.", key),
				Subject:  expr.Range().Ptr(),
			})
			continue
		}
		args[key] = str.AsString()
	}
	return args, diags
}

func phaseNames() string {
	names := make([]string, 0, len(phase.BuiltIn()))
	for _, p := range phase.BuiltIn() {
		names = append(names, p.String())
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func toIDs(raw []string) []extension.ID {
	if len(raw) == 0 {
		return nil
	}
	ids := make([]extension.ID, len(raw))
	for i, s := range raw {
		ids[i] = extension.ID(s)
	}
	return ids
}
