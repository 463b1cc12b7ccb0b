// Package render writes execution plans and ordering graphs in human and
// machine readable forms.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vk/passgrid/internal/extension"
	"github.com/vk/passgrid/internal/plan"
	"github.com/vk/passgrid/internal/resolver"
	"gopkg.in/yaml.v3"
)

// Text writes p as an indented listing. Extension transitions are shown as
// `- id` (deactivate) and `+ id` (activate) lines above each pass.
func Text(w io.Writer, p *plan.ExecutionPlan) error {
	var b strings.Builder
	for _, entry := range p.Phases() {
		fmt.Fprintf(&b, "%s (%d passes)\n", entry.Phase(), entry.Len())
		for i, pass := range entry.Passes() {
			for _, id := range pass.Deactivate() {
				fmt.Fprintf(&b, "      - %s\n", id)
			}
			for _, id := range pass.Activate() {
				fmt.Fprintf(&b, "      + %s\n", id)
			}
			fmt.Fprintf(&b, "  %2d. %s", i+1, pass.Key())
			if d := pass.Description(); d != "" {
				fmt.Fprintf(&b, "  %q", d)
			}
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type document struct {
	Phases []phaseDoc `yaml:"phases"`
}

type phaseDoc struct {
	Phase  string    `yaml:"phase"`
	Passes []passDoc `yaml:"passes"`
}

type passDoc struct {
	Key         string   `yaml:"key"`
	Plugin      string   `yaml:"plugin"`
	Description string   `yaml:"description,omitempty"`
	Deactivate  []string `yaml:"deactivate,omitempty"`
	Activate    []string `yaml:"activate,omitempty"`
}

// YAML writes p as a YAML document with one entry per phase.
func YAML(w io.Writer, p *plan.ExecutionPlan) error {
	doc := document{Phases: make([]phaseDoc, 0, len(p.Phases()))}
	for _, entry := range p.Phases() {
		pd := phaseDoc{Phase: entry.Phase().String(), Passes: make([]passDoc, 0, entry.Len())}
		for _, pass := range entry.Passes() {
			pd.Passes = append(pd.Passes, passDoc{
				Key:         pass.Key().String(),
				Plugin:      pass.PluginName(),
				Description: pass.Description(),
				Deactivate:  idStrings(pass.Deactivate()),
				Activate:    idStrings(pass.Activate()),
			})
		}
		doc.Phases = append(doc.Phases, pd)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return enc.Close()
}

// DOT writes the ordering graphs as a Graphviz digraph, one cluster per
// phase. Phantom passes are drawn dashed.
func DOT(w io.Writer, graphs ...resolver.PhaseGraph) error {
	var b strings.Builder
	b.WriteString("digraph passgrid {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n")
	for _, g := range graphs {
		fmt.Fprintf(&b, "  subgraph %s {\n", strconv.Quote("cluster_"+g.Phase.String()))
		fmt.Fprintf(&b, "    label=%s;\n", strconv.Quote(g.Phase.String()))
		for _, n := range g.Nodes {
			if n.Phantom {
				fmt.Fprintf(&b, "    %s [style=dashed];\n", strconv.Quote(n.Key.String()))
				continue
			}
			fmt.Fprintf(&b, "    %s;\n", strconv.Quote(n.Key.String()))
		}
		for _, e := range g.Edges {
			fmt.Fprintf(&b, "    %s -> %s;\n", strconv.Quote(e.From.String()), strconv.Quote(e.To.String()))
		}
		b.WriteString("  }\n")
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func idStrings(ids []extension.ID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
