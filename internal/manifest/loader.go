package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/passgrid/internal/ctxlog"
	"github.com/vk/passgrid/internal/extension"
	"github.com/vk/passgrid/internal/fsutil"
	"github.com/vk/passgrid/internal/handlers"
	"github.com/vk/passgrid/internal/plugin"
)

// Extension is the file extension manifests are discovered by.
const Extension = ".hcl"

// Result is everything a set of manifests declared.
type Result struct {
	// Plugins in the order they were declared, files sorted by path.
	Plugins []*Plugin
	// Catalog holds every extension block.
	Catalog *extension.Catalog
	// Files lists the manifest files that were read.
	Files []string
}

// PluginList returns the plugins as plugin.Plugin values.
func (r *Result) PluginList() []plugin.Plugin {
	out := make([]plugin.Plugin, len(r.Plugins))
	for i, p := range r.Plugins {
		out[i] = p
	}
	return out
}

// Loader reads manifests and binds their passes to handlers.
type Loader struct {
	handlers *handlers.Handlers
}

// NewLoader creates a loader that resolves `run` attributes against h.
func NewLoader(h *handlers.Handlers) *Loader {
	if h == nil {
		h = handlers.New()
	}
	return &Loader{handlers: h}
}

// Load reads every manifest found under paths. Paths may be files or
// directories; directories are searched recursively.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Manifest loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(Extension, paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to discover manifests: %w", err)
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	parser := hclparse.NewParser()
	st := newState()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", file, diags)
		}
		if diags := l.decode(ctx, st, file, hclFile.Body); diags.HasErrors() {
			return nil, fmt.Errorf("failed to load manifest %s: %w", file, diags)
		}
	}

	st.result.Files = files
	logger.Debug("Manifest loading complete.", "plugins", len(st.result.Plugins), "extensions", len(st.result.Catalog.IDs()))
	return st.result, nil
}

// LoadSource reads a single manifest held in memory. filename is only used in
// diagnostics.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*Result, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", filename, diags)
	}
	st := newState()
	if diags := l.decode(ctx, st, filename, hclFile.Body); diags.HasErrors() {
		return nil, fmt.Errorf("failed to load manifest %s: %w", filename, diags)
	}
	st.result.Files = []string{filename}
	return st.result, nil
}

// state accumulates declarations across files.
type state struct {
	result  *Result
	plugins map[string]hcl.Range
}

func newState() *state {
	return &state{
		result:  &Result{Catalog: extension.NewCatalog()},
		plugins: make(map[string]hcl.Range),
	}
}

func (l *Loader) decode(ctx context.Context, st *state, file string, body hcl.Body) hcl.Diagnostics {
	logger := ctxlog.FromContext(ctx)

	content, diags := body.Content(fileSchema)
	if diags.HasErrors() {
		return diags
	}

	for _, raw := range content.Blocks {
		block := &pluginBlock{Name: raw.Labels[0], DefRange: raw.DefRange}
		if decodeDiags := gohcl.DecodeBody(raw.Body, evalContext(), block); decodeDiags.HasErrors() {
			diags = append(diags, decodeDiags...)
			continue
		}

		if prev, exists := st.plugins[block.Name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"plugin\" block",
				Detail:   fmt.Sprintf("Plugin %q was already declared at %s.", block.Name, prev),
				Subject:  block.DefRange.Ptr(),
			})
			continue
		}
		st.plugins[block.Name] = block.DefRange

		diags = append(diags, registerExtensions(st.result.Catalog, block.Extensions)...)
		p, pluginDiags := l.translatePlugin(block, file)
		diags = append(diags, pluginDiags...)
		if pluginDiags.HasErrors() {
			continue
		}
		st.result.Plugins = append(st.result.Plugins, p)
		logger.Debug("Loaded plugin from manifest.", "plugin", p.name, "file", file, "sequences", len(p.sequences), "phantoms", len(p.phantoms))
	}
	return diags
}

func registerExtensions(c *extension.Catalog, blocks []*extensionBlock) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, block := range blocks {
		err := c.Register(extension.Descriptor{
			ID:          extension.ID(block.ID),
			Description: block.Description,
			DependsOn:   toIDs(block.DependsOn),
		})
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid extension",
				Detail:   err.Error(),
				Subject:  subject(block.Body),
			})
		}
	}
	return diags
}
