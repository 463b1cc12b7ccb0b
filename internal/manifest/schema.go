package manifest

import "github.com/hashicorp/hcl/v2"

// fileSchema is the top level of a manifest file. Plugin blocks are read
// through it so their definition ranges are available for diagnostics.
var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "plugin", LabelNames: []string{"name"}},
	},
}

// pluginBlock is decoded from the body of a plugin block. Name and DefRange
// come from the block header.
type pluginBlock struct {
	Name     string
	DefRange hcl.Range

	DisplayName string            `hcl:"display_name,optional"`
	Extensions  []*extensionBlock `hcl:"extension,block"`
	Sequences   []*sequenceBlock  `hcl:"sequence,block"`
	Phantoms    []*phantomBlock   `hcl:"phantom,block"`
}

type extensionBlock struct {
	ID          string   `hcl:"id,label"`
	Description string   `hcl:"description,optional"`
	DependsOn   []string `hcl:"depends_on,optional"`
	Body        hcl.Body `hcl:",body"`
}

type sequenceBlock struct {
	Phase          hcl.Expression `hcl:"phase"`
	BeforePlugin   []string       `hcl:"before_plugin,optional"`
	AfterPlugin    []string       `hcl:"after_plugin,optional"`
	Requires       []string       `hcl:"requires,optional"`
	CompatibleWith []string       `hcl:"compatible_with,optional"`
	Passes         []*passBlock   `hcl:"pass,block"`
	Body           hcl.Body       `hcl:",body"`
}

type passBlock struct {
	Name           string         `hcl:"name,label"`
	Description    string         `hcl:"description,optional"`
	Run            string         `hcl:"run,optional"`
	Requires       []string       `hcl:"requires,optional"`
	CompatibleWith []string       `hcl:"compatible_with,optional"`
	Before         []string       `hcl:"before,optional"`
	After          []string       `hcl:"after,optional"`
	BeforePlugin   []string       `hcl:"before_plugin,optional"`
	AfterPlugin    []string       `hcl:"after_plugin,optional"`
	Args           hcl.Expression `hcl:"args,optional"`
	Body           hcl.Body       `hcl:",body"`
}

type phantomBlock struct {
	Name   string         `hcl:"name,label"`
	Phase  hcl.Expression `hcl:"phase"`
	Before []string       `hcl:"before,optional"`
	After  []string       `hcl:"after,optional"`
	Body   hcl.Body       `hcl:",body"`
}

// subject returns a range inside body to attach diagnostics to.
func subject(body hcl.Body) *hcl.Range {
	if body == nil {
		return nil
	}
	return body.MissingItemRange().Ptr()
}
