package mcpserver

import (
	"pagebuilder/internal/blocks"
	"pagebuilder/internal/domain"
)

// blockSummary is the compact block view returned to agents.
type blockSummary struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Label    string         `json:"label,omitempty"`
	Selected bool           `json:"selected,omitempty"`
	Props    map[string]any `json:"props"`
}

func summarizeBlocks(reg *blocks.Registry, c domain.Composition, selected string) []blockSummary {
	out := make([]blockSummary, len(c))
	for i, b := range c {
		out[i] = blockSummary{ID: b.ID, Type: string(b.Type), Selected: b.ID == selected, Props: map[string]any{}}
		if b.Props != nil {
			out[i].Props = b.Props.Values()
		}
		if d, err := reg.Lookup(b.Type); err == nil {
			out[i].Label = d.Label
		}
	}
	return out
}

func boolPtr(v bool) *bool { return &v }
