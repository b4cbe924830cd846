// Package config carries the LAYOUT_SPACING configuration record the
// auto-layout engine is parameterised by, with defaults that produce
// readable output and an optional viper-backed override layer, following
// the configuration pattern github.com/spf13/viper provides in
// SaurabhVC-ABAPDocMCP and untoldecay-BeadsLog.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Spacing is the single configuration record LAYOUT_SPACING names.
type Spacing struct {
	SubgraphHeaderHeight    float64 `mapstructure:"subgraph_header_height"`
	SubgraphPadding         float64 `mapstructure:"subgraph_padding"`
	SubgraphContentTopMargin float64 `mapstructure:"subgraph_content_top_margin"`

	NodeSeparationHorizontal float64 `mapstructure:"node_separation_horizontal"`
	NodeSeparationVertical   float64 `mapstructure:"node_separation_vertical"`

	ContainerSeparationHorizontal float64 `mapstructure:"container_separation_horizontal"`
	ContainerSeparationVertical   float64 `mapstructure:"container_separation_vertical"`

	NestedSubgraphSeparationHorizontal float64 `mapstructure:"nested_subgraph_separation_horizontal"`
	NestedSubgraphSeparationVertical   float64 `mapstructure:"nested_subgraph_separation_vertical"`

	MetaGraphMargin    float64 `mapstructure:"meta_graph_margin"`
	NestedContentMargin float64 `mapstructure:"nested_content_margin"`

	MixedContentVerticalSpacing   float64 `mapstructure:"mixed_content_vertical_spacing"`
	MixedContentHorizontalSpacing float64 `mapstructure:"mixed_content_horizontal_spacing"`
}

// DefaultSpacing returns a minimal default set that produces readable
// output, per spec section 6.
func DefaultSpacing() Spacing {
	return Spacing{
		SubgraphHeaderHeight:    30,
		SubgraphPadding:         20,
		SubgraphContentTopMargin: 10,

		NodeSeparationHorizontal: 50,
		NodeSeparationVertical:   50,

		ContainerSeparationHorizontal: 80,
		ContainerSeparationVertical:   80,

		NestedSubgraphSeparationHorizontal: 40,
		NestedSubgraphSeparationVertical:   40,

		MetaGraphMargin:     60,
		NestedContentMargin: 20,

		MixedContentVerticalSpacing:   30,
		MixedContentHorizontalSpacing: 30,
	}
}

// Load reads LAYOUT_SPACING overrides from a YAML/TOML/JSON config file at
// path (format inferred from its extension by viper) and from DIAGRAMKIT_*
// environment variables, merging them over DefaultSpacing. An empty path
// reads only the environment layer.
func Load(path string) (Spacing, error) {
	spacing := DefaultSpacing()

	v := viper.New()
	v.SetEnvPrefix("DIAGRAMKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, spacing)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Spacing{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&spacing); err != nil {
		return Spacing{}, fmt.Errorf("config: unmarshalling spacing: %w", err)
	}
	return spacing, nil
}

func setDefaults(v *viper.Viper, s Spacing) {
	v.SetDefault("subgraph_header_height", s.SubgraphHeaderHeight)
	v.SetDefault("subgraph_padding", s.SubgraphPadding)
	v.SetDefault("subgraph_content_top_margin", s.SubgraphContentTopMargin)
	v.SetDefault("node_separation_horizontal", s.NodeSeparationHorizontal)
	v.SetDefault("node_separation_vertical", s.NodeSeparationVertical)
	v.SetDefault("container_separation_horizontal", s.ContainerSeparationHorizontal)
	v.SetDefault("container_separation_vertical", s.ContainerSeparationVertical)
	v.SetDefault("nested_subgraph_separation_horizontal", s.NestedSubgraphSeparationHorizontal)
	v.SetDefault("nested_subgraph_separation_vertical", s.NestedSubgraphSeparationVertical)
	v.SetDefault("meta_graph_margin", s.MetaGraphMargin)
	v.SetDefault("nested_content_margin", s.NestedContentMargin)
	v.SetDefault("mixed_content_vertical_spacing", s.MixedContentVerticalSpacing)
	v.SetDefault("mixed_content_horizontal_spacing", s.MixedContentHorizontalSpacing)
}
