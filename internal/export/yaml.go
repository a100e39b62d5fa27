package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/tabconv/internal/types"
)

// WriteYAML writes the rows as a sequence of mappings with keys in column
// order, then keys outside the columns sorted.
func WriteYAML(w io.Writer, tbl *types.Table, opts YAMLOptions) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if tbl.Len() == 0 {
		seq.Style = yaml.FlowStyle
	}

	columns := tbl.Columns()
	for _, row := range tbl.All() {
		mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range orderedKeys(columns, row) {
			var value yaml.Node
			if err := value.Encode(row[key]); err != nil {
				return err
			}
			mapping.Content = append(mapping.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				&value,
			)
		}
		seq.Content = append(seq.Content, mapping)
	}

	return encodeTo(w, opts.Encoding, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(seq); err != nil {
			return err
		}
		return enc.Close()
	})
}
