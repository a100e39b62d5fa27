package parser

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/tabconv/internal/logger"
	"github.com/dbsmedya/tabconv/internal/types"
)

// YAMLAdapter reads YAML with the same shape rules as JSON: a sequence of
// mappings, a mapping holding such a sequence under the data key, or a single
// mapping. It is not seeded in the registry; register it for ".yaml" and
// ".yml" to enable it.
type YAMLAdapter struct {
	log *logger.Logger
}

// NewYAMLAdapter creates a YAML adapter.
func NewYAMLAdapter(log *logger.Logger) Adapter {
	return &YAMLAdapter{log: orNop(log).WithFormat("yaml")}
}

// Format implements Adapter.
func (a *YAMLAdapter) Format() string { return "yaml" }

// Parse implements Adapter.
func (a *YAMLAdapter) Parse(path string, opts Options) (*types.Table, error) {
	opts = opts.withDefaults()
	encoding := encodingOrDefault(opts.Encoding)
	log := a.log.WithFile(path)

	log.Infow("parsing YAML", "data_key", opts.DataKey, "encoding", encoding)

	text, err := readText(path, encoding)
	if err != nil {
		log.Errorw("cannot read YAML", "error", err)
		return nil, err
	}

	doc, err := decodeYAMLDocument(text)
	if err != nil {
		log.Errorw("YAML parse failed", "error", err)
		return nil, formatInvalid(path, "malformed YAML", err)
	}

	records, err := recordsFromYAML(doc, opts.DataKey)
	if err != nil {
		log.Errorw("unsupported YAML structure", "error", err)
		return nil, formatInvalid(path, "", err)
	}

	if len(records) == 0 {
		log.Warnw("YAML sequence is empty")
	}

	var columns []string
	if len(records) > 0 {
		for i := 0; i+1 < len(records[0].Content); i += 2 {
			columns = append(columns, records[0].Content[i].Value)
		}
	}

	rows := make([]types.Row, 0, len(records))
	for _, rec := range records {
		row := make(types.Row, len(rec.Content)/2)
		for i := 0; i+1 < len(rec.Content); i += 2 {
			v, err := yamlValue(rec.Content[i+1])
			if err != nil {
				return nil, formatInvalid(path, "", err)
			}
			row[rec.Content[i].Value] = v
		}
		rows = append(rows, row)
	}

	log.Infow("parsed YAML", "rows", len(rows), "columns", len(columns))

	return newTable(path, a.Format(), encoding, columns, rows, nil), nil
}

// Validate implements Adapter.
func (a *YAMLAdapter) Validate(path string) bool {
	if !isRegularFile(path) {
		return false
	}
	if ext := Extension(path); ext != ".yaml" && ext != ".yml" {
		return false
	}
	text, err := readText(path, "")
	if err != nil {
		return false
	}
	_, err = decodeYAMLDocument(text)
	return err == nil
}

var errEmptyYAML = errors.New("document is empty")

// decodeYAMLDocument decodes exactly one document and returns its top node.
func decodeYAMLDocument(text string) (*yaml.Node, error) {
	dec := yaml.NewDecoder(strings.NewReader(text))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errEmptyYAML
		}
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, errEmptyYAML
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			err = errors.New("more than one document")
		}
		return nil, err
	}
	return resolveAlias(doc.Content[0]), nil
}

func recordsFromYAML(node *yaml.Node, dataKey string) ([]*yaml.Node, error) {
	switch node.Kind {
	case yaml.SequenceNode:
		return mappingsOf(node)
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value != dataKey {
				continue
			}
			if inner := resolveAlias(node.Content[i+1]); inner.Kind == yaml.SequenceNode {
				return mappingsOf(inner)
			}
		}
		return []*yaml.Node{node}, nil
	default:
		return nil, fmt.Errorf("top-level value must be a sequence or a mapping, got %s", node.ShortTag())
	}
}

func mappingsOf(seq *yaml.Node) ([]*yaml.Node, error) {
	out := make([]*yaml.Node, 0, len(seq.Content))
	for i, item := range seq.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("element %d is %s, not a mapping", i, item.ShortTag())
		}
		out = append(out, item)
	}
	return out, nil
}

// yamlValue converts a node into the Record Table value types.
func yamlValue(node *yaml.Node) (any, error) {
	node = resolveAlias(node)

	switch node.Kind {
	case yaml.MappingNode:
		m := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := yamlValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[node.Content[i].Value] = v
		}
		return m, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := yamlValue(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		if math.IsInf(n, 0) || math.IsNaN(n) {
			return nil, fmt.Errorf("line %d: number %s is not finite", node.Line, node.Value)
		}
	}
	return v, nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
