package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/dbsmedya/tabconv/internal/logger"
	"github.com/dbsmedya/tabconv/internal/textenc"
	"github.com/dbsmedya/tabconv/internal/types"
)

// XMLAdapter reads repeated item elements. Each direct child of an item is a
// column; its trimmed text is the value. Namespaced tags are named
// "{namespace}local" so they never merge with an unqualified tag of the same
// local name.
type XMLAdapter struct {
	log *logger.Logger
}

// NewXMLAdapter creates an XML adapter.
func NewXMLAdapter(log *logger.Logger) Adapter {
	return &XMLAdapter{log: orNop(log).WithFormat("xml")}
}

// Format implements Adapter.
func (a *XMLAdapter) Format() string { return "xml" }

// Parse implements Adapter.
//
// Items are the descendants of the container named opts.ItemTag, or the
// container's direct children when ItemTag is empty. The container is the
// document root, or the first element named opts.RootTag. Both tags match
// either the local or the qualified element name.
func (a *XMLAdapter) Parse(path string, opts Options) (*types.Table, error) {
	log := a.log.WithFile(path)

	data, err := readBytes(path)
	if err != nil {
		log.Errorw("cannot read XML", "error", err)
		return nil, err
	}

	encoding := resolveXMLEncoding(data, opts.Encoding)
	log.Infow("parsing XML", "root_tag", opts.RootTag, "item_tag", opts.ItemTag, "encoding", encoding)

	text, err := decodeText(path, data, encoding)
	if err != nil {
		log.Errorw("cannot decode XML", "error", err)
		return nil, err
	}

	root, err := buildTree(strings.NewReader(text))
	if err != nil {
		log.Errorw("XML parse failed", "error", err)
		return nil, formatInvalid(path, "malformed XML", err)
	}

	container := root
	if opts.RootTag != "" {
		if container = root.find(opts.RootTag); container == nil {
			return nil, formatInvalid(path, fmt.Sprintf("no <%s> element", opts.RootTag), nil)
		}
	}

	var items []*element
	if opts.ItemTag != "" {
		items = container.descendants(opts.ItemTag)
	} else {
		items = container.children
	}

	if len(items) == 0 {
		log.Warnw("no XML items found")
	}

	columns, rows := tabulateElements(items)
	log.Infow("parsed XML", "rows", len(rows), "columns", len(columns))

	return newTable(path, a.Format(), encoding, columns, rows, types.Metadata{
		types.MetaRootTag: root.tag(),
	}), nil
}

// Validate implements Adapter. The token stream must form one well-formed
// document.
func (a *XMLAdapter) Validate(path string) bool {
	if !isRegularFile(path) || Extension(path) != ".xml" {
		return false
	}
	data, err := readBytes(path)
	if err != nil {
		return false
	}
	text, err := textenc.Decode(data, resolveXMLEncoding(data, ""))
	if err != nil {
		return false
	}
	_, err = buildTree(strings.NewReader(text))
	return err == nil
}

// tabulateElements builds rows from the items' direct children. Columns are
// the sorted union of child tags; every row carries every column.
func tabulateElements(items []*element) ([]string, []types.Row) {
	seen := make(map[string]bool)
	rows := make([]types.Row, 0, len(items))

	for _, item := range items {
		row := make(types.Row, len(item.children))
		for _, child := range item.children {
			// repeated tags: last one wins
			row[child.tag()] = strings.TrimSpace(child.text.String())
			seen[child.tag()] = true
		}
		rows = append(rows, row)
	}

	columns := make([]string, 0, len(seen))
	for name := range seen {
		columns = append(columns, name)
	}
	slices.Sort(columns)

	for _, row := range rows {
		for _, col := range columns {
			if _, ok := row[col]; !ok {
				row[col] = ""
			}
		}
	}
	return columns, rows
}

// element is a minimal element tree node. text holds only the character data
// that precedes the first child element.
type element struct {
	name     string // local name
	space    string // namespace URI, or the prefix when undeclared
	text     strings.Builder
	children []*element
}

// tag returns the element name in "{space}local" form, or the local name
// when there is no namespace.
func (e *element) tag() string {
	if e.space == "" {
		return e.name
	}
	return "{" + e.space + "}" + e.name
}

// is reports whether name is e's local or qualified name.
func (e *element) is(name string) bool {
	return name == e.name || name == e.tag()
}

// find returns the first element named name in document order, e included.
func (e *element) find(name string) *element {
	if e.is(name) {
		return e
	}
	for _, c := range e.children {
		if found := c.find(name); found != nil {
			return found
		}
	}
	return nil
}

// descendants returns every element below e named name, in document order.
func (e *element) descendants(name string) []*element {
	var out []*element
	var walk func(*element)
	walk = func(n *element) {
		for _, c := range n.children {
			if c.is(name) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(e)
	return out
}

var errNoRoot = errors.New("no root element")

// buildTree parses already decoded text into an element tree.
func buildTree(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	// Input is already UTF-8 whatever the declaration says.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var root *element
	var stack []*element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local, space: t.Name.Space}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("line %d: second root element <%s>", lineOf(dec), t.Name.Local)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, fmt.Errorf("line %d: text outside the root element", lineOf(dec))
				}
				continue
			}
			cur := stack[len(stack)-1]
			if len(cur.children) == 0 {
				cur.text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, errNoRoot
	}
	return root, nil
}

func lineOf(dec *xml.Decoder) int {
	line, _ := dec.InputPos()
	return line
}

var xmlDeclEncoding = regexp.MustCompile(`^\s*<\?xml[^>]*?\sencoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// resolveXMLEncoding picks the requested encoding, else the one declared in
// the prolog, else utf-8.
func resolveXMLEncoding(data []byte, requested string) string {
	if requested != "" {
		return textenc.Normalize(requested)
	}
	head := bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(head) > 256 {
		head = head[:256]
	}
	if m := xmlDeclEncoding.FindSubmatch(head); m != nil {
		return textenc.Normalize(string(m[1]))
	}
	return textenc.DefaultEncoding
}
