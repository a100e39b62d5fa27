package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/tabconv/internal/logger"
	"github.com/dbsmedya/tabconv/internal/types"
)

// JSONAdapter reads a JSON array of objects, an object wrapping such an array
// under a data key, or a single object.
type JSONAdapter struct {
	log *logger.Logger
}

// NewJSONAdapter creates a JSON adapter.
func NewJSONAdapter(log *logger.Logger) Adapter {
	return &JSONAdapter{log: orNop(log).WithFormat("json")}
}

// Format implements Adapter.
func (a *JSONAdapter) Format() string { return "json" }

// Parse implements Adapter.
func (a *JSONAdapter) Parse(path string, opts Options) (*types.Table, error) {
	opts = opts.withDefaults()
	encoding := encodingOrDefault(opts.Encoding)
	log := a.log.WithFile(path)

	log.Infow("parsing JSON", "data_key", opts.DataKey, "encoding", encoding)

	text, err := readText(path, encoding)
	if err != nil {
		log.Errorw("cannot read JSON", "error", err)
		return nil, err
	}

	doc, err := decodeDocument(strings.NewReader(text))
	if err != nil {
		log.Errorw("JSON parse failed", "error", err)
		return nil, formatInvalid(path, "malformed JSON", err)
	}

	records, err := recordsFromJSON(doc, opts.DataKey)
	if err != nil {
		log.Errorw("unsupported JSON structure", "error", err)
		return nil, formatInvalid(path, "", err)
	}

	if len(records) == 0 {
		log.Warnw("JSON array is empty")
	}

	columns, rows := tabulateOrdered(records)
	log.Infow("parsed JSON", "rows", len(rows), "columns", len(columns))

	return newTable(path, a.Format(), encoding, columns, rows, nil), nil
}

// Validate implements Adapter. The whole document must be syntactically valid.
func (a *JSONAdapter) Validate(path string) bool {
	if !isRegularFile(path) || Extension(path) != ".json" {
		return false
	}
	text, err := readText(path, "")
	if err != nil {
		return false
	}
	_, err = decodeDocument(strings.NewReader(text))
	return err == nil
}

// object is a decoded JSON object that remembers key order.
type object = *orderedmap.OrderedMap[string, any]

// recordsFromJSON applies the shape rules to the decoded document.
func recordsFromJSON(doc any, dataKey string) ([]object, error) {
	switch v := doc.(type) {
	case []any:
		return objectsOf(v)
	case object:
		if inner, ok := v.Get(dataKey); ok {
			if list, ok := inner.([]any); ok {
				return objectsOf(list)
			}
		}
		return []object{v}, nil
	default:
		return nil, fmt.Errorf("top-level value must be an array or an object, got %s", jsonKind(doc))
	}
}

func objectsOf(list []any) ([]object, error) {
	records := make([]object, 0, len(list))
	for i, item := range list {
		obj, ok := item.(object)
		if !ok {
			return nil, fmt.Errorf("element %d is %s, not an object", i, jsonKind(item))
		}
		records = append(records, obj)
	}
	return records, nil
}

// tabulateOrdered takes the columns from the first record's keys. Later
// records are not backfilled.
func tabulateOrdered(records []object) ([]string, []types.Row) {
	var columns []string
	if len(records) > 0 {
		for el := records[0].Front(); el != nil; el = el.Next() {
			columns = append(columns, el.Key)
		}
	}

	rows := make([]types.Row, 0, len(records))
	for _, rec := range records {
		row := make(types.Row, rec.Len())
		for el := rec.Front(); el != nil; el = el.Next() {
			row[el.Key] = plain(el.Value)
		}
		rows = append(rows, row)
	}
	return columns, rows
}

// plain converts nested ordered maps into map[string]any.
func plain(v any) any {
	switch v := v.(type) {
	case object:
		m := make(map[string]any, v.Len())
		for el := v.Front(); el != nil; el = el.Next() {
			m[el.Key] = plain(el.Value)
		}
		return m
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}

// decodeDocument decodes exactly one JSON value from r. Objects keep their key
// order; numbers become int64 when integral and in range, else float64.
func decodeDocument(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	doc, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, err
	}
	return doc, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case json.Number:
		return number(t)
	default:
		// string, bool or nil
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (object, error) {
	obj := orderedmap.NewOrderedMap[string, any]()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
	if err := closeToken(dec); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	list := []any{}
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		list = append(list, val)
	}
	if err := closeToken(dec); err != nil {
		return nil, err
	}
	return list, nil
}

// closeToken consumes the closing delimiter of an object or array.
func closeToken(dec *json.Decoder) error {
	_, err := dec.Token()
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// number converts a literal to int64 or float64. Literals beyond the float64
// range are rejected; they would decode to an infinity no writer can emit.
func number(n json.Number) (any, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
	}
	// underflow rounds to zero and is kept
	f, _ := strconv.ParseFloat(s, 64)
	if math.IsInf(f, 0) {
		return nil, fmt.Errorf("number %s is out of range", s)
	}
	return f, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case string:
		return "a string"
	case int64, float64:
		return "a number"
	case []any:
		return "an array"
	case object:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
