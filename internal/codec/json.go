package codec

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/temporal"
)

// MarshalJSON returns the canonical JSON object of temp:
//
//	{"datetimes":[...],"interpolation":"Linear","lower_inc":true,
//	 "subtype":"Sequence","type":"tfloat","upper_inc":false,"values":[...]}
//
// Sequence sets carry a "sequences" array of sequence objects instead of
// values and datetimes. Points are [x, y] arrays.
func MarshalJSON(temp temporal.Temporal) ([]byte, error) {
	return MarshalCanonical(JSONValue(temp))
}

// JSONValue returns the JSON tree of temp, ready for MarshalCanonical or
// for embedding in a larger document.
func JSONValue(temp temporal.Temporal) map[string]any {
	obj := map[string]any{
		"type":          temp.BaseType().TemporalName(),
		"subtype":       temp.Subtype().String(),
		"interpolation": temp.Interp().String(),
	}
	switch t := temp.(type) {
	case *temporal.SequenceSet:
		sequences := make([]any, t.NumSequences())
		for i, seq := range t.Sequences() {
			s := map[string]any{}
			addSequence(s, seq)
			sequences[i] = s
		}
		obj["sequences"] = sequences
	case *temporal.Sequence:
		addSequence(obj, t)
	default:
		addInstants(obj, temp.Instants())
	}
	return obj
}

func addSequence(obj map[string]any, seq *temporal.Sequence) {
	addInstants(obj, seq.Instants())
	obj["lower_inc"] = seq.LowerInc()
	obj["upper_inc"] = seq.UpperInc()
}

func addInstants(obj map[string]any, instants []temporal.Instant) {
	values := make([]any, len(instants))
	datetimes := make([]any, len(instants))
	for i, inst := range instants {
		values[i] = jsonBaseValue(inst.Value)
		datetimes[i] = inst.T.String()
	}
	obj["values"] = values
	obj["datetimes"] = datetimes
}

func jsonBaseValue(v base.Value) any {
	switch val := v.(type) {
	case base.Bool:
		return bool(val)
	case base.Int:
		return int64(val)
	case base.Float:
		return float64(val)
	case base.Text:
		return string(val)
	case base.Point:
		return []any{val.X, val.Y}
	default:
		panic(fmt.Sprintf("codec: unknown value %T", v))
	}
}

// MarshalCanonical encodes a JSON tree of maps, slices, strings, booleans,
// integers and finite floats. Object keys are sorted by UTF-16 code units,
// strings are NFC normalized, and only quotes, backslashes and control
// characters are escaped. Null is rejected.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		writeString(buf, val)
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case int:
		buf.WriteString(strconv.Itoa(val))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("non-finite float %v in canonical JSON", val)
		}
		buf.WriteString(strconv.FormatFloat(val, 'g', -1, 64))
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case []string:
		elems := make([]any, len(val))
		for i, s := range val {
			elems[i] = s
		}
		return writeCanonical(buf, elems)
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareUTF16)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, k)
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("value for key %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range norm.NFC.String(s) {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// compareUTF16 orders strings by their UTF-16 code units.
func compareUTF16(a, b string) int {
	ua, ub := utf16.Encode([]rune(a)), utf16.Encode([]rune(b))
	return slices.Compare(ua, ub)
}
