package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/box"
	"github.com/roach88/tempus/internal/period"
	"github.com/roach88/tempus/internal/temporal"
)

// Binary layout, little-endian:
//
//	[length u32][type u8][subtype u8][flags u8][bbox][count u32][offsets u32 × count][elements]
//
// bbox is [lower i64][upper i64][bounds u8] followed by [vmin f64][vmax f64]
// for numeric types or [xmin f64][ymin f64][xmax f64][ymax f64] for points.
// Elements are [t i64][value] instants, or nested sequence encodings for a
// sequence set. Offsets are relative to the first element.

const (
	flagLinear   = 1 << 0
	flagLowerInc = 1 << 1
	flagUpperInc = 1 << 2
	flagMask     = flagLinear | flagLowerInc | flagUpperInc
)

const (
	boundLowerInc = 1 << 0
	boundUpperInc = 1 << 1
)

// headerSize covers the length, type tag, subtype tag and flags.
const headerSize = 4 + 1 + 1 + 1

var le = binary.LittleEndian

// Header is the fixed prefix of an encoded temporal value.
type Header struct {
	// Length is the size of the whole encoding in bytes.
	Length int

	Type    base.Type
	Subtype temporal.Subtype
	Interp  temporal.Interp

	// LowerInc and UpperInc are the sequence bounds. Other subtypes leave
	// them false.
	LowerInc bool
	UpperInc bool

	BBox box.Box

	// Count is the number of instants, or of sequences for a sequence set.
	Count int

	table int // byte position of the offset table
}

func (h Header) elements() int {
	return h.table + 4*h.Count
}

// Encode returns the binary encoding of temp.
func Encode(temp temporal.Temporal) []byte {
	return appendTemporal(nil, temp)
}

func appendTemporal(buf []byte, temp temporal.Temporal) []byte {
	start := len(buf)
	buf = le.AppendUint32(buf, 0)
	buf = append(buf, byte(temp.BaseType()), byte(temp.Subtype()), flagsOf(temp))
	buf = appendBox(buf, temp.BBox())

	set, isSet := temp.(*temporal.SequenceSet)
	count := temp.NumInstants()
	if isSet {
		count = set.NumSequences()
	}
	buf = le.AppendUint32(buf, uint32(count))
	table := len(buf)
	buf = append(buf, make([]byte, 4*count)...)
	elements := len(buf)
	for i := 0; i < count; i++ {
		le.PutUint32(buf[table+4*i:], uint32(len(buf)-elements))
		if isSet {
			buf = appendTemporal(buf, set.SequenceN(i))
		} else {
			buf = appendInstant(buf, temp.InstantN(i))
		}
	}
	le.PutUint32(buf[start:], uint32(len(buf)-start))
	return buf
}

func flagsOf(temp temporal.Temporal) byte {
	var flags byte
	if temp.Interp() == temporal.Linear {
		flags |= flagLinear
	}
	if seq, ok := temp.(*temporal.Sequence); ok {
		if seq.LowerInc() {
			flags |= flagLowerInc
		}
		if seq.UpperInc() {
			flags |= flagUpperInc
		}
	}
	return flags
}

func appendBox(buf []byte, b box.Box) []byte {
	p := b.Period()
	buf = le.AppendUint64(buf, uint64(p.Lower))
	buf = le.AppendUint64(buf, uint64(p.Upper))
	var bounds byte
	if p.LowerInc {
		bounds |= boundLowerInc
	}
	if p.UpperInc {
		bounds |= boundUpperInc
	}
	buf = append(buf, bounds)
	switch bb := b.(type) {
	case box.Time:
		return buf
	case box.TBox:
		buf = appendFloat(buf, bb.VMin)
		return appendFloat(buf, bb.VMax)
	case box.STBox:
		buf = appendFloat(buf, bb.XMin)
		buf = appendFloat(buf, bb.YMin)
		buf = appendFloat(buf, bb.XMax)
		return appendFloat(buf, bb.YMax)
	default:
		panic(fmt.Sprintf("codec: unknown box %T", b))
	}
}

func appendInstant(buf []byte, inst temporal.Instant) []byte {
	buf = le.AppendUint64(buf, uint64(inst.T))
	return appendValue(buf, inst.Value)
}

func appendValue(buf []byte, v base.Value) []byte {
	switch val := v.(type) {
	case base.Bool:
		if val {
			return append(buf, 1)
		}
		return append(buf, 0)
	case base.Int:
		return le.AppendUint64(buf, uint64(val))
	case base.Float:
		return appendFloat(buf, float64(val))
	case base.Text:
		buf = le.AppendUint32(buf, uint32(len(val)))
		return append(buf, val...)
	case base.Point:
		buf = appendFloat(buf, val.X)
		return appendFloat(buf, val.Y)
	default:
		panic(fmt.Sprintf("codec: unknown value %T", v))
	}
}

func appendFloat(buf []byte, f float64) []byte {
	return le.AppendUint64(buf, math.Float64bits(f))
}

// Decode parses a binary encoding produced by Encode. The whole buffer must
// be consumed.
func Decode(data []byte) (temporal.Temporal, error) {
	temp, n, err := decodeTemporal(data, 0)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, corrupt(n, "%d trailing bytes", len(data)-n)
	}
	return temp, nil
}

// ReadHeader parses the fixed prefix of an encoding without decoding its
// elements.
func ReadHeader(data []byte) (Header, error) {
	return readHeader(data, 0)
}

// DecodeInstantN returns instant n of an encoded instant, instant set or
// sequence without decoding the other elements.
func DecodeInstantN(data []byte, n int) (temporal.Instant, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return temporal.Instant{}, err
	}
	if h.Subtype == temporal.SubtypeSequenceSet {
		return temporal.Instant{}, fmt.Errorf("codec: %s elements are sequences", h.Subtype)
	}
	if n < 0 || n >= h.Count {
		return temporal.Instant{}, fmt.Errorf("codec: instant %d out of range [0, %d)", n, h.Count)
	}
	r := &reader{data: data[:h.Length], off: h.table + 4*n}
	r.off = h.elements() + int(r.u32())
	inst := r.instant(h.Type)
	if r.err != nil {
		return temporal.Instant{}, r.err
	}
	return inst, nil
}

// DecodeSequenceN returns sequence n of an encoded sequence set without
// decoding the other sequences.
func DecodeSequenceN(data []byte, n int) (*temporal.Sequence, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}
	if h.Subtype != temporal.SubtypeSequenceSet {
		return nil, fmt.Errorf("codec: %s has no sequences", h.Subtype)
	}
	if n < 0 || n >= h.Count {
		return nil, fmt.Errorf("codec: sequence %d out of range [0, %d)", n, h.Count)
	}
	r := &reader{data: data[:h.Length], off: h.table + 4*n}
	pos := h.elements() + int(r.u32())
	if r.err != nil {
		return nil, r.err
	}
	temp, _, err := decodeTemporal(data[:h.Length], pos)
	if err != nil {
		return nil, err
	}
	seq, ok := temp.(*temporal.Sequence)
	if !ok {
		return nil, corrupt(pos, "set element is a %s", temp.Subtype())
	}
	return seq, nil
}

func readHeader(data []byte, off int) (Header, error) {
	r := &reader{data: data, off: off}
	length := int(r.u32())
	if r.err != nil {
		return Header{}, r.err
	}
	if length < headerSize || length > len(data)-off {
		return Header{}, corrupt(off, "length %d does not fit buffer of %d bytes", length, len(data)-off)
	}
	r.data = data[:off+length]

	typTag, subTag, flags := r.u8(), r.u8(), r.u8()
	if r.err != nil {
		return Header{}, r.err
	}
	typ := base.Type(typTag)
	if !typ.Valid() {
		return Header{}, &ParseError{Code: ErrCodeUnknownType, Offset: off + 4, Message: fmt.Sprintf("unknown base type tag %d", typTag)}
	}
	h := Header{Length: length, Type: typ, Subtype: temporal.Subtype(subTag)}
	if flags&^flagMask != 0 {
		return Header{}, corrupt(off+6, "unknown flags %#x", flags)
	}
	switch h.Subtype {
	case temporal.SubtypeInstant, temporal.SubtypeInstantSet:
		if flags != 0 {
			return Header{}, corrupt(off+6, "%s carries flags %#x", h.Subtype, flags)
		}
		h.Interp = temporal.Discrete
	case temporal.SubtypeSequence, temporal.SubtypeSequenceSet:
		h.Interp = temporal.Stepwise
		if flags&flagLinear != 0 {
			h.Interp = temporal.Linear
		}
		if h.Subtype == temporal.SubtypeSequence {
			h.LowerInc = flags&flagLowerInc != 0
			h.UpperInc = flags&flagUpperInc != 0
		} else if flags&^flagLinear != 0 {
			return Header{}, corrupt(off+6, "sequence set carries bound flags %#x", flags)
		}
	default:
		return Header{}, corrupt(off+5, "unknown subtype tag %d", subTag)
	}

	h.BBox = r.box(typ.Kind())
	h.Count = int(r.u32())
	if r.err != nil {
		return Header{}, r.err
	}
	if h.Count == 0 || (h.Subtype == temporal.SubtypeInstant && h.Count != 1) {
		return Header{}, corrupt(r.off-4, "invalid element count %d for %s", h.Count, h.Subtype)
	}
	h.table = r.off
	if !r.need(4 * h.Count) {
		return Header{}, r.err
	}
	return h, nil
}

// decodeTemporal decodes the value encoded at off and returns it with its
// encoded length.
func decodeTemporal(data []byte, off int) (temporal.Temporal, int, error) {
	h, err := readHeader(data, off)
	if err != nil {
		return nil, 0, err
	}
	end := off + h.Length
	elements := h.elements()
	r := &reader{data: data[:end], off: elements}
	tr := &reader{data: data[:end], off: h.table}

	var temp temporal.Temporal
	if h.Subtype == temporal.SubtypeSequenceSet {
		sequences := make([]*temporal.Sequence, h.Count)
		for i := range sequences {
			if rel := int(tr.u32()); tr.err == nil && elements+rel != r.off {
				return nil, 0, corrupt(h.table+4*i, "offset %d does not match element position %d", rel, r.off-elements)
			}
			elem, n, err := decodeTemporal(data[:end], r.off)
			if err != nil {
				return nil, 0, err
			}
			seq, ok := elem.(*temporal.Sequence)
			if !ok || seq.BaseType() != h.Type {
				return nil, 0, corrupt(r.off, "set element %d is a %s %s", i, elem.BaseType().TemporalName(), elem.Subtype())
			}
			sequences[i] = seq
			r.off += n
		}
		set, err := temporal.NewSequenceSet(sequences, false)
		if err != nil {
			return nil, 0, invalid(off, err)
		}
		if set.Interp() != h.Interp {
			return nil, 0, corrupt(off+6, "set interpolation %s does not match its sequences", h.Interp)
		}
		temp = set
	} else {
		instants := make([]temporal.Instant, h.Count)
		for i := range instants {
			if rel := int(tr.u32()); tr.err == nil && elements+rel != r.off {
				return nil, 0, corrupt(h.table+4*i, "offset %d does not match element position %d", rel, r.off-elements)
			}
			instants[i] = r.instant(h.Type)
			if r.err != nil {
				return nil, 0, r.err
			}
		}
		temp, err = build(h, instants)
		if err != nil {
			return nil, 0, invalid(off, err)
		}
	}
	if tr.err != nil {
		return nil, 0, tr.err
	}
	if r.off != end {
		return nil, 0, corrupt(r.off, "%d unread bytes in value", end-r.off)
	}
	if !box.Equal(h.BBox, temp.BBox()) {
		return nil, 0, corrupt(off+headerSize, "stored bounding box %s does not match %s", h.BBox, temp.BBox())
	}
	return temp, h.Length, nil
}

func build(h Header, instants []temporal.Instant) (temporal.Temporal, error) {
	switch h.Subtype {
	case temporal.SubtypeInstant:
		return instants[0], nil
	case temporal.SubtypeInstantSet:
		return temporal.NewInstantSet(instants...)
	default:
		return temporal.NewSequence(instants, h.LowerInc, h.UpperInc, h.Interp, false)
	}
}

func invalid(offset int, err error) *ParseError {
	return &ParseError{Code: ErrCodeCorrupt, Offset: offset, Message: "invalid value", Err: err}
}

// reader decodes little-endian fields. The first failure is sticky: later
// reads return zero values and leave err unchanged.
type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if n < 0 || n > len(r.data)-r.off {
		r.err = corrupt(r.off, "need %d bytes, %d left", n, len(r.data)-r.off)
		return false
	}
	return true
}

func (r *reader) u8() byte {
	if !r.need(1) {
		return 0
	}
	b := r.data[r.off]
	r.off++
	return b
}

func (r *reader) u32() uint32 {
	if !r.need(4) {
		return 0
	}
	v := le.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *reader) u64() uint64 {
	if !r.need(8) {
		return 0
	}
	v := le.Uint64(r.data[r.off:])
	r.off += 8
	return v
}

func (r *reader) f64() float64 {
	return math.Float64frombits(r.u64())
}

func (r *reader) bytes(n int) []byte {
	if !r.need(n) {
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) box(kind base.Kind) box.Box {
	start := r.off
	lower, upper := period.Timestamp(r.u64()), period.Timestamp(r.u64())
	bounds := r.u8()
	if r.err != nil {
		return nil
	}
	p, err := period.New(lower, upper, bounds&boundLowerInc != 0, bounds&boundUpperInc != 0)
	if err != nil {
		r.err = invalid(start, err)
		return nil
	}
	switch kind {
	case base.KindNumeric:
		return box.TBox{Extent: p, VMin: r.f64(), VMax: r.f64()}
	case base.KindSpatial:
		return box.STBox{Extent: p, XMin: r.f64(), YMin: r.f64(), XMax: r.f64(), YMax: r.f64()}
	default:
		return box.Time{Extent: p}
	}
}

func (r *reader) instant(typ base.Type) temporal.Instant {
	t := period.Timestamp(r.u64())
	return temporal.NewInstant(r.value(typ), t)
}

func (r *reader) value(typ base.Type) base.Value {
	start := r.off
	switch typ {
	case base.TypeBool:
		b := r.u8()
		if b > 1 && r.err == nil {
			r.err = corrupt(start, "invalid bool byte %d", b)
		}
		return base.Bool(b == 1)
	case base.TypeInt:
		return base.Int(int64(r.u64()))
	case base.TypeFloat:
		return base.Float(r.f64())
	case base.TypeText:
		s := r.bytes(int(r.u32()))
		if r.err == nil && (!utf8.Valid(s) || !norm.NFC.IsNormal(s)) {
			r.err = corrupt(start, "text is not NFC normalized UTF-8")
		}
		return base.Text(s)
	case base.TypePoint:
		return base.Point{X: r.f64(), Y: r.f64()}
	default:
		panic(fmt.Sprintf("codec: unknown base type %s", typ))
	}
}
