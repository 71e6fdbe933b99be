package containers

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Cookie starts every HDT control block
const Cookie = "$HDT"

// ControlKind identifies which part of the file a control block introduces
type ControlKind byte

const (
	ControlUnknown ControlKind = iota
	ControlGlobal
	ControlHeader
	ControlDictionary
	ControlTriples
	ControlIndex
)

// Format IRIs and names recognized in control blocks
const (
	FormatHDTv1          = "<http://purl.org/HDT/hdt#HDTv1>"
	FormatDictionaryFour = "<http://purl.org/HDT/hdt#dictionaryFour>"
	FormatTriplesBitmap  = "<http://purl.org/HDT/hdt#triplesBitmap>"
	FormatHeaderNTriples = "ntriples"
)

type property struct {
	key   string
	value string
}

// ControlInfo is an HDT control block: a cookie, a block kind, a format
// identifier and an ordered key=value property list, protected by a
// CRC-16/ARC over the serialized bytes.
type ControlInfo struct {
	Kind   ControlKind
	Format string
	props  []property
}

// NewControlInfo creates a control block of the given kind and format
func NewControlInfo(kind ControlKind, format string) *ControlInfo {
	return &ControlInfo{Kind: kind, Format: format}
}

// Set adds or replaces a property
func (ci *ControlInfo) Set(key, value string) {
	for i := range ci.props {
		if ci.props[i].key == key {
			ci.props[i].value = value
			return
		}
	}
	ci.props = append(ci.props, property{key: key, value: value})
}

// SetUint adds or replaces a numeric property
func (ci *ControlInfo) SetUint(key string, v uint64) {
	ci.Set(key, strconv.FormatUint(v, 10))
}

// Get returns a property value
func (ci *ControlInfo) Get(key string) (string, bool) {
	for _, p := range ci.props {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// Uint returns a numeric property value
func (ci *ControlInfo) Uint(key string) (uint64, bool) {
	s, ok := ci.Get(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Save writes the control block to w
func (ci *ControlInfo) Save(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteString(Cookie)
	buf.WriteByte(byte(ci.Kind))
	buf.WriteString(ci.Format)
	buf.WriteByte(0)
	for _, p := range ci.props {
		buf.WriteString(p.key)
		buf.WriteByte('=')
		buf.WriteString(p.value)
		buf.WriteByte(';')
	}
	buf.WriteByte(0)

	crc := Checksum16(buf.Bytes())
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, crc)
}

// ReadControlInfo reads and validates a control block from r
func ReadControlInfo(r *bufio.Reader) (*ControlInfo, error) {
	raw := make([]byte, len(Cookie)+1)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, err
	}
	if string(raw[:len(Cookie)]) != Cookie {
		return nil, fmt.Errorf("%w: bad cookie %q", ErrFormat, raw[:len(Cookie)])
	}

	ci := &ControlInfo{Kind: ControlKind(raw[len(Cookie)])}

	format, err := r.ReadString(0)
	if err != nil {
		return nil, err
	}
	raw = append(raw, format...)
	ci.Format = strings.TrimSuffix(format, "\x00")

	props, err := r.ReadString(0)
	if err != nil {
		return nil, err
	}
	raw = append(raw, props...)
	for _, kv := range strings.Split(strings.TrimSuffix(props, "\x00"), ";") {
		if kv == "" {
			continue
		}
		key, value, found := strings.Cut(kv, "=")
		if !found {
			return nil, fmt.Errorf("%w: malformed control property %q", ErrFormat, kv)
		}
		ci.props = append(ci.props, property{key: key, value: value})
	}

	var stored uint16
	if err := binary.Read(r, binary.LittleEndian, &stored); err != nil {
		return nil, err
	}
	if stored != Checksum16(raw) {
		return nil, fmt.Errorf("%w: control block", ErrChecksum)
	}
	return ci, nil
}
