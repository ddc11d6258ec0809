package render

import (
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/wippyai/deencode"
)

// Document is the serialized form of a tree. Field names follow the
// exported JSON schema: a root with "input" and "encoders", encodings with
// "decoders", and decodings with "encoders" omitted at maximum depth.
type Document struct {
	Input    string     `json:"input" cbor:"input"`
	Encoders []Encoding `json:"encoders" cbor:"encoders"`
}

// Encoding is the serialized form of an encode node.
type Encoding struct {
	Name     string     `json:"name" cbor:"name"`
	Output   Bytes      `json:"output" cbor:"output"`
	Decoders []Decoding `json:"decoders" cbor:"decoders"`
}

// Decoding is the serialized form of a decode node.
type Decoding struct {
	Name     string     `json:"name" cbor:"name"`
	Output   string     `json:"output" cbor:"output"`
	Encoders []Encoding `json:"encoders,omitempty" cbor:"encoders,omitempty"`
}

// AlphabetDocument lists the distinct artifacts returned by Deduplicate.
type AlphabetDocument struct {
	Strings []string `json:"strings" cbor:"strings"`
	Bytes   []Bytes  `json:"bytes" cbor:"bytes"`
}

var byteType = reflect.TypeOf(byte(0))

// Bytes is an encoder output. JSON carries it as an array of integers so
// the bytes stay readable; CBOR carries it as a byte string.
type Bytes []byte

// MarshalJSON writes b as an array of integers.
func (b Bytes) MarshalJSON() ([]byte, error) {
	out := make([]byte, 0, 2+4*len(b))
	out = append(out, '[')
	for i, v := range b {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendUint(out, uint64(v), 10)
	}
	return append(out, ']'), nil
}

// UnmarshalJSON reads an array of integers in 0..255.
func (b *Bytes) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	out := make(Bytes, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return &json.UnmarshalTypeError{Value: "number " + strconv.Itoa(v), Type: byteType}
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}

// NewDocument converts t into its serialized form.
func NewDocument(t *deencode.Tree) *Document {
	return &Document{
		Input:    t.Input,
		Encoders: encodings(t.Children),
	}
}

// NewAlphabetDocument wraps the artifact lists returned by Deduplicate.
func NewAlphabetDocument(strs []string, bytes [][]byte) *AlphabetDocument {
	doc := &AlphabetDocument{
		Strings: make([]string, len(strs)),
		Bytes:   make([]Bytes, len(bytes)),
	}
	copy(doc.Strings, strs)
	for i, b := range bytes {
		doc.Bytes[i] = Bytes(b)
	}
	return doc
}

func encodings(nodes []*deencode.EncodeNode) []Encoding {
	out := make([]Encoding, len(nodes))
	for i, n := range nodes {
		out[i] = Encoding{
			Name:     n.Name,
			Output:   Bytes(n.Output),
			Decoders: decodings(n.Children),
		}
	}
	return out
}

func decodings(nodes []*deencode.DecodeNode) []Decoding {
	out := make([]Decoding, len(nodes))
	for i, n := range nodes {
		out[i] = Decoding{
			Name:   n.Name,
			Output: n.Output,
		}
		if len(n.Children) > 0 {
			out[i].Encoders = encodings(n.Children)
		}
	}
	return out
}
