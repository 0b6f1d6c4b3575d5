package indexfile

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/custodia-labs/busrag/internal/core/domain"
)

// File header:
//
//	0..7   magic "BRAGIDX1"
//	8..11  dimension (uint32)
//	12..15 count (uint32)
//	16     precision (0 = float32, 1 = float16)
//	17..23 reserved
const HeaderSize = 24

var fileMagic = [8]byte{'B', 'R', 'A', 'G', 'I', 'D', 'X', '1'}

const (
	precisionFloat32 byte = 0
	precisionFloat16 byte = 1
)

// Meta is the JSON metadata stored beside the index blob.
type Meta struct {
	IDs       []string `json:"ids"`
	Texts     []string `json:"texts"`
	Dimension int      `json:"dimension"`
	Count     int      `json:"count"`
	Model     string   `json:"model,omitempty"`
	Precision string   `json:"precision,omitempty"`
}

// Encode serialises a snapshot into an index blob and its metadata.
func Encode(s *domain.Snapshot, model string, precision domain.VectorPrecision) (index, meta []byte, err error) {
	if s.Len() == 0 {
		return nil, nil, domain.ErrEmptyCorpus
	}

	code, width, err := precisionCode(precision)
	if err != nil {
		return nil, nil, err
	}

	dim, count := s.Dimension(), s.Len()
	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize+dim*count*width))

	var header [HeaderSize]byte
	copy(header[:8], fileMagic[:])
	binary.LittleEndian.PutUint32(header[8:12], uint32(dim))
	binary.LittleEndian.PutUint32(header[12:16], uint32(count))
	header[16] = code
	buf.Write(header[:])

	word := make([]byte, width)
	for i := 0; i < count; i++ {
		for _, v := range s.Vector(i) {
			if code == precisionFloat16 {
				binary.LittleEndian.PutUint16(word, float16.Fromfloat32(v).Bits())
			} else {
				binary.LittleEndian.PutUint32(word, math.Float32bits(v))
			}
			buf.Write(word)
		}
	}

	meta, err = json.MarshalIndent(Meta{
		IDs:       s.IDs(),
		Texts:     s.Texts(),
		Dimension: dim,
		Count:     count,
		Model:     model,
		Precision: string(precision),
	}, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal metadata: %w", err)
	}

	return buf.Bytes(), meta, nil
}

// Decode rebuilds a snapshot from an index blob and its metadata.
// Any disagreement between the two is reported as domain.ErrInconsistentArtifacts.
func Decode(index, meta []byte) (*domain.Snapshot, Meta, error) {
	m, err := parseMeta(meta)
	if err != nil {
		return nil, Meta{}, err
	}
	h, err := parseHeader(index)
	if err != nil {
		return nil, m, err
	}
	if err := checkPair(h, int64(len(index)), m); err != nil {
		return nil, m, err
	}

	vectors := make([][]float32, h.count)
	off := HeaderSize
	for i := range vectors {
		row := make([]float32, h.dim)
		for j := range row {
			if h.code == precisionFloat16 {
				row[j] = float16.Frombits(binary.LittleEndian.Uint16(index[off:])).Float32()
			} else {
				row[j] = math.Float32frombits(binary.LittleEndian.Uint32(index[off:]))
			}
			off += h.width
		}
		vectors[i] = row
	}

	s, err := domain.NewSnapshot(vectors, m.IDs, m.Texts)
	if err != nil {
		return nil, m, fmt.Errorf("%w: %w", domain.ErrInconsistentArtifacts, err)
	}
	return s, m, nil
}

type header struct {
	dim   int
	count int
	code  byte
	width int
}

func parseMeta(meta []byte) (Meta, error) {
	var m Meta
	if err := json.Unmarshal(meta, &m); err != nil {
		return Meta{}, fmt.Errorf("%w: metadata: %w", domain.ErrInconsistentArtifacts, err)
	}
	return m, nil
}

// parseHeader reads the fixed header from the first HeaderSize bytes of b.
func parseHeader(b []byte) (header, error) {
	if len(b) < HeaderSize {
		return header{}, fmt.Errorf("%w: index blob too small for header (%d bytes)",
			domain.ErrInconsistentArtifacts, len(b))
	}
	var mg [8]byte
	copy(mg[:], b[:8])
	if mg != fileMagic {
		return header{}, fmt.Errorf("%w: index blob magic mismatch", domain.ErrInconsistentArtifacts)
	}

	h := header{
		dim:   int(binary.LittleEndian.Uint32(b[8:12])),
		count: int(binary.LittleEndian.Uint32(b[12:16])),
		code:  b[16],
	}
	switch h.code {
	case precisionFloat32:
		h.width = 4
	case precisionFloat16:
		h.width = 2
	default:
		return header{}, fmt.Errorf("%w: unknown precision code %d", domain.ErrInconsistentArtifacts, h.code)
	}
	if h.dim == 0 || h.count == 0 {
		return header{}, fmt.Errorf("%w: header describes an empty %dx%d index",
			domain.ErrInconsistentArtifacts, h.count, h.dim)
	}
	return h, nil
}

// checkPair verifies that a blob of size bytes with header h agrees with m.
func checkPair(h header, size int64, m Meta) error {
	if want := int64(HeaderSize) + int64(h.dim)*int64(h.count)*int64(h.width); size != want {
		return fmt.Errorf("%w: index blob is %d bytes, header implies %d",
			domain.ErrInconsistentArtifacts, size, want)
	}
	if h.count != len(m.IDs) || h.count != len(m.Texts) {
		return fmt.Errorf("%w: index has %d vectors, metadata has %d ids and %d texts",
			domain.ErrInconsistentArtifacts, h.count, len(m.IDs), len(m.Texts))
	}
	if (m.Count != 0 && m.Count != h.count) || (m.Dimension != 0 && m.Dimension != h.dim) {
		return fmt.Errorf("%w: metadata describes %dx%d, index is %dx%d",
			domain.ErrInconsistentArtifacts, m.Count, m.Dimension, h.count, h.dim)
	}
	return nil
}

func precisionCode(p domain.VectorPrecision) (code byte, width int, err error) {
	switch p {
	case domain.VectorPrecisionFloat32, "":
		return precisionFloat32, 4, nil
	case domain.VectorPrecisionFloat16:
		return precisionFloat16, 2, nil
	default:
		return 0, 0, fmt.Errorf("%w: unsupported vector precision %q", domain.ErrInvalidInput, p)
	}
}
