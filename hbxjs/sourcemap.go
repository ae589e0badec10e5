package hbxjs

import (
	"encoding/base64"
	"encoding/json"
	"sort"
	"strings"
)

// SourceMap is a V3 source map for one compiled template.
type SourceMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// JSON renders the map in its canonical serialized form.
func (m *SourceMap) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// InlineURL renders the map as a data URL suitable for a
// //# sourceMappingURL footer.
func (m *SourceMap) InlineURL() string {
	raw, err := m.JSON()
	if err != nil {
		return ""
	}
	return "data:application/json;base64," + base64.StdEncoding.EncodeToString(raw)
}

const vlqChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// encodeVLQ writes one base64 VLQ value.
func encodeVLQ(b *strings.Builder, value int) {
	v := value << 1
	if value < 0 {
		v = (-value << 1) | 1
	}
	for {
		digit := v & 0x1f
		v >>= 5
		if v != 0 {
			digit |= 0x20
		}
		b.WriteByte(vlqChars[digit])
		if v == 0 {
			break
		}
	}
}

// encodeMappings serializes segments into the semicolon/comma grouped VLQ
// string.  Segments are emitted in generated order; all map into source 0.
func encodeMappings(segs []mapSegment, ix *rangeIndex) string {
	sorted := make([]mapSegment, len(segs))
	copy(sorted, segs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].genLine != sorted[j].genLine {
			return sorted[i].genLine < sorted[j].genLine
		}
		return sorted[i].genCol < sorted[j].genCol
	})

	var (
		b        strings.Builder
		prevLine int
		prevCol  int
		prevSrcL int
		prevSrcC int
		prevName int
		firstSeg = true
	)
	for _, seg := range sorted {
		for prevLine < seg.genLine {
			b.WriteByte(';')
			prevLine++
			prevCol = 0
			firstSeg = true
		}
		if !firstSeg {
			b.WriteByte(',')
		}
		firstSeg = false

		srcLine, srcCol := ix.position(seg.srcOff)
		encodeVLQ(&b, seg.genCol-prevCol)
		encodeVLQ(&b, 0) // source index
		encodeVLQ(&b, srcLine-prevSrcL)
		encodeVLQ(&b, srcCol-prevSrcC)
		if seg.nameIdx >= 0 {
			encodeVLQ(&b, seg.nameIdx-prevName)
			prevName = seg.nameIdx
		}
		prevCol = seg.genCol
		prevSrcL = srcLine
		prevSrcC = srcCol
	}
	return b.String()
}
