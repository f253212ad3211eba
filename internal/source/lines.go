package source

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// NewFile indexes content for offset <-> line/column conversion.
func NewFile(path string, content []byte) *File {
	return &File{
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
	}
}

// Size returns the content length in bytes.
func (f *File) Size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("source %s: size overflow: %w", f.Path, err))
	}
	return n
}

// LineCol converts a byte offset to a 1-based line and byte column.
func (f *File) LineCol(offset uint32) LineCol {
	return toLineCol(f.LineIdx, min(offset, f.Size()))
}

// Offset converts a 1-based line/column back to a byte offset. Positions past
// the end of a line clamp to the line end, positions past the last line clamp
// to the end of the content.
func (f *File) Offset(pos LineCol) uint32 {
	if pos.Line == 0 {
		return 0
	}
	start, end, ok := f.lineBounds(pos.Line)
	if !ok {
		return f.Size()
	}
	if pos.Col == 0 {
		return start
	}
	return min(start+pos.Col-1, end)
}

// UTF16Col returns the 0-based UTF-16 column of offset within its line, the
// unit editors speak over the language-server protocol.
func (f *File) UTF16Col(offset uint32) uint32 {
	offset = min(offset, f.Size())
	lc := toLineCol(f.LineIdx, offset)
	start, _, _ := f.lineBounds(lc.Line)
	var units uint32
	for off := start; off < offset; {
		r, size := utf8.DecodeRune(f.Content[off:offset])
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		step, err := safecast.Conv[uint32](size)
		if err != nil || step == 0 {
			step = 1
		}
		off += step
	}
	return units
}

func (f *File) lineBounds(line uint32) (start, end uint32, ok bool) {
	count, err := safecast.Conv[uint32](len(f.LineIdx) + 1)
	if err != nil {
		panic(fmt.Errorf("source %s: line count overflow: %w", f.Path, err))
	}
	if line == 0 || line > count {
		return 0, 0, false
	}
	if line > 1 {
		start = f.LineIdx[line-2] + 1
	}
	end = f.Size()
	if line <= uint32(len(f.LineIdx)) {
		end = f.LineIdx[line-1]
	}
	return start, end, true
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32)
	for i, b := range content {
		if b != '\n' {
			continue
		}
		off, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(fmt.Errorf("line index overflow: %w", err))
		}
		out = append(out, off)
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// наибольший lineIdx[i] < off
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi + 1 // 0-based line index
	if line == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	startOff := lineIdx[line-1] + 1
	lineNo, err := safecast.Conv[uint32](line + 1)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	return LineCol{Line: lineNo, Col: off - startOff + 1}
}
