package source

// File captures the content of a single module source together with its
// newline index.
type File struct {
	Path    string
	Content []byte
	LineIdx []uint32
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
