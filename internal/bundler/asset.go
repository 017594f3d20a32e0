package bundler

// Asset is the content of one output file.
type Asset interface {
	Source() []byte
	Size() int
}

// RawSource is an Asset backed by a byte slice.
type RawSource []byte

// Source returns the raw bytes.
func (s RawSource) Source() []byte { return s }

// Size returns the length in bytes.
func (s RawSource) Size() int { return len(s) }

// StringSource builds a RawSource from a string.
func StringSource(s string) RawSource { return RawSource(s) }

// Chunk is a named group of output files produced for an entry or split point.
// Chunks are compared by identity; each compilation builds its own.
type Chunk struct {
	ID    int
	Name  string
	Files []string
}

// HasFile reports whether the chunk produced filename.
func (c *Chunk) HasFile(filename string) bool {
	for _, f := range c.Files {
		if f == filename {
			return true
		}
	}
	return false
}

// Entrypoint maps an entry name to the ordered chunks it loads.
type Entrypoint struct {
	Name   string
	Chunks []*Chunk
}

// Files returns the files of all chunks in order, without duplicates.
func (e *Entrypoint) Files() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range e.Chunks {
		for _, f := range c.Files {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}
