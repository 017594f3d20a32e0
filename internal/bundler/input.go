package bundler

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/styleext/internal/errors"
)

// DefaultEntry names the entrypoint and chunk synthesised when no manifest is given.
const DefaultEntry = "main"

// NamedAsset is one output file of the build input.
type NamedAsset struct {
	Name   string
	Source Asset
}

// ChunkSpec declares a chunk and the files it produced.
type ChunkSpec struct {
	Name  string   `yaml:"name"`
	Files []string `yaml:"files"`
}

// EntrypointSpec declares an entrypoint and the chunks it loads.
type EntrypointSpec struct {
	Name   string   `yaml:"name"`
	Chunks []string `yaml:"chunks"`
}

// Manifest is the on-disk description of chunks and entrypoints.
type Manifest struct {
	Chunks      []ChunkSpec      `yaml:"chunks"`
	Entrypoints []EntrypointSpec `yaml:"entrypoints"`
}

// Input is everything a compilation starts from.
type Input struct {
	Assets      []NamedAsset
	Chunks      []ChunkSpec
	Entrypoints []EntrypointSpec
}

func (in *Input) assetsOrNil() []NamedAsset {
	if in == nil {
		return nil
	}
	return in.Assets
}

// AddAsset appends an asset, keeping insertion order.
func (in *Input) AddAsset(name string, src Asset) *Input {
	in.Assets = append(in.Assets, NamedAsset{Name: name, Source: src})
	return in
}

// WithDefaultEntry replaces the chunk layout with a single "main" entrypoint
// whose only chunk owns every asset.
func (in *Input) WithDefaultEntry() *Input {
	files := make([]string, 0, len(in.Assets))
	for _, a := range in.Assets {
		files = append(files, a.Name)
	}
	in.Chunks = []ChunkSpec{{Name: DefaultEntry, Files: files}}
	in.Entrypoints = []EntrypointSpec{{Name: DefaultEntry, Chunks: []string{DefaultEntry}}}
	return in
}

// LoadInput reads every regular file below dir (lexical order) as an asset
// and the chunk layout from manifestPath. Without a manifest a single "main"
// entrypoint with one "main" chunk owns all files.
func LoadInput(dir, manifestPath string) (*Input, error) {
	in := &Input{}
	absManifest := ""
	if manifestPath != "" {
		if p, err := filepath.Abs(manifestPath); err == nil {
			absManifest = p
		}
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if abs, aerr := filepath.Abs(path); aerr == nil && abs == absManifest {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return err
		}
		in.AddAsset(filepath.ToSlash(rel), RawSource(data))
		return nil
	})
	if err != nil {
		return nil, errors.InputError("walk source directory", err).WithContext("dir", dir)
	}

	if manifestPath == "" {
		return in.WithDefaultEntry(), nil
	}

	m, err := ReadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	in.Chunks = m.Chunks
	in.Entrypoints = m.Entrypoints
	return in, nil
}

// ReadManifest decodes a manifest file, rejecting unknown fields.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.InputError("read manifest", err).WithContext("path", path)
	}
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, errors.InputError("decode manifest", err).WithContext("path", path)
	}
	return &m, nil
}
