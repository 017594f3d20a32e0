package bundler

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/styleext/internal/errors"
)

// WriteAssets writes every asset left in the compilation below dir.
func WriteAssets(c *Compilation, dir string) ([]string, error) {
	var written []string
	for _, name := range c.AssetNames() {
		a, ok := c.Asset(name)
		if !ok {
			continue
		}
		target := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, errors.OutputError(target, err)
		}
		if err := os.WriteFile(target, a.Source(), 0o644); err != nil {
			return written, errors.OutputError(target, err)
		}
		written = append(written, name)
	}
	return written, nil
}
