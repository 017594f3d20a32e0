package htmlplugin

// DefaultFilename is the output name used when Options.Filename is empty.
const DefaultFilename = "index.html"

// DefaultTemplate is used when Options.Template is empty.
const DefaultTemplate = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Application</title>
  </head>
  <body>
  </body>
</html>
`

// Options configure one generated page.
type Options struct {
	Filename      string   `yaml:"filename,omitempty"`
	Title         string   `yaml:"title,omitempty"`
	Template      string   `yaml:"template,omitempty"`
	Chunks        []string `yaml:"chunks,omitempty"`
	ExcludeChunks []string `yaml:"exclude_chunks,omitempty"`
	PublicPath    string   `yaml:"public_path,omitempty"`
}

func (o Options) withDefaults() Options {
	if o.Filename == "" {
		o.Filename = DefaultFilename
	}
	if o.Template == "" {
		o.Template = DefaultTemplate
	}
	return o
}

func (o Options) includes(entry string) bool {
	for _, ex := range o.ExcludeChunks {
		if ex == entry {
			return false
		}
	}
	if o.Chunks == nil {
		return true
	}
	for _, name := range o.Chunks {
		if name == entry {
			return true
		}
	}
	return false
}
