// Package addrbook provides embedded runtime resources.
package addrbook

import (
	"embed"
	"io/fs"
)

//go:embed templates/config.yaml
var rawTemplates embed.FS

// Templates is the embedded templates filesystem with the "templates/" prefix stripped.
var Templates = mustSub(rawTemplates, "templates")

// DefaultConfigName is the name of the default config file within Templates.
const DefaultConfigName = "config.yaml"

// DefaultConfig returns the commented default config file.
func DefaultConfig() []byte {
	data, err := fs.ReadFile(Templates, DefaultConfigName)
	if err != nil {
		panic(err)
	}
	return data
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
