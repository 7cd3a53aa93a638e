// Package pack assembles the certification package: three correlated
// artifacts derived from one augmented document and one validated
// configuration. Artifacts are fully constructed in memory before anything
// touches the destination, so a failed run leaves no partial files.
package pack

import (
	"fmt"
	"os"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/apiforge/certpack/api"
	"github.com/apiforge/certpack/internal/swagger"
)

// Artifact file names within the package directory.
const (
	DefinitionFile = "apiDefinition.swagger.json"
	PropertiesFile = "apiProperties.json"
	ReadmeFile     = "README.md"
)

// PackagingError reports an artifact that could not be fully constructed or
// written. Fatal; by the time Build runs the configuration has already been
// validated, so a failure here is an internal-consistency fault rather than
// a user-facing validation error.
type PackagingError struct {
	Artifact string
	Err      error
}

func (e *PackagingError) Error() string {
	return fmt.Sprintf("packaging %s: %v", e.Artifact, e.Err)
}

func (e *PackagingError) Unwrap() error { return e.Err }

// Package holds the three fully built artifacts.
type Package struct {
	Definition []byte
	Properties []byte
	Readme     []byte
}

// Build constructs all three artifacts from the augmented document and the
// validated configuration. Nothing is written to disk.
func Build(doc *swagger.Document, cfg *api.ConnectorConfig) (*Package, error) {
	definition, err := doc.MarshalIndentJSON()
	if err != nil {
		return nil, &PackagingError{Artifact: DefinitionFile, Err: err}
	}
	properties, err := renderProperties(cfg)
	if err != nil {
		return nil, &PackagingError{Artifact: PropertiesFile, Err: err}
	}
	return &Package{
		Definition: definition,
		Properties: properties,
		Readme:     renderReadme(doc, cfg),
	}, nil
}

// WriteTo materializes the package on a filesystem. If any file fails, the
// ones already written are removed so no partial package remains.
func (p *Package) WriteTo(fsys billy.Filesystem) error {
	files := []struct {
		name string
		data []byte
	}{
		{DefinitionFile, p.Definition},
		{PropertiesFile, p.Properties},
		{ReadmeFile, p.Readme},
	}
	var written []string
	for _, f := range files {
		if err := util.WriteFile(fsys, f.name, f.data, 0o644); err != nil {
			for _, name := range written {
				_ = fsys.Remove(name)
			}
			return &PackagingError{Artifact: f.name, Err: err}
		}
		written = append(written, f.name)
	}
	return nil
}

// Write materializes the package into a directory on the OS filesystem,
// creating it if needed.
func (p *Package) Write(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PackagingError{Artifact: dir, Err: err}
	}
	return p.WriteTo(osfs.New(dir))
}
