package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	bzerrors "github.com/alexisbeaulieu97/bizcharts/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseDocument loads a chart document from disk and validates it. Relative
// data and output paths resolve against the document's directory.
func ParseDocument(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, bzerrors.NewParseError(path, 0, err)
	}

	doc, err := Parse(path, raw)
	if err != nil {
		return nil, err
	}
	doc.dir = filepath.Dir(path)
	return doc, nil
}

// Parse decodes and validates a document held in memory. name is used in
// error messages only.
func Parse(name string, raw []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, bzerrors.NewParseError(name, extractLine(err), err)
	}

	if err := ValidateDocument(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}
