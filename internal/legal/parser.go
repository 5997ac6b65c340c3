package legal

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// Meta is the flat key:value header of a legal document. Unknown keys are
// ignored; values may be quoted.
type Meta struct {
	ID            string `yaml:"id"`
	Version       string `yaml:"version"`
	LastUpdated   string `yaml:"last_updated"`
	DocumentTitle string `yaml:"document_title"`
}

var ErrNoHeader = errors.New("legal: missing metadata header")

// ParseDocument splits the ----delimited metadata header from the body.
// Both the runtime loader and the legal-manifest command go through this
// function, so their parse rules cannot drift.
func ParseDocument(raw []byte) (Meta, []byte, error) {
	norm := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	norm = bytes.ReplaceAll(norm, []byte("\r"), []byte("\n"))
	norm = bytes.TrimLeft(norm, "\n \t")

	const (
		sep      = "---"
		sepLine  = sep + "\n"
		closeMid = "\n" + sep + "\n"
	)

	if !bytes.HasPrefix(norm, []byte(sepLine)) {
		return Meta{}, nil, ErrNoHeader
	}
	rest := norm[len(sepLine):]

	var headPart, bodyPart []byte
	if parts := bytes.SplitN(rest, []byte(closeMid), 2); len(parts) == 2 {
		headPart = parts[0]
		bodyPart = parts[1]
	} else if bytes.HasSuffix(rest, []byte("\n"+sep)) {
		headPart = rest[:len(rest)-len("\n"+sep)]
	} else {
		return Meta{}, nil, ErrNoHeader
	}

	var m Meta
	if err := yaml.Unmarshal(bytes.TrimSpace(headPart), &m); err != nil {
		return Meta{}, nil, err
	}
	return m, bodyPart, nil
}

// StripLeadingHeading removes at most one top-level markdown heading from
// the start of body. The page chrome renders its own h1 from the title.
func StripLeadingHeading(body []byte) []byte {
	body = bytes.TrimLeft(body, "\n \t")
	if !bytes.HasPrefix(body, []byte("# ")) {
		return body
	}
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		return bytes.TrimLeft(body[i+1:], "\n")
	}
	return nil
}
