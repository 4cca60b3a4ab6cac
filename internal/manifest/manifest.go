// Package manifest inspects the declared contents of a composer.json file.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/flarebyte/composer-guard/internal/taskctx"
)

// ErrLocalRepositoryDeclared is returned when a repository of type "path" is declared.
var ErrLocalRepositoryDeclared = errors.New("at least one local repository is declared")

// FileNotFoundError reports a manifest that vanished after the context was built.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("the %s file could not be found", e.Path)
}

// ParseError reports manifest content that is not a JSON object.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid manifest %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadError reports a manifest that exists but could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read manifest %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Repository is one entry of the repositories list. Only the type matters here.
type Repository struct {
	Type string
}

// Document is the subset of composer.json the checks read.
type Document struct {
	Repositories []Repository
}

// Parse decodes manifest content. repositories may be a list or an object
// keyed by name; object entries keep the order they were written in. Entries
// that are not objects, such as {"packagist.org": false}, are skipped.
func Parse(data []byte) (Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return Document{}, err
	}
	if top == nil {
		return Document{}, errors.New("manifest is not a JSON object")
	}
	raw, ok := top["repositories"]
	if !ok {
		return Document{}, nil
	}
	entries, err := repositoryEntries(raw)
	if err != nil {
		return Document{}, fmt.Errorf("repositories: %w", err)
	}
	var doc Document
	for i, e := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(e, &fields); err != nil || fields == nil {
			continue
		}
		var r Repository
		if t, ok := fields["type"]; ok {
			if err := json.Unmarshal(t, &r.Type); err != nil {
				return Document{}, fmt.Errorf("repositories[%d].type: must be a string", i)
			}
		}
		doc.Repositories = append(doc.Repositories, r)
	}
	return doc, nil
}

// repositoryEntries returns the raw entries of a list or object in document order.
func repositoryEntries(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	case '{':
		return orderedObjectValues(trimmed)
	default:
		return nil, errors.New("expected a list or an object")
	}
}

// orderedObjectValues walks a JSON object token by token so values come back
// in the order they appear rather than map order.
func orderedObjectValues(obj []byte) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(obj))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var out []json.RawMessage
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return out, nil
}

// HasLocalRepository reports whether any repository is of type "path".
func (d Document) HasLocalRepository() bool {
	for _, r := range d.Repositories {
		if r.Type == "path" {
			return true
		}
	}
	return false
}

// Check fails if f no longer exists, cannot be read or parsed, or declares a
// local path repository.
func Check(f *taskctx.File) error {
	if !f.Exists() {
		return &FileNotFoundError{Path: f.RelativePath()}
	}
	data, err := f.Contents()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &FileNotFoundError{Path: f.RelativePath()}
	case err != nil:
		return &ReadError{Path: f.RelativePath(), Err: err}
	}
	doc, err := Parse(data)
	if err != nil {
		return &ParseError{Path: f.RelativePath(), Err: err}
	}
	if doc.HasLocalRepository() {
		return ErrLocalRepositoryDeclared
	}
	return nil
}
