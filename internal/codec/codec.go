// ABOUTME: JSON import/export of the full task list
// ABOUTME: Export writes an indented array without ids; import validates everything before inserting

package codec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/2389/taskboard/internal/store"
)

// Indent is the per-level indentation of exported documents.
const Indent = "    "

// MaxDocumentSize bounds how much Import reads from its input.
const MaxDocumentSize = 10 << 20

// Record is one element of an exported document.
type Record struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// ErrMissingField is wrapped by a ParseError when an element lacks a
// required key.
var ErrMissingField = errors.New("missing required field")

// ParseError reports why a document could not be imported. Index is the
// offending array element, or -1 when the document as a whole is at fault.
// An element with a blank title is a validation failure: its ParseError
// wraps the *store.ValidationError, so errors.As and errors.Is with
// store.ErrEmptyTitle see through it.
type ParseError struct {
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("parsing tasks document: %v", e.Err)
	}
	return fmt.Sprintf("parsing tasks document: element %d: %v", e.Index, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Lister is the part of a store session Export needs.
type Lister interface {
	ListTasks(ctx context.Context) ([]*store.Task, error)
}

// Creator is the part of a store session Import needs.
type Creator interface {
	CreateTasks(ctx context.Context, drafts []store.Draft) ([]*store.Task, error)
}

// Encode renders tasks as an indented JSON array in the given order.
// Non-ASCII text and HTML characters are written verbatim.
func Encode(tasks []*store.Task) ([]byte, error) {
	records := make([]Record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, Record{
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encoding tasks: %w", err)
	}
	return buf.Bytes(), nil
}

// Export serializes every task in store order.
func Export(ctx context.Context, l Lister) ([]byte, error) {
	tasks, err := l.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return Encode(tasks)
}

// element mirrors Record with pointers so absent keys can be told apart
// from empty strings. Completed is deliberately absent: imports always
// start pending.
type element struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// DecodeDrafts parses a document into drafts without touching a store.
// Every element is checked, so a nil error means the whole document is
// importable.
func DecodeDrafts(r io.Reader) ([]store.Draft, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, &ParseError{Index: -1, Err: fmt.Errorf("reading document: %w", err)}
	}
	if len(data) > MaxDocumentSize {
		return nil, &ParseError{Index: -1, Err: fmt.Errorf("document larger than %d bytes", MaxDocumentSize)}
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Index: -1, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if _, ok := raw.([]any); !ok {
		return nil, &ParseError{Index: -1, Err: errors.New("document must be a JSON array")}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}

	drafts := make([]store.Draft, 0, len(items))
	for i, item := range items {
		if t := bytes.TrimSpace(item); len(t) == 0 || t[0] != '{' {
			return nil, &ParseError{Index: i, Err: errors.New("element must be an object")}
		}

		var el element
		if err := json.Unmarshal(item, &el); err != nil {
			return nil, &ParseError{Index: i, Err: err}
		}
		if el.Title == nil {
			return nil, &ParseError{Index: i, Err: fmt.Errorf("%w: title", ErrMissingField)}
		}
		if el.Description == nil {
			return nil, &ParseError{Index: i, Err: fmt.Errorf("%w: description", ErrMissingField)}
		}

		d := store.Draft{Title: *el.Title, Description: *el.Description}
		if err := d.Validate(); err != nil {
			return nil, &ParseError{Index: i, Err: err}
		}
		drafts = append(drafts, d)
	}

	return drafts, nil
}

// Import parses the document and inserts one pending task per element, in
// document order. Either every element is inserted or none is.
func Import(ctx context.Context, c Creator, r io.Reader) ([]*store.Task, error) {
	drafts, err := DecodeDrafts(r)
	if err != nil {
		return nil, err
	}

	tasks, err := c.CreateTasks(ctx, drafts)
	if err != nil {
		return nil, fmt.Errorf("importing tasks: %w", err)
	}
	return tasks, nil
}

// WriteFile writes an exported document to path atomically via a
// temporary file in the same directory.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("writing export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("renaming export: %w", err)
	}
	return nil
}
