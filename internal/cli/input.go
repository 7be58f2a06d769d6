package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/runform/internal/domain/model"
)

// stdinPath reads the input from standard input as YAML, which also accepts JSON.
const stdinPath = "-"

// readInput decodes the file at path into v. The format follows the
// extension: .json is JSON, .yaml and .yml are YAML.
func readInput(path string, stdin io.Reader, v any) error {
	if path == stdinPath {
		return decodeYAML(stdin, path, v)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	if ext == ".json" {
		return decodeJSON(f, path, v)
	}
	return decodeYAML(f, path, v)
}

func decodeJSON(r io.Reader, path string, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &model.ValidationError{
				Field:  typeErr.Field,
				Reason: fmt.Sprintf("must be %s, got %s", typeErr.Type, typeErr.Value),
			}
		}
		return fmt.Errorf("%w %s: %w", ErrDecodeInput, path, err)
	}
	if dec.More() {
		return fmt.Errorf("%w %s: trailing data", ErrDecodeInput, path)
	}
	return nil
}

func decodeYAML(r io.Reader, path string, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrDecodeInput, path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w %s: empty document", ErrDecodeInput, path)
		}
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			if verr := yamlTypeError(data, typeErr); verr != nil {
				return verr
			}
		}
		return fmt.Errorf("%w %s: %w", ErrDecodeInput, path, err)
	}
	return nil
}

// yamlTypeMessage splits a yaml.v3 type error into its line, the offending
// value and the rest of the message.
var yamlTypeMessage = regexp.MustCompile("^line (\\d+): (cannot unmarshal \\S+(?: `([^`]*)`)? into .*)$")

// yamlTypeError reports the first value of the wrong type as invalid input
// on the key that holds it. Other errors, such as unknown keys, yield nil.
func yamlTypeError(data []byte, typeErr *yaml.TypeError) *model.ValidationError {
	for _, msg := range typeErr.Errors {
		m := yamlTypeMessage.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		line, _ := strconv.Atoi(m[1])
		field := "line " + m[1]
		var doc yaml.Node
		if yaml.Unmarshal(data, &doc) == nil {
			// yaml.v3 shortens long values, so fall back to the line alone.
			if name, ok := fieldAt(&doc, nil, line, m[3]); ok {
				field = name
			} else if name, ok := fieldAt(&doc, nil, line, ""); ok {
				field = name
			}
		}
		return &model.ValidationError{Field: field, Reason: m[2]}
	}
	return nil
}

// fieldAt returns the dotted path of the scalar holding value on line. An
// empty value matches any scalar on the line.
func fieldAt(n *yaml.Node, path []string, line int, value string) (string, bool) {
	visit := func(c *yaml.Node, p []string) (string, bool) {
		if c.Kind == yaml.ScalarNode && c.Line == line && (value == "" || c.Value == value) {
			return strings.Join(p, "."), true
		}
		return fieldAt(c, p, line, value)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			if name, ok := fieldAt(c, path, line, value); ok {
				return name, true
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			p := append(path[:len(path):len(path)], n.Content[i].Value)
			if name, ok := visit(n.Content[i+1], p); ok {
				return name, true
			}
		}
	case yaml.SequenceNode:
		for i, c := range n.Content {
			p := append(path[:len(path):len(path)], strconv.Itoa(i))
			if name, ok := visit(c, p); ok {
				return name, true
			}
		}
	}
	return "", false
}

// writeOutput encodes v as JSON.
func writeOutput(w io.Writer, pretty bool, v any) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
