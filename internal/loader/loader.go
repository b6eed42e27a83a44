// ABOUTME: Reads catalog files from disk or stdin into document Values
// ABOUTME: Picks JSON or YAML from the flag, the extension, or the content
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/plugincheck/catalint/internal/document"
)

// StdinPath is the argument that selects standard input
const StdinPath = "-"

// Format is a catalog encoding
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats returns the accepted --input-format values
func Formats() []Format {
	return []Format{FormatAuto, FormatJSON, FormatYAML}
}

// ParseFormat validates a format name. The empty string means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown input format %q (valid: auto, json, yaml)", s)
}

// DetectFormat picks a format from a file extension, falling back to JSON
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// sniffFormat guesses the format of unnamed input from its first
// significant byte
func sniffFormat(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) == 0 || trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatYAML
}

// stdin is swapped out by tests
var stdin io.Reader = os.Stdin

// Load reads and decodes the catalog at path. StdinPath reads standard
// input. The returned Format is the one actually used for decoding.
func Load(path string, format Format) (document.Value, Format, error) {
	if path == StdinPath {
		return LoadReader(stdin, "<stdin>", format)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return document.Value{}, "", &NotFoundError{Path: path}
		}
		return document.Value{}, "", fmt.Errorf("read catalog: %w", err)
	}

	if format == "" || format == FormatAuto {
		format = DetectFormat(path)
	}
	return decode(data, path, format)
}

// LoadReader decodes a catalog from r. name is used in error messages.
// With FormatAuto the content decides between JSON and YAML.
func LoadReader(r io.Reader, name string, format Format) (document.Value, Format, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return document.Value{}, "", fmt.Errorf("read %s: %w", name, err)
	}
	if format == "" || format == FormatAuto {
		format = sniffFormat(data)
	}
	return decode(data, name, format)
}

func decode(data []byte, name string, format Format) (document.Value, Format, error) {
	var (
		v   document.Value
		err error
	)
	switch format {
	case FormatJSON:
		v, err = document.DecodeJSON(bytes.NewReader(data))
	case FormatYAML:
		v, err = document.DecodeYAML(bytes.NewReader(data))
	default:
		return document.Value{}, "", fmt.Errorf("unsupported input format %q", format)
	}
	if err != nil {
		return document.Value{}, format, &ParseError{
			Path:   name,
			Format: format,
			Line:   errorLine(data, err),
			Err:    err,
		}
	}
	return v, format, nil
}

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// errorLine locates a decode error in data when the decoder says where
func errorLine(data []byte, err error) int {
	var syntaxErr *document.SyntaxError
	if errors.As(err, &syntaxErr) {
		return lineAt(data, syntaxErr.Offset)
	}
	if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

func lineAt(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}
