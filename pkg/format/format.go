// Package format renders node data for humans and for other tools.
package format

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// OutputFormat selects how a value is rendered.
type OutputFormat uint8

const (
	Yaml OutputFormat = iota + 1
	Json
	Toml
	StrictEncode
	Hex
	Debug
)

var formatNames = map[OutputFormat]string{
	Yaml:         "yaml",
	Json:         "json",
	Toml:         "toml",
	StrictEncode: "strict-encode",
	Hex:          "hex",
	Debug:        "debug",
}

// String returns the name of the format as accepted by ParseOutputFormat.
func (f OutputFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("OutputFormat(%d)", uint8(f))
}

// Set parses s into f, so an OutputFormat can be used as a command line
// flag value.
func (f *OutputFormat) Set(s string) error {
	parsed, err := ParseOutputFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type names the flag value type.
func (f *OutputFormat) Type() string {
	return "format"
}

// ParseOutputFormat parses a format name, case-insensitively. "yml" and
// "strict" are accepted as aliases.
func ParseOutputFormat(s string) (OutputFormat, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "yml":
		return Yaml, nil
	case "strict", "bin", "binary":
		return StrictEncode, nil
	}
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return 0, rgb.Errorf(rgb.ErrParse, "unknown output format %q", s)
}

// Render writes v to w in format f. Binary formats are written as is.
func Render(w io.Writer, f OutputFormat, v any) error {
	var (
		data []byte
		err  error
	)
	switch f {
	case Yaml:
		data, err = yaml.Marshal(v)
	case Json:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	case Toml:
		data, err = toml.Marshal(v)
	case StrictEncode:
		data, err = rgb.Encode(v)
	case Hex:
		data, err = rgb.Encode(v)
		data = []byte(hex.EncodeToString(data) + "\n")
	case Debug:
		data = []byte(fmt.Sprintf("%+v\n", v))
	default:
		return rgb.Errorf(rgb.ErrUnsupported, "unsupported output format %s", f)
	}
	if err != nil {
		return rgb.WrapError(rgb.ErrEncoding, err, "render "+f.String())
	}

	if _, err := w.Write(data); err != nil {
		return rgb.WrapError(rgb.ErrIO, err, "write output")
	}
	return nil
}
