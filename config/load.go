/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"dirpx.dev/polyref/apis"
)

// ErrUnknownFormat is returned for config files that are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("polyref(config): unknown config format")

// Format names a config file encoding.
type Format string

const (
	// YAML selects gopkg.in/yaml.v3.
	YAML Format = "yaml"
	// TOML selects github.com/BurntSushi/toml.
	TOML Format = "toml"
)

// File is the on-disk shape of a configuration. Unset keys keep their
// defaults, so every field is optional.
type File struct {
	CaseInsensitiveIDs *bool   `yaml:"case_insensitive_ids" toml:"case_insensitive_ids"`
	UnwrapSingle       *bool   `yaml:"unwrap_single" toml:"unwrap_single"`
	Scope              *string `yaml:"scope" toml:"scope"`
	NameOverrides      *bool   `yaml:"name_overrides" toml:"name_overrides"`
	MaxUnwrap          *int    `yaml:"max_unwrap" toml:"max_unwrap"`
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads the config file at path, choosing the decoder by extension.
func Load(path string) (apis.Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return apis.Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return apis.Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := Decode(data, format)
	if err != nil {
		return apis.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses an in-memory document in the given format and applies it
// on top of DefaultConfig.
func Decode(data []byte, format Format) (apis.Config, error) {
	var f File
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return apis.Config{}, fmt.Errorf("decode yaml: %w", err)
		}
	case TOML:
		if err := toml.Unmarshal(data, &f); err != nil {
			return apis.Config{}, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return apis.Config{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	opts, err := f.Options()
	if err != nil {
		return apis.Config{}, err
	}
	return NewConfig(opts...), nil
}

// Options converts the set keys of f into functional options.
func (f File) Options() ([]Option, error) {
	var opts []Option
	if f.CaseInsensitiveIDs != nil {
		opts = append(opts, WithCaseInsensitiveIDs(*f.CaseInsensitiveIDs))
	}
	if f.UnwrapSingle != nil {
		opts = append(opts, WithUnwrapSingle(*f.UnwrapSingle))
	}
	if f.Scope != nil {
		s, err := apis.ParseScope(*f.Scope)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithScope(s))
	}
	if f.NameOverrides != nil {
		opts = append(opts, WithNameOverrides(*f.NameOverrides))
	}
	if f.MaxUnwrap != nil {
		opts = append(opts, WithMaxUnwrap(*f.MaxUnwrap))
	}
	return opts, nil
}
