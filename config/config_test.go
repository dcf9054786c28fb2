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

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dirpx.dev/polyref/apis"
	"dirpx.dev/polyref/config"
)

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	if got.CaseInsensitiveIDs != config.DefaultCaseInsensitiveIDs {
		t.Fatalf("CaseInsensitiveIDs = %v, want %v", got.CaseInsensitiveIDs, config.DefaultCaseInsensitiveIDs)
	}
	if got.UnwrapSingle != config.DefaultUnwrapSingle {
		t.Fatalf("UnwrapSingle = %v, want %v", got.UnwrapSingle, config.DefaultUnwrapSingle)
	}
	if got.Scope != config.DefaultScope {
		t.Fatalf("Scope = %v, want %v", got.Scope, config.DefaultScope)
	}
	if got.NameOverrides != config.DefaultNameOverrides {
		t.Fatalf("NameOverrides = %v, want %v", got.NameOverrides, config.DefaultNameOverrides)
	}
	if got.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want %d", got.MaxUnwrap, config.DefaultMaxUnwrap)
	}
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	def := config.DefaultConfig()
	got := config.NewConfig()
	if got != def {
		t.Fatalf("NewConfig() = %+v, want default %+v", got, def)
	}
}

func TestWithOptions(t *testing.T) {
	c := config.NewConfig(
		config.WithCaseInsensitiveIDs(true),
		config.WithUnwrapSingle(true),
		config.WithScope(apis.ScopePerRootElement),
		config.WithNameOverrides(false),
	)
	if !c.CaseInsensitiveIDs || !c.UnwrapSingle || c.NameOverrides {
		t.Fatalf("unexpected flags: %+v", c)
	}
	if c.Scope != apis.ScopePerRootElement {
		t.Fatalf("Scope = %v, want per-root-element", c.Scope)
	}
}

func TestWithMaxUnwrap_Negative_ResetsToDefault(t *testing.T) {
	c := config.NewConfig(config.WithMaxUnwrap(-1))
	if c.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want default %d", c.MaxUnwrap, config.DefaultMaxUnwrap)
	}
}

func TestOptionsOrder_LastWins(t *testing.T) {
	c := config.NewConfig(
		config.WithUnwrapSingle(false),
		config.WithUnwrapSingle(true),
		config.WithMaxUnwrap(2),
		config.WithMaxUnwrap(5),
	)
	if !c.UnwrapSingle {
		t.Errorf("UnwrapSingle = %v, want true (last option wins)", c.UnwrapSingle)
	}
	if c.MaxUnwrap != 5 {
		t.Errorf("MaxUnwrap = %d, want 5 (last option wins)", c.MaxUnwrap)
	}
}

func TestDecode_YAML(t *testing.T) {
	doc := []byte("case_insensitive_ids: true\nscope: per-root-element\nmax_unwrap: 3\n")
	c, err := config.Decode(doc, config.YAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !c.CaseInsensitiveIDs || c.Scope != apis.ScopePerRootElement || c.MaxUnwrap != 3 {
		t.Fatalf("unexpected config: %+v", c)
	}
	// Keys absent from the document keep their defaults.
	if c.NameOverrides != config.DefaultNameOverrides {
		t.Fatalf("NameOverrides = %v, want default", c.NameOverrides)
	}
}

func TestDecode_TOML(t *testing.T) {
	doc := []byte("unwrap_single = true\nname_overrides = false\nscope = \"document\"\n")
	c, err := config.Decode(doc, config.TOML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !c.UnwrapSingle || c.NameOverrides || c.Scope != apis.ScopeDocument {
		t.Fatalf("unexpected config: %+v", c)
	}
}

func TestDecode_BadScope(t *testing.T) {
	_, err := config.Decode([]byte("scope: sideways\n"), config.YAML)
	if !errors.Is(err, apis.ErrUnknownScope) {
		t.Fatalf("want ErrUnknownScope, got %v", err)
	}
}

func TestLoad_ByExtension(t *testing.T) {
	dir := t.TempDir()

	yml := filepath.Join(dir, "polyref.yml")
	if err := os.WriteFile(yml, []byte("unwrap_single: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := config.Load(yml)
	if err != nil || !c.UnwrapSingle {
		t.Fatalf("Load(yml) = %+v, %v", c, err)
	}

	tml := filepath.Join(dir, "polyref.toml")
	if err := os.WriteFile(tml, []byte("case_insensitive_ids = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = config.Load(tml)
	if err != nil || !c.CaseInsensitiveIDs {
		t.Fatalf("Load(toml) = %+v, %v", c, err)
	}

	if _, err := config.Load(filepath.Join(dir, "polyref.ini")); !errors.Is(err, config.ErrUnknownFormat) {
		t.Fatalf("want ErrUnknownFormat, got %v", err)
	}
}
