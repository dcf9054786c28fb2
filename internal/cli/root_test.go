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

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetVersion(t *testing.T) {
	SetVersion("1.0.0", "abc123", "2024-01-01")
	t.Cleanup(func() { SetVersion("", "", "") })

	if version != "1.0.0" || commit != "abc123" || date != "2024-01-01" {
		t.Errorf("SetVersion did not update version info: %q %q %q", version, commit, date)
	}
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const (
	documentJSON = `[{"id":1,"name":"first","next":{"id":3,"name":"sameChild","next":1}},` +
		`{"id":2,"name":"second","next":3}]`
	perRootJSON = `[{"id":1,"name":"first","next":{"id":3,"name":"sameChild","next":1}},` +
		`{"id":2,"name":"second","next":{"id":3,"name":"sameChild","next":{"id":1,"name":"first","next":3}}}]`
)

func TestEmit(t *testing.T) {
	graph := writeFile(t, "graph.yaml", yamlGraph)
	perRootCfg := writeFile(t, "polyref.toml", `scope = "per-root-element"`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default scope", []string{"emit", graph}, documentJSON},
		{"scope flag", []string{"emit", graph, "--scope", "per-root-element"}, perRootJSON},
		{"config file", []string{"emit", graph, "--config", perRootCfg}, perRootJSON},
		{"flag beats config", []string{"emit", graph, "--config", perRootCfg, "--scope", "document"}, documentJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("emit: %v", err)
			}
			if strings.TrimSpace(got) != tt.want {
				t.Fatalf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestEmit_Unwrap(t *testing.T) {
	graph := writeFile(t, "solo.toml", "[[nodes]]\nid = 4\nname = \"solo\"\n")

	got, err := run(t, "emit", graph, "--unwrap", "always")
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if want := `{"id":4,"name":"solo","next":null}`; strings.TrimSpace(got) != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestEmit_Errors(t *testing.T) {
	graph := writeFile(t, "graph.yaml", yamlGraph)
	tests := [][]string{
		{"emit", graph, "--scope", "galaxy"},
		{"emit", graph, "--unwrap", "sometimes"},
		{"emit", filepath.Join(t.TempDir(), "missing.yaml")},
		{"emit", writeFile(t, "graph.json", "{}")},
		{"emit"},
	}
	for _, args := range tests {
		if _, err := run(t, args...); err == nil {
			t.Errorf("run(%v) succeeded, want error", args)
		}
	}
}

func TestTags(t *testing.T) {
	got, err := run(t, "tags", "rect", "RECT", "triangle", "circle", "square")
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	want := strings.Join([]string{
		`known ids: [circle, polygon, rect, triangle]`,
		`star encodes as "five-pointed"`,
		`rect: roundedRect`,
		`RECT: unknown`,
		`triangle: triangle`,
		`circle: circle`,
		`square: unknown`,
		``,
	}, "\n")
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}

	got, err = run(t, "tags", "--case-insensitive", "RECT")
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	if !strings.HasSuffix(got, "RECT: roundedRect\n") {
		t.Fatalf("case-insensitive lookup failed:\n%s", got)
	}
}
