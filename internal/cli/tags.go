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
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"dirpx.dev/polyref"
	"dirpx.dev/polyref/apis"
	"dirpx.dev/polyref/config"
	"dirpx.dev/polyref/discovery"
)

// The demo shape hierarchy. RoundedRect embeds Rect and shares its id, so
// decoding "rect" picks the more specific RoundedRect.
type (
	shape interface{ area() float64 }

	circle      struct{ R float64 }
	rect        struct{ W, H float64 }
	roundedRect struct {
		rect
		Radius float64
	}
	triangle struct{ B, H float64 }
	polygon  struct{ Sides int }
	star     struct{ Points int }
)

func (c circle) area() float64   { return 3.14159 * c.R * c.R }
func (r rect) area() float64     { return r.W * r.H }
func (t triangle) area() float64 { return t.B * t.H / 2 }
func (polygon) area() float64    { return 0 }
func (star) area() float64       { return 0 }

// TypeTag names star, which is neither declared nor discovered.
func (star) TypeTag() string { return "five-pointed" }

var shapeType = reflect.TypeFor[shape]()

// demoShapes declares circle, rect and roundedRect and discovers triangle
// and polygon at build time.
func demoShapes() *discovery.Table {
	return discovery.NewTable().
		Declare(shapeType,
			apis.NamedType{Type: reflect.TypeFor[circle](), Name: "circle"},
			apis.NamedType{Type: reflect.TypeFor[rect](), Name: "rect"},
			apis.NamedType{Type: reflect.TypeFor[roundedRect](), Name: "rect"},
		).
		Name(reflect.TypeFor[triangle](), "triangle").
		Provide(shapeType, func() ([]reflect.Type, error) {
			return []reflect.Type{reflect.TypeFor[triangle](), reflect.TypeFor[polygon]()}, nil
		})
}

func newTagsCmd() *cobra.Command {
	var caseInsensitive bool

	cmd := &cobra.Command{
		Use:   "tags [ids...]",
		Short: "List the demo shape type ids and resolve ids to types",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			m := polyref.New(
				polyref.WithConfig(config.NewConfig(config.WithCaseInsensitiveIDs(caseInsensitive))),
				polyref.WithCollector(demoShapes()),
				polyref.WithLogger(logger),
			)
			des, err := m.TypeIDResolver(shapeType, false)
			if err != nil {
				return err
			}
			ser, err := m.TypeIDResolver(shapeType, true)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "known ids: %s\n", des.DescribeKnownIDs())
			fmt.Fprintf(out, "star encodes as %q\n", ser.IDForType(reflect.TypeFor[star]()))
			for _, id := range args {
				t, ok := des.TypeForID(id)
				if !ok {
					fmt.Fprintf(out, "%s: unknown\n", id)
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", id, t.Name())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&caseInsensitive, "case-insensitive", false, "fold ids to lower case before lookup")
	return cmd
}
