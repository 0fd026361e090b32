// objtool is a CLI utility for inspecting Wavefront OBJ/MTL files and the
// indexed meshes built from them.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/objview/pkg/encoding"
	"github.com/Faultbox/objview/pkg/formats"
	"github.com/Faultbox/objview/pkg/mesh"
)

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(command string, args []string, w io.Writer) error {
	switch command {
	case "info":
		return cmdInfo(args, w)
	case "materials", "mtl":
		return cmdMaterials(args, w)
	case "index":
		return cmdIndex(args, w)
	case "help", "-h", "--help":
		printUsage(w)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		return errUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, usage, strings.Join(encoding.Names(), ", "))
}

const usage = `objtool - Wavefront OBJ/MTL inspection utility

Usage:
  objtool <command> [options] <file.obj>

Commands:
  info <file.obj>                  Show groups, raw and indexed counts
  materials <file.obj>             Resolve materials and texture paths
  index [-yaml] <file.obj> [group] Dump the indexed mesh of a group

Options:
  -encoding <name>                 Text encoding of the OBJ/MTL files
                                   (%s)

Examples:
  objtool info models/cube.obj
  objtool materials -encoding cp1251 scene.obj
  objtool index -yaml cube.obj 0
`

// parse reads the OBJ named by the first positional argument.
func parse(name string, args []string, extra func(*flag.FlagSet)) (*formats.OBJ, *flag.FlagSet, string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	enc := fs.String("encoding", encoding.Default, "Text encoding of the OBJ/MTL files")
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, "", errUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: objtool %s <file.obj>\n", name)
		return nil, nil, "", errUsage
	}
	obj, err := formats.ParseOBJFile(fs.Arg(0), *enc)
	if err != nil {
		return nil, nil, "", err
	}
	return obj, fs, *enc, nil
}

func cmdInfo(args []string, w io.Writer) error {
	obj, fs, _, err := parse("info", args, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "File:      %s\n", fs.Arg(0))
	if obj.MaterialLib != "" {
		fmt.Fprintf(w, "Materials: %s\n", obj.MaterialLib)
	}
	fmt.Fprintf(w, "Groups:    %d\n", len(obj.Groups))
	fmt.Fprintf(w, "Positions: %d\n", obj.VertexCount())
	fmt.Fprintf(w, "Faces:     %d\n", obj.FaceCount())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-3s %-16s %6s %6s %6s %6s %8s %8s %6s\n",
		"#", "material", "v", "vt", "vn", "faces", "vertices", "indices", "splits")

	var totalVerts, totalSplits int
	for i, g := range obj.Groups {
		m, err := build(g)
		if err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
		totalVerts += m.VertexCount()
		totalSplits += m.Splits
		fmt.Fprintf(w, "  %-3d %-16s %6d %6d %6d %6d %8d %8d %6d\n",
			i, label(g.Material), len(g.Positions), len(g.TexCoords), len(g.Normals),
			g.FaceCount(), m.VertexCount(), len(m.Indices), m.Splits)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Indexed vertices: %d (%d split)\n", totalVerts, totalSplits)
	return nil
}

func cmdMaterials(args []string, w io.Writer) error {
	obj, _, enc, err := parse("materials", args, nil)
	if err != nil {
		return err
	}
	if obj.MaterialLib == "" {
		fmt.Fprintln(w, "No material library")
		return nil
	}

	lib, err := formats.ParseMTLFile(obj.MaterialLibPath(), enc)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Library: %s (%d materials)\n", obj.MaterialLibPath(), len(lib.Order))

	var missing int
	for _, name := range obj.Materials() {
		mat := lib.Get(name)
		if mat == nil {
			fmt.Fprintf(w, "  %-16s MISSING\n", name)
			missing++
			continue
		}
		fmt.Fprintf(w, "  %s\n", mat)
		if tex := lib.DiffuseMapPath(mat); tex != "" {
			status := "ok"
			if _, err := os.Stat(tex); err != nil {
				status = "not found"
			}
			fmt.Fprintf(w, "    texture %s (%s)\n", tex, status)
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d material(s) used but not defined", missing)
	}
	return nil
}

// indexDump is the serialized form of one indexed group.
type indexDump struct {
	Group     int          `yaml:"group"`
	Material  string       `yaml:"material,omitempty"`
	Splits    int          `yaml:"splits"`
	Positions [][3]float32 `yaml:"positions,flow"`
	UVs       [][2]float32 `yaml:"uvs,flow"`
	Indices   []uint32     `yaml:"indices,flow"`
}

func cmdIndex(args []string, w io.Writer) error {
	var asYAML *bool
	obj, fs, _, err := parse("index", args, func(fs *flag.FlagSet) {
		asYAML = fs.Bool("yaml", false, "Print YAML instead of text")
	})
	if err != nil {
		return err
	}

	groups := make([]int, 0, len(obj.Groups))
	if fs.NArg() > 1 {
		n, err := strconv.Atoi(fs.Arg(1))
		if err != nil || n < 0 || n >= len(obj.Groups) {
			return fmt.Errorf("group %q out of range (file has %d)", fs.Arg(1), len(obj.Groups))
		}
		groups = append(groups, n)
	} else {
		for i := range obj.Groups {
			groups = append(groups, i)
		}
	}

	dumps := make([]indexDump, 0, len(groups))
	for _, i := range groups {
		g := obj.Groups[i]
		m, err := build(g)
		if err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
		d := indexDump{Group: i, Material: g.Material, Splits: m.Splits, Indices: m.Indices}
		for j, p := range m.Positions {
			d.Positions = append(d.Positions, [3]float32{p.X, p.Y, p.Z})
			d.UVs = append(d.UVs, [2]float32{m.UVs[j].X, m.UVs[j].Y})
		}
		dumps = append(dumps, d)
	}

	if *asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(dumps); err != nil {
			enc.Close()
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	}

	for _, d := range dumps {
		fmt.Fprintf(w, "group %d %s: %d vertices, %d triangles, %d split\n",
			d.Group, label(d.Material), len(d.Positions), len(d.Indices)/3, d.Splits)
		for j, p := range d.Positions {
			fmt.Fprintf(w, "  v%-4d %9.4f %9.4f %9.4f  uv %7.4f %7.4f\n", j, p[0], p[1], p[2], d.UVs[j][0], d.UVs[j][1])
		}
		for j := 0; j+2 < len(d.Indices); j += 3 {
			fmt.Fprintf(w, "  f%-4d %d %d %d\n", j/3, d.Indices[j], d.Indices[j+1], d.Indices[j+2])
		}
	}
	return nil
}

// build indexes a group, with UV splitting when every corner has a texture
// coordinate.
func build(g *formats.OBJGroup) (*mesh.IndexedMesh, error) {
	if g.Textured() {
		return mesh.BuildIndexedMesh(g.Positions, g.TexCoords, g.Corners)
	}
	return mesh.BuildPositionMesh(g.Positions, g.Corners)
}

func label(material string) string {
	if material == "" {
		return "(none)"
	}
	return material
}
