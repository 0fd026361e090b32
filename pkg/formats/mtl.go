package formats

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/objview/pkg/encoding"
)

// ErrNoMaterial is returned for material statements before any "newmtl".
var ErrNoMaterial = errors.New("statement outside a material")

// Material is one "newmtl" block.
type Material struct {
	Name         string
	DiffuseColor [3]float32 // Kd, white when absent
	Alpha        float32    // d, 1 when absent
	DiffuseMap   string     // map_Kd as written, empty when absent
}

// MTL is a parsed material library.
type MTL struct {
	Dir       string // directory of the source file, set by ParseMTLFile
	Materials map[string]*Material
	Order     []string // material names in file order
}

// Get returns the named material or nil.
func (m *MTL) Get(name string) *Material {
	return m.Materials[name]
}

// DiffuseMapPath returns the texture path of a material resolved next to the
// MTL file, or "" when the material has no diffuse map.
func (m *MTL) DiffuseMapPath(mat *Material) string {
	if mat == nil || mat.DiffuseMap == "" {
		return ""
	}
	return filepath.Join(m.Dir, filepath.FromSlash(normalizePath(mat.DiffuseMap)))
}

// ParseMTL parses UTF-8 MTL text. A later "newmtl" with a repeated name
// replaces the earlier definition.
func ParseMTL(r io.Reader) (*MTL, error) {
	lib := &MTL{Materials: make(map[string]*Material)}
	var cur *Material

	err := scanLines(r, func(lineNo int, line string, fields []string) error {
		key, args := fields[0], fields[1:]

		if key == "newmtl" {
			name := restOf(line, "newmtl")
			if name == "" {
				return lineError(lineNo, line, ErrMissingArgument)
			}
			cur = &Material{Name: name, DiffuseColor: [3]float32{1, 1, 1}, Alpha: 1}
			if _, dup := lib.Materials[name]; !dup {
				lib.Order = append(lib.Order, name)
			}
			lib.Materials[name] = cur
			return nil
		}

		switch key {
		case "Kd", "d", "map_Kd":
		default:
			return nil
		}
		if cur == nil {
			return lineError(lineNo, line, ErrNoMaterial)
		}

		switch key {
		case "Kd":
			f, err := parseFloats(args, 3)
			if err != nil {
				return lineError(lineNo, line, err)
			}
			cur.DiffuseColor = [3]float32{f[0], f[1], f[2]}
		case "d":
			f, err := parseFloats(args, 1)
			if err != nil {
				return lineError(lineNo, line, err)
			}
			cur.Alpha = f[0]
		case "map_Kd":
			name := mapFileName(args)
			if name == "" {
				return lineError(lineNo, line, ErrMissingArgument)
			}
			cur.DiffuseMap = name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// ParseMTLFile parses an MTL file from disk, decoding it from textEncoding
// (empty for UTF-8).
func ParseMTLFile(path, textEncoding string) (*MTL, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading MTL file: %w", err)
	}
	defer f.Close()

	r, err := encoding.NewReader(f, textEncoding)
	if err != nil {
		return nil, err
	}
	lib, err := ParseMTL(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	lib.Dir = filepath.Dir(path)
	return lib, nil
}

// String returns a short description of the material.
func (m *Material) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Kd=(%.3g %.3g %.3g) d=%.3g", m.Name, m.DiffuseColor[0], m.DiffuseColor[1], m.DiffuseColor[2], m.Alpha)
	if m.DiffuseMap != "" {
		fmt.Fprintf(&b, " map_Kd=%s", m.DiffuseMap)
	}
	return b.String()
}

// mapOptionArgs is the number of values each texture map option takes.
// -o, -s and -t take one to three numbers.
var mapOptionArgs = map[string]int{
	"-blendu": 1, "-blendv": 1, "-boost": 1, "-cc": 1, "-clamp": 1,
	"-bm": 1, "-imfchan": 1, "-texres": 1, "-type": 1,
	"-mm": 2,
	"-o": 3, "-s": 3, "-t": 3,
}

// mapFileName skips the leading options of a map_ statement and returns
// the file name, which may contain spaces.
func mapFileName(args []string) string {
	i := 0
	for i < len(args) {
		n, ok := mapOptionArgs[args[i]]
		if !ok {
			break
		}
		i++
		if n == 3 {
			for k := 0; k < 3 && i < len(args) && isNumber(args[i]); k++ {
				i++
			}
			continue
		}
		i = min(i+n, len(args))
	}
	return strings.Join(args[i:], " ")
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
