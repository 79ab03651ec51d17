// Wavefront OBJ/MTL encoding and parsing.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/ivygen/pkg/math"
	"github.com/Faultbox/ivygen/pkg/mesh"
)

// OBJ format errors.
var (
	ErrExportExists = errors.New("export target already exists")
	ErrInvalidOBJ   = errors.New("invalid OBJ data")
	ErrInvalidMTL   = errors.New("invalid MTL data")
)

// OBJ is a decoded Wavefront geometry file.
type OBJ struct {
	Mesh   *mesh.Mesh // Geometry with resolved ids
	MtlLib string     // Material library named by mtllib, if any
}

// EncodeMTL writes the mesh materials as a material library.
func EncodeMTL(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	for _, mat := range m.Materials {
		fmt.Fprintf(bw, "newmtl %s\n", mat.Name)
		fmt.Fprintf(bw, "map_Kd %s\n\n", mat.TexFile)
	}
	return bw.Flush()
}

// EncodeOBJ writes the mesh geometry. Ids are written as stored, so the
// output is only meaningful for a mesh whose PrepareData succeeded.
// Faces without a material are written ungrouped first, the rest grouped by
// material in material order.
func EncodeOBJ(w io.Writer, m *mesh.Mesh, mtlLib string) error {
	bw := bufio.NewWriter(w)

	if mtlLib != "" {
		fmt.Fprintf(bw, "mtllib %s\n", mtlLib)
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %s %s %s\n", ftoa(v.Pos.X), ftoa(v.Pos.Y), ftoa(v.Pos.Z))
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %s %s %s\n", ftoa(n.Dir.X), ftoa(n.Dir.Y), ftoa(n.Dir.Z))
	}
	for _, t := range m.TexCoords {
		fmt.Fprintf(bw, "vt %s %s\n", ftoa(t.UV.X), ftoa(t.UV.Y))
	}

	hasTex := len(m.TexCoords) != 0
	hasNorm := len(m.Normals) != 0

	// Faces without a material go out first, before any usemtl.
	for i := range m.Triangles {
		if m.Triangles[i].MatID == 0 || len(m.Materials) == 0 {
			writeFace(bw, &m.Triangles[i], hasTex, hasNorm)
		}
	}
	for _, mat := range m.Materials {
		fmt.Fprintf(bw, "usemtl %s\n", mat.Name)
		for i := range m.Triangles {
			if m.Triangles[i].MatID != mat.ID {
				continue
			}
			writeFace(bw, &m.Triangles[i], hasTex, hasNorm)
		}
	}
	return bw.Flush()
}

// writeFace picks the corner format from the mesh as a whole, but omits the
// texcoord or normal reference of a corner that has none.
func writeFace(w *bufio.Writer, t *mesh.Triangle, hasTex, hasNorm bool) {
	w.WriteString("f")
	for k := 0; k < 3; k++ {
		tex := hasTex && t.T[k] != 0
		norm := hasNorm && t.N[k] != 0
		switch {
		case tex && norm:
			fmt.Fprintf(w, " %d/%d/%d", t.V[k], t.T[k], t.N[k])
		case tex:
			fmt.Fprintf(w, " %d/%d", t.V[k], t.T[k])
		case norm:
			fmt.Fprintf(w, " %d//%d", t.V[k], t.N[k])
		default:
			fmt.Fprintf(w, " %d", t.V[k])
		}
	}
	w.WriteString("\n")
}

func ftoa(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

// WriteOBJ exports the mesh as <dir>/<name>.obj plus <dir>/<name>.mtl.
// Existing files are never overwritten: if either target exists the export
// fails with ErrExportExists. A failed geometry write removes the material
// library it was paired with.
func WriteOBJ(dir, name string, m *mesh.Mesh) (objPath, mtlPath string, err error) {
	objPath = filepath.Join(dir, name+".obj")
	mtlPath = filepath.Join(dir, name+".mtl")

	for _, p := range []string{objPath, mtlPath} {
		if _, statErr := os.Stat(p); statErr == nil {
			return "", "", fmt.Errorf("%s: %w", p, ErrExportExists)
		}
	}

	if err := writeExclusive(mtlPath, func(w io.Writer) error {
		return EncodeMTL(w, m)
	}); err != nil {
		return "", "", err
	}

	if err := writeExclusive(objPath, func(w io.Writer) error {
		return EncodeOBJ(w, m, filepath.Base(mtlPath))
	}); err != nil {
		os.Remove(mtlPath)
		return "", "", err
	}

	return objPath, mtlPath, nil
}

// writeExclusive creates path (failing if it exists) and removes it again
// if encoding fails.
func writeExclusive(path string, encode func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrExportExists)
		}
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := encode(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// ParseOBJ decodes Wavefront geometry. Polygons are fan-triangulated and
// negative (relative) indices are supported. Materials referenced with
// usemtl are registered in order of first use, without texture files.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	out := &OBJ{Mesh: mesh.New()}
	m := out.Mesh
	var matID uint32

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			m.AddVertex(math.Vec3{X: v[0], Y: v[1], Z: v[2]})
		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			m.AddNormal(math.Vec3{X: v[0], Y: v[1], Z: v[2]})
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			m.AddTexCoord(math.Vec2{X: v[0], Y: v[1]})
		case "f":
			if err := parseFace(m, fields[1:], matID); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		case "usemtl":
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: usemtl without name: %w", line, ErrInvalidOBJ)
			}
			name := strings.Join(fields[1:], " ")
			matID = m.MaterialByName(name)
			if matID == 0 {
				matID = m.AddMaterial(name, "")
			}
		case "mtllib":
			if len(fields) > 1 {
				out.MtlLib = strings.Join(fields[1:], " ")
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := m.PrepareData(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOBJ, err)
	}
	return out, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d: %w", n, len(fields), ErrInvalidOBJ)
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", fields[i], ErrInvalidOBJ)
		}
		out[i] = float32(f)
	}
	return out, nil
}

type faceCorner struct {
	v, t, n uint32
}

func parseFace(m *mesh.Mesh, fields []string, matID uint32) error {
	if len(fields) < 3 {
		return fmt.Errorf("face with %d corners: %w", len(fields), ErrInvalidOBJ)
	}

	corners := make([]faceCorner, len(fields))
	for i, f := range fields {
		parts := strings.Split(f, "/")
		if len(parts) > 3 {
			return fmt.Errorf("face corner %q: %w", f, ErrInvalidOBJ)
		}
		var err error
		if corners[i].v, err = resolveIndex(parts[0], len(m.Vertices)); err != nil {
			return err
		}
		if len(parts) > 1 && parts[1] != "" {
			if corners[i].t, err = resolveIndex(parts[1], len(m.TexCoords)); err != nil {
				return err
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if corners[i].n, err = resolveIndex(parts[2], len(m.Normals)); err != nil {
				return err
			}
		}
	}

	for i := 1; i+1 < len(corners); i++ {
		c := [3]faceCorner{corners[0], corners[i], corners[i+1]}
		m.Triangles = append(m.Triangles, mesh.Triangle{
			V:     [3]uint32{c[0].v, c[1].v, c[2].v},
			T:     [3]uint32{c[0].t, c[1].t, c[2].t},
			N:     [3]uint32{c[0].n, c[1].n, c[2].n},
			MatID: matID,
		})
	}
	return nil
}

// resolveIndex converts an OBJ index (1-based, or negative relative to the
// current count) into a 1-based id.
func resolveIndex(s string, count int) (uint32, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("index %q: %w", s, ErrInvalidOBJ)
	}
	if i < 0 {
		i = count + i + 1
	}
	if i <= 0 {
		return 0, fmt.Errorf("index %q out of range: %w", s, ErrInvalidOBJ)
	}
	return uint32(i), nil
}

// ParseMTL decodes a material library. Only newmtl and map_Kd are read.
func ParseMTL(r io.Reader) ([]mesh.Material, error) {
	var mats []mesh.Material

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "newmtl":
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: newmtl without name: %w", line, ErrInvalidMTL)
			}
			mats = append(mats, mesh.Material{
				ID:   uint32(len(mats) + 1),
				Name: strings.Join(fields[1:], " "),
			})
		case "map_Kd":
			if len(mats) == 0 {
				return nil, fmt.Errorf("line %d: map_Kd before newmtl: %w", line, ErrInvalidMTL)
			}
			mats[len(mats)-1].TexFile = strings.Join(fields[1:], " ")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mats, nil
}

// LoadOBJ reads an OBJ file and, when its material library sits next to
// it, fills in the texture files of the referenced materials.
func LoadOBJ(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	obj, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if obj.MtlLib == "" {
		return obj, nil
	}

	mf, err := os.Open(filepath.Join(filepath.Dir(path), obj.MtlLib))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return obj, nil
		}
		return nil, err
	}
	defer mf.Close()

	mats, err := ParseMTL(mf)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", obj.MtlLib, err)
	}
	for _, lib := range mats {
		if id := obj.Mesh.MaterialByName(lib.Name); id != 0 {
			obj.Mesh.Materials[id-1].TexFile = lib.TexFile
		}
	}
	return obj, nil
}
