package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-view/engine/model"
)

var (
	// ErrFetch is returned when a mesh source cannot be retrieved.
	ErrFetch = errors.New("mesh fetch failed")
	// ErrParse is returned when mesh text contains a malformed record.
	ErrParse = errors.New("mesh parse failed")
)

// maxLineSize bounds a single record line. Face lines on dense n-gons can exceed bufio's 64 KiB default.
const maxLineSize = 1 << 20

var (
	defaultNormal = [3]float32{0, 0, 1}
	defaultUV     = [2]float32{0, 0}
)

// ParseError describes a malformed record. It matches ErrParse under errors.Is and
// unwraps to the underlying cause (e.g. a *strconv.NumError) when there is one.
type ParseError struct {
	// Line is the 1-based line number of the offending record.
	Line int
	// Msg describes what was wrong with the record.
	Msg string
	// Err is the underlying cause, or nil.
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s in line:%d: %v", e.Msg, e.Line, e.Err)
	}
	return fmt.Sprintf("%s in line:%d", e.Msg, e.Line)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// VertexKey identifies one distinct attribute combination referenced by a face vertex token.
// Indices are kept exactly as written (1-based); zero means the component was absent.
type VertexKey struct {
	Position int
	UV       int
	Normal   int
}

// faceVertex is a face token waiting for resolution against the final attribute tables.
type faceVertex struct {
	key  VertexKey
	line int
}

// objParser accumulates raw attribute tables and fan-triangulated face vertices.
// Faces are resolved after the whole stream is read so that forward references resolve.
type objParser struct {
	positions [][3]float32
	normals   [][3]float32
	uvs       [][2]float32

	// triangles holds face vertices in emission order, three per triangle.
	triangles []faceVertex

	warnings []string
}

// Parse reads mesh-description text and produces a deduplicated MeshData.
// Recognized records are v, vt, vn and f. Any other leading token, comments and
// blank lines are skipped. Malformed numeric tokens and faces referencing missing
// positions fail with an error matching ErrParse. Relative (negative) indices are not
// supported: a negative position index fails, negative uv and normal indices fall back
// to the defaults.
//
// Parameters:
//   - r: the text source
//
// Returns:
//   - *model.MeshData: the parsed mesh
//   - error: a *ParseError on malformed input, or the reader's error
func Parse(r io.Reader) (*model.MeshData, error) {
	mesh, _, err := parse(r)
	return mesh, err
}

// parse is Parse that also returns the list of skipped-record warnings.
func parse(r io.Reader) (*model.MeshData, []string, error) {
	p := &objParser{}
	if err := p.read(r); err != nil {
		return nil, p.warnings, err
	}
	mesh, err := p.resolve()
	return mesh, p.warnings, err
}

func (p *objParser) read(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		var err error
		switch ltype := fields[0]; ltype {
		case "v":
			var v [3]float32
			if err = parseFloats(fields[1:], v[:], 3, lineNo, "position"); err == nil {
				p.positions = append(p.positions, v)
			}
		case "vn":
			var n [3]float32
			if err = parseFloats(fields[1:], n[:], 3, lineNo, "normal"); err == nil {
				p.normals = append(p.normals, n)
			}
		case "vt":
			var uv [2]float32
			if err = parseFloats(fields[1:], uv[:], 1, lineNo, "uv"); err == nil {
				p.uvs = append(p.uvs, uv)
			}
		case "f":
			err = p.readFace(fields[1:], lineNo)
		default:
			p.warnings = append(p.warnings, fmt.Sprintf("unsupported record %q in line:%d", ltype, lineNo))
		}
		if err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return &ParseError{Line: lineNo + 1, Msg: "record too long", Err: err}
		}
		return err
	}
	return nil
}

// parseFloats parses up to len(dst) tokens into dst. At least required tokens must be present;
// missing optional components keep their zero value and extra tokens (e.g. a w component) are ignored.
func parseFloats(tokens []string, dst []float32, required, lineNo int, what string) error {
	if len(tokens) < required {
		return &ParseError{Line: lineNo, Msg: fmt.Sprintf("%s needs %d components, got %d", what, required, len(tokens))}
	}
	for i := range dst {
		if i >= len(tokens) {
			break
		}
		f, err := strconv.ParseFloat(tokens[i], 32)
		if err != nil {
			return &ParseError{Line: lineNo, Msg: fmt.Sprintf("invalid %s component %q", what, tokens[i]), Err: err}
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &ParseError{Line: lineNo, Msg: fmt.Sprintf("non-finite %s component %q", what, tokens[i])}
		}
		dst[i] = float32(f)
	}
	return nil
}

// readFace parses the vertex tokens of one polygon and fan-triangulates it around its first vertex.
func (p *objParser) readFace(tokens []string, lineNo int) error {
	if len(tokens) < 3 {
		return &ParseError{Line: lineNo, Msg: fmt.Sprintf("face needs at least 3 vertices, got %d", len(tokens))}
	}

	verts := make([]faceVertex, len(tokens))
	for i, tok := range tokens {
		key, err := parseVertexKey(tok, lineNo)
		if err != nil {
			return err
		}
		verts[i] = faceVertex{key: key, line: lineNo}
	}

	for i := 1; i < len(verts)-1; i++ {
		p.triangles = append(p.triangles, verts[0], verts[i], verts[i+1])
	}
	return nil
}

// parseVertexKey splits a face token of the form pos[/uv[/normal]] into its written indices.
// Empty components (as in "1//3") are reported as zero.
func parseVertexKey(tok string, lineNo int) (VertexKey, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return VertexKey{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("invalid face vertex %q", tok)}
	}

	var idx [3]int
	for i, part := range parts {
		if part == "" {
			if i == 0 {
				return VertexKey{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("face vertex %q has no position index", tok)}
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return VertexKey{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("invalid index in face vertex %q", tok), Err: err}
		}
		idx[i] = n
	}
	return VertexKey{Position: idx[0], UV: idx[1], Normal: idx[2]}, nil
}

// resolve turns the buffered face vertices into output slots, allocating one slot per distinct VertexKey.
func (p *objParser) resolve() (*model.MeshData, error) {
	mesh := &model.MeshData{
		Positions: make([][3]float32, 0, len(p.triangles)),
		Normals:   make([][3]float32, 0, len(p.triangles)),
		UVs:       make([][2]float32, 0, len(p.triangles)),
		Indices:   make([]uint32, 0, len(p.triangles)),
	}
	slots := make(map[VertexKey]uint32, len(p.triangles))

	for _, fv := range p.triangles {
		slot, seen := slots[fv.key]
		if !seen {
			pi := fv.key.Position - 1
			if pi < 0 || pi >= len(p.positions) {
				return nil, &ParseError{Line: fv.line, Msg: fmt.Sprintf("position index %d out of range [1,%d]", fv.key.Position, len(p.positions))}
			}

			normal := defaultNormal
			if ni := fv.key.Normal - 1; ni >= 0 && ni < len(p.normals) {
				normal = p.normals[ni]
			}
			uv := defaultUV
			if ti := fv.key.UV - 1; ti >= 0 && ti < len(p.uvs) {
				uv = p.uvs[ti]
			}

			slot = uint32(len(mesh.Positions))
			mesh.Positions = append(mesh.Positions, p.positions[pi])
			mesh.Normals = append(mesh.Normals, normal)
			mesh.UVs = append(mesh.UVs, uv)
			slots[fv.key] = slot
		}
		mesh.Indices = append(mesh.Indices, slot)
	}
	return mesh, nil
}
