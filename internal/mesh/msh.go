// Package mesh reads Gmsh .msh files and writes STL facetings.
package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/fusion-tools/facet/pkg/types"
)

// Mesh reading errors.
var (
	ErrFormat      = errors.New("malformed msh file")
	ErrUnsupported = errors.New("unsupported msh file")
)

// File is the parsed content of a Gmsh .msh file, reduced to what the
// composer needs: nodes, triangulated surface entities, and volume
// entities with their bounding-surface adjacency.
type File struct {
	Nodes    []vec3.T
	Surfaces []SurfaceBlock
	Volumes  []VolumeBlock
}

// SurfaceBlock is one surface entity and its triangles. Triangle indices
// refer to File.Nodes.
type SurfaceBlock struct {
	Tag       int
	Triangles []types.Triangle
}

// VolumeBlock is one volume entity. Surface tags keep the sign from the
// file: Gmsh negates a tag when the surface is used with reversed
// orientation relative to the volume.
type VolumeBlock struct {
	Tag         int
	SurfaceTags []int
}

// nodesPerElement maps Gmsh element type codes to node counts, for the
// element types that appear in 2D/3D meshes. Triangles (type 2) are kept;
// everything else is skipped.
var nodesPerElement = map[int]int{
	1:  2,  // 2-node line
	2:  3,  // 3-node triangle
	3:  4,  // 4-node quadrangle
	4:  4,  // 4-node tetrahedron
	5:  8,  // 8-node hexahedron
	6:  6,  // 6-node prism
	7:  5,  // 5-node pyramid
	8:  3,  // 3-node second order line
	9:  6,  // 6-node second order triangle
	11: 10, // 10-node second order tetrahedron
	15: 1,  // 1-node point
}

const triangleType = 2

// ReadFile parses the .msh file at path.
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return m, nil
}

// Read parses ASCII Gmsh format 4.1 from r. Sections other than
// $MeshFormat, $Entities, $Nodes, and $Elements are skipped.
func Read(r io.Reader) (*File, error) {
	tk := newTokens(r)
	p := &parser{tk: tk, nodeIndex: make(map[int]int), surfaceIndex: make(map[int]int)}

	for {
		tok, err := tk.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(tok, "$") {
			return nil, fmt.Errorf("%w: expected section, got %q", ErrFormat, tok)
		}
		section := tok[1:]
		switch section {
		case "MeshFormat":
			err = p.readMeshFormat()
		case "Entities":
			err = p.readEntities()
		case "Nodes":
			err = p.readNodes()
		case "Elements":
			err = p.readElements()
		default:
			if err := p.skipSection(section); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := p.expectEnd(section); err != nil {
			return nil, err
		}
	}
	if !p.sawFormat {
		return nil, fmt.Errorf("%w: missing $MeshFormat", ErrFormat)
	}
	return &p.file, nil
}

type parser struct {
	tk           *tokens
	file         File
	sawFormat    bool
	nodeIndex    map[int]int // node tag -> index into file.Nodes
	surfaceIndex map[int]int // surface tag -> index into file.Surfaces
}

func (p *parser) expectEnd(section string) error {
	tok, err := p.tk.next()
	if err != nil {
		return fmt.Errorf("%w: unterminated $%s", ErrFormat, section)
	}
	if tok != "$End"+section {
		return fmt.Errorf("%w: expected $End%s, got %q", ErrFormat, section, tok)
	}
	return nil
}

func (p *parser) skipSection(section string) error {
	end := "$End" + section
	for {
		tok, err := p.tk.next()
		if err != nil {
			return fmt.Errorf("%w: unterminated $%s", ErrFormat, section)
		}
		if tok == end {
			return nil
		}
	}
}

func (p *parser) readMeshFormat() error {
	version, err := p.tk.float()
	if err != nil {
		return err
	}
	if version != 4.1 {
		return fmt.Errorf("%w: msh format %.1f, need 4.1", ErrUnsupported, version)
	}
	fileType, err := p.tk.int()
	if err != nil {
		return err
	}
	if fileType != 0 {
		return fmt.Errorf("%w: binary msh", ErrUnsupported)
	}
	if _, err := p.tk.int(); err != nil { // data size, unused
		return err
	}
	p.sawFormat = true
	return nil
}

func (p *parser) readEntities() error {
	nPoints, err := p.tk.int()
	if err != nil {
		return err
	}
	nCurves, err := p.tk.int()
	if err != nil {
		return err
	}
	nSurfaces, err := p.tk.int()
	if err != nil {
		return err
	}
	nVolumes, err := p.tk.int()
	if err != nil {
		return err
	}

	// Points: tag, x, y, z, physical tags.
	for i := 0; i < nPoints; i++ {
		if _, err := p.tk.int(); err != nil {
			return err
		}
		if err := p.tk.skipFloats(3); err != nil {
			return err
		}
		if err := p.skipCounted(); err != nil {
			return err
		}
	}
	// Curves: tag, bbox, physical tags, bounding points.
	for i := 0; i < nCurves; i++ {
		if _, err := p.tk.int(); err != nil {
			return err
		}
		if err := p.tk.skipFloats(6); err != nil {
			return err
		}
		if err := p.skipCounted(); err != nil {
			return err
		}
		if err := p.skipCounted(); err != nil {
			return err
		}
	}
	// Surfaces: tag, bbox, physical tags, bounding curves.
	for i := 0; i < nSurfaces; i++ {
		tag, err := p.tk.int()
		if err != nil {
			return err
		}
		if err := p.tk.skipFloats(6); err != nil {
			return err
		}
		if err := p.skipCounted(); err != nil {
			return err
		}
		if err := p.skipCounted(); err != nil {
			return err
		}
		p.surfaceIndex[tag] = len(p.file.Surfaces)
		p.file.Surfaces = append(p.file.Surfaces, SurfaceBlock{Tag: tag})
	}
	// Volumes: tag, bbox, physical tags, bounding surfaces (signed).
	for i := 0; i < nVolumes; i++ {
		tag, err := p.tk.int()
		if err != nil {
			return err
		}
		if err := p.tk.skipFloats(6); err != nil {
			return err
		}
		if err := p.skipCounted(); err != nil {
			return err
		}
		nBound, err := p.tk.int()
		if err != nil {
			return err
		}
		vb := VolumeBlock{Tag: tag, SurfaceTags: make([]int, 0, nBound)}
		for j := 0; j < nBound; j++ {
			st, err := p.tk.int()
			if err != nil {
				return err
			}
			vb.SurfaceTags = append(vb.SurfaceTags, st)
		}
		p.file.Volumes = append(p.file.Volumes, vb)
	}
	return nil
}

// skipCounted reads a count followed by that many integer tags.
func (p *parser) skipCounted() error {
	n, err := p.tk.int()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if _, err := p.tk.int(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readNodes() error {
	nBlocks, err := p.tk.int()
	if err != nil {
		return err
	}
	if err := p.tk.skipInts(3); err != nil { // numNodes, minTag, maxTag
		return err
	}
	for b := 0; b < nBlocks; b++ {
		if err := p.tk.skipInts(3); err != nil { // entityDim, entityTag, parametric
			return err
		}
		n, err := p.tk.int()
		if err != nil {
			return err
		}
		tags := make([]int, n)
		for i := 0; i < n; i++ {
			if tags[i], err = p.tk.int(); err != nil {
				return err
			}
		}
		for i := 0; i < n; i++ {
			x, err := p.tk.float()
			if err != nil {
				return err
			}
			y, err := p.tk.float()
			if err != nil {
				return err
			}
			z, err := p.tk.float()
			if err != nil {
				return err
			}
			if _, dup := p.nodeIndex[tags[i]]; dup {
				return fmt.Errorf("%w: duplicate node tag %d", ErrFormat, tags[i])
			}
			p.nodeIndex[tags[i]] = len(p.file.Nodes)
			p.file.Nodes = append(p.file.Nodes, vec3.T{x, y, z})
		}
	}
	return nil
}

func (p *parser) readElements() error {
	nBlocks, err := p.tk.int()
	if err != nil {
		return err
	}
	if err := p.tk.skipInts(3); err != nil { // numElements, minTag, maxTag
		return err
	}
	for b := 0; b < nBlocks; b++ {
		dim, err := p.tk.int()
		if err != nil {
			return err
		}
		entityTag, err := p.tk.int()
		if err != nil {
			return err
		}
		elemType, err := p.tk.int()
		if err != nil {
			return err
		}
		n, err := p.tk.int()
		if err != nil {
			return err
		}
		nodes, ok := nodesPerElement[elemType]
		if !ok {
			return fmt.Errorf("%w: element type %d", ErrUnsupported, elemType)
		}

		keep := dim == 2 && elemType == triangleType
		var block *SurfaceBlock
		if keep {
			idx, ok := p.surfaceIndex[entityTag]
			if !ok {
				return fmt.Errorf("%w: element block references undeclared surface %d", ErrFormat, entityTag)
			}
			block = &p.file.Surfaces[idx]
		}

		for i := 0; i < n; i++ {
			if _, err := p.tk.int(); err != nil { // element tag
				return err
			}
			if !keep {
				if err := p.tk.skipInts(nodes); err != nil {
					return err
				}
				continue
			}
			var tri types.Triangle
			for j := 0; j < 3; j++ {
				tag, err := p.tk.int()
				if err != nil {
					return err
				}
				vi, ok := p.nodeIndex[tag]
				if !ok {
					return fmt.Errorf("%w: element references unknown node %d", ErrFormat, tag)
				}
				tri[j] = vi
			}
			block.Triangles = append(block.Triangles, tri)
		}
	}
	return nil
}

// tokens is a whitespace-delimited token reader over the msh stream.
type tokens struct {
	s *bufio.Scanner
}

func newTokens(r io.Reader) *tokens {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	s.Split(bufio.ScanWords)
	return &tokens{s: s}
}

func (tk *tokens) next() (string, error) {
	if !tk.s.Scan() {
		if err := tk.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return tk.s.Text(), nil
}

func (tk *tokens) int() (int, error) {
	tok, err := tk.next()
	if err != nil {
		return 0, fmt.Errorf("%w: unexpected end of input", ErrFormat)
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: expected integer, got %q", ErrFormat, tok)
	}
	return n, nil
}

func (tk *tokens) float() (float64, error) {
	tok, err := tk.next()
	if err != nil {
		return 0, fmt.Errorf("%w: unexpected end of input", ErrFormat)
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: expected number, got %q", ErrFormat, tok)
	}
	return f, nil
}

func (tk *tokens) skipInts(n int) error {
	for i := 0; i < n; i++ {
		if _, err := tk.int(); err != nil {
			return err
		}
	}
	return nil
}

func (tk *tokens) skipFloats(n int) error {
	for i := 0; i < n; i++ {
		if _, err := tk.float(); err != nil {
			return err
		}
	}
	return nil
}
