// Package compose turns a surface mesh into a sense-tagged geometry model:
// it orients each surface patch, assigns forward/reverse volume senses,
// verifies watertightness, and attaches material tags.
package compose

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fusion-tools/facet/internal/mesh"
	"github.com/fusion-tools/facet/internal/topology"
	"github.com/fusion-tools/facet/pkg/types"
)

// Options configures a composition run.
type Options struct {
	MeshPath    string
	Materials   []string // ordered, one per volume in ascending tag order
	FacetingTol float64
	Workers     int // surface orientation parallelism; 0 means NumCPU
	Logger      *zap.Logger
	Progress    func(stage string, done, total int)
}

// Result is the outcome of a composition run. Reports are present even
// when Compose fails the watertightness stage, so callers can show which
// volumes leak.
type Result struct {
	Model   *types.Model
	Flipped int // triangles flipped during orientation
	Reports []topology.Report
}

// newUUID generates a UUID v7 string.
func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Compose reads the mesh and runs the full pipeline. The returned model
// is ready to persist via a Store.
func Compose(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(string, int, int) {}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	tol := opts.FacetingTol
	if tol == 0 {
		tol = types.DefaultFacetingTol
	}

	mf, err := mesh.ReadFile(opts.MeshPath)
	if err != nil {
		return nil, err
	}
	if len(mf.Volumes) == 0 {
		return nil, fmt.Errorf("mesh %s contains no volume entities", opts.MeshPath)
	}
	if err := types.ValidateMaterials(opts.Materials, len(mf.Volumes)); err != nil {
		return nil, err
	}
	logger.Info("read mesh",
		zap.String("path", opts.MeshPath),
		zap.Int("nodes", len(mf.Nodes)),
		zap.Int("surfaces", len(mf.Surfaces)),
		zap.Int("volumes", len(mf.Volumes)))

	m := &types.Model{Vertices: mf.Nodes, FacetingTol: tol}
	now := time.Now()
	kept := sortedSurfaces(mf)
	if dropped := len(mf.Surfaces) - len(kept); dropped > 0 {
		logger.Warn("dropped surface entities referenced by no volume", zap.Int("surfaces", dropped))
	}
	for _, sb := range kept {
		m.Surfaces = append(m.Surfaces, &types.Surface{
			GlobalID:  sb.Tag,
			Triangles: sb.Triangles,
			CreatedAt: now,
		})
	}

	flipped, err := orientSurfaces(ctx, m, workers, progress)
	if err != nil {
		return nil, err
	}
	if flipped > 0 {
		logger.Warn("repaired surface windings", zap.Int("flipped", flipped))
	}

	if err := assignSenses(m, mf, opts.Materials, now, progress); err != nil {
		return nil, err
	}
	if err := orientShellsOutward(m, logger); err != nil {
		return nil, err
	}

	shared := 0
	for _, s := range m.Surfaces {
		if s.Shared() {
			shared++
		}
	}
	logger.Info("assigned surface senses",
		zap.Int("surfaces", len(m.Surfaces)),
		zap.Int("shared", shared))

	result := &Result{Model: m, Flipped: flipped}
	result.Reports, err = verifyWatertight(m, progress)
	if err != nil {
		return result, err
	}
	logger.Info("all volumes watertight", zap.Int("volumes", len(m.Volumes)))
	return result, nil
}

// sortedSurfaces returns the surface blocks in ascending tag order,
// dropping entities that no volume references. A surface outside every
// volume adjacency would end up with no forward sense and could never be
// persisted.
func sortedSurfaces(mf *mesh.File) []mesh.SurfaceBlock {
	referenced := make(map[int]bool)
	for _, vb := range mf.Volumes {
		for _, st := range vb.SurfaceTags {
			if st < 0 {
				st = -st
			}
			referenced[st] = true
		}
	}
	blocks := make([]mesh.SurfaceBlock, 0, len(mf.Surfaces))
	for _, sb := range mf.Surfaces {
		if referenced[sb.Tag] {
			blocks = append(blocks, sb)
		}
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Tag < blocks[j].Tag })
	return blocks
}

// orientSurfaces runs the per-surface manifold check and winding
// propagation concurrently. Surfaces hold disjoint triangle slices, so
// the workers never share mutable state.
func orientSurfaces(ctx context.Context, m *types.Model, workers int, progress func(string, int, int)) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	flipped, done := 0, 0
	total := len(m.Surfaces)
	progress("orient", 0, total)

	for _, s := range m.Surfaces {
		s := s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := topology.Orient(s.Triangles)
			if err != nil {
				return fmt.Errorf("surface %d: %w", s.GlobalID, err)
			}
			mu.Lock()
			flipped += n
			done++
			progress("orient", done, total)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return flipped, nil
}

// assignSenses walks the volumes in ascending tag order and records each
// surface's forward volume (first adjacency) and reverse volume (second
// adjacency). A third adjacency is rejected.
func assignSenses(m *types.Model, mf *mesh.File, materials []string, now time.Time, progress func(string, int, int)) error {
	volumes := make([]mesh.VolumeBlock, len(mf.Volumes))
	copy(volumes, mf.Volumes)
	sort.Slice(volumes, func(i, j int) bool { return volumes[i].Tag < volumes[j].Tag })

	total := len(volumes)
	progress("sense", 0, total)
	for i, vb := range volumes {
		vol := &types.Volume{
			VolumeID:  newUUID(),
			GlobalID:  vb.Tag,
			Material:  materials[i],
			CreatedAt: now,
		}
		seen := make(map[int]bool, len(vb.SurfaceTags))
		for _, signedTag := range vb.SurfaceTags {
			tag := signedTag
			if tag < 0 {
				tag = -tag
			}
			if seen[tag] {
				return fmt.Errorf("volume %d lists surface %d twice: %w", vb.Tag, tag, mesh.ErrFormat)
			}
			seen[tag] = true

			s, err := m.SurfaceByGlobalID(tag)
			if err != nil {
				return fmt.Errorf("volume %d: %w (surface %d)", vb.Tag, err, tag)
			}
			if len(s.Triangles) == 0 {
				return fmt.Errorf("surface %d bounding volume %d has no facets", tag, vb.Tag)
			}
			switch {
			case s.ForwardVolume == "":
				s.ForwardVolume = vol.VolumeID
			case s.ReverseVolume == "":
				s.ReverseVolume = vol.VolumeID
			default:
				return fmt.Errorf("surface %d: %w", tag, types.ErrSurfaceOverused)
			}
			vol.SurfaceIDs = append(vol.SurfaceIDs, tag)
		}
		m.Volumes = append(m.Volumes, vol)
		progress("sense", i+1, total)
	}
	return nil
}

// orientShellsOutward fixes the global winding convention: normals point
// out of the forward volume. Volumes are processed in ascending tag
// order; a shell with negative signed volume gets its not-yet-fixed
// forward surfaces flipped. Surfaces of processed volumes are frozen so a
// later flip cannot invalidate an earlier shell.
func orientShellsOutward(m *types.Model, logger *zap.Logger) error {
	fixed := make(map[int]bool)
	for _, vol := range m.Volumes {
		signed := 0.0
		sumFlippable := 0.0
		var flippable []*types.Surface
		for _, sid := range vol.SurfaceIDs {
			s, err := m.SurfaceByGlobalID(sid)
			if err != nil {
				return err
			}
			c := topology.SignedVolume(m.Vertices, s.Triangles)
			if s.ForwardVolume == vol.VolumeID {
				signed += c
				if !fixed[sid] {
					flippable = append(flippable, s)
					sumFlippable += c
				}
			} else {
				signed -= c
			}
		}

		final := signed
		if signed < 0 {
			// Flipping a surface negates its contribution.
			flippedSigned := signed - 2*sumFlippable
			if flippedSigned <= 0 {
				return fmt.Errorf("volume %d has signed volume %g with no consistent outward orientation: %w",
					vol.GlobalID, signed, types.ErrInconsistentSense)
			}
			for _, s := range flippable {
				s.Flip()
			}
			logger.Warn("flipped inward-facing shell",
				zap.Int("volume", vol.GlobalID),
				zap.Int("surfaces", len(flippable)))
			final = flippedSigned
		}
		if final == 0 {
			return fmt.Errorf("volume %d: %w", vol.GlobalID, types.ErrDegenerateVolume)
		}
		for _, sid := range vol.SurfaceIDs {
			fixed[sid] = true
		}
	}
	return nil
}

// verifyWatertight runs the closure check on every volume and fails when
// any shell leaks, naming the offenders.
func verifyWatertight(m *types.Model, progress func(string, int, int)) ([]topology.Report, error) {
	progress("verify", 0, len(m.Volumes))
	reports, err := topology.CheckWatertight(m)
	if err != nil {
		return nil, err
	}
	progress("verify", len(reports), len(m.Volumes))

	var leaking []string
	for _, r := range reports {
		if !r.Watertight {
			leaking = append(leaking, fmt.Sprintf("volume %d (%d unmatched, %d misoriented edges)",
				r.GlobalID, r.Unmatched, r.Misoriented))
		}
	}
	if len(leaking) > 0 {
		return reports, fmt.Errorf("%s: %w", strings.Join(leaking, "; "), types.ErrNotWatertight)
	}
	return reports, nil
}
