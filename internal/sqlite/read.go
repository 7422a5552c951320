package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/fusion-tools/facet/pkg/types"
)

// LoadModel reconstructs the complete model from the database.
// Returns ErrEmptyStore when no model has been saved.
func (b *Backend) LoadModel() (*types.Model, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	m := &types.Model{}
	var err error
	if m.FacetingTol, err = b.loadFacetingTol(); err != nil {
		return nil, err
	}
	if m.Vertices, err = b.loadVertices(); err != nil {
		return nil, err
	}
	if m.Volumes, err = b.loadVolumes(); err != nil {
		return nil, err
	}
	if m.Surfaces, err = b.loadSurfaces(); err != nil {
		return nil, err
	}

	// Rebuild volume adjacency from the sense columns, in ascending
	// surface order.
	byID := make(map[string]*types.Volume, len(m.Volumes))
	for _, v := range m.Volumes {
		byID[v.VolumeID] = v
	}
	for _, s := range m.Surfaces {
		if v, ok := byID[s.ForwardVolume]; ok {
			v.SurfaceIDs = append(v.SurfaceIDs, s.GlobalID)
		}
		if s.ReverseVolume != "" {
			if v, ok := byID[s.ReverseVolume]; ok {
				v.SurfaceIDs = append(v.SurfaceIDs, s.GlobalID)
			}
		}
	}
	return m, nil
}

func (b *Backend) loadFacetingTol() (float64, error) {
	var value string
	err := b.db.QueryRow("SELECT value FROM model WHERE key = ?", metaFacetingTol).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, types.ErrEmptyStore
	}
	if err != nil {
		return 0, fmt.Errorf("reading model metadata: %w", err)
	}
	tol, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing faceting tolerance: %w", err)
	}
	return tol, nil
}

func (b *Backend) loadVertices() ([]vec3.T, error) {
	rows, err := b.db.Query("SELECT vertex_idx, x, y, z FROM vertices ORDER BY vertex_idx")
	if err != nil {
		return nil, fmt.Errorf("loading vertices: %w", err)
	}
	defer rows.Close()

	var verts []vec3.T
	for rows.Next() {
		var idx int
		var x, y, z float64
		if err := rows.Scan(&idx, &x, &y, &z); err != nil {
			return nil, fmt.Errorf("scanning vertex: %w", err)
		}
		if idx != len(verts) {
			return nil, fmt.Errorf("vertex table has a gap at index %d", idx)
		}
		verts = append(verts, vec3.T{x, y, z})
	}
	return verts, rows.Err()
}

func (b *Backend) loadVolumes() ([]*types.Volume, error) {
	rows, err := b.db.Query("SELECT volume_id, global_id, material, created_at FROM volumes ORDER BY global_id")
	if err != nil {
		return nil, fmt.Errorf("loading volumes: %w", err)
	}
	defer rows.Close()

	var volumes []*types.Volume
	for rows.Next() {
		var v types.Volume
		var createdAt string
		if err := rows.Scan(&v.VolumeID, &v.GlobalID, &v.Material, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning volume: %w", err)
		}
		v.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		volumes = append(volumes, &v)
	}
	return volumes, rows.Err()
}

func (b *Backend) loadSurfaces() ([]*types.Surface, error) {
	rows, err := b.db.Query("SELECT surface_id, global_id, forward_volume, reverse_volume, created_at FROM surfaces ORDER BY global_id")
	if err != nil {
		return nil, fmt.Errorf("loading surfaces: %w", err)
	}
	defer rows.Close()

	var surfaces []*types.Surface
	for rows.Next() {
		var s types.Surface
		var createdAt string
		var reverse sql.NullString
		if err := rows.Scan(&s.SurfaceID, &s.GlobalID, &s.ForwardVolume, &reverse, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning surface: %w", err)
		}
		if reverse.Valid {
			s.ReverseVolume = reverse.String
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		surfaces = append(surfaces, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, s := range surfaces {
		if s.Triangles, err = b.loadTriangles(s.SurfaceID); err != nil {
			return nil, err
		}
	}
	return surfaces, nil
}

func (b *Backend) loadTriangles(surfaceID string) ([]types.Triangle, error) {
	rows, err := b.db.Query("SELECT v0, v1, v2 FROM triangles WHERE surface_id = ? ORDER BY seq", surfaceID)
	if err != nil {
		return nil, fmt.Errorf("loading triangles: %w", err)
	}
	defer rows.Close()

	var tris []types.Triangle
	for rows.Next() {
		var t types.Triangle
		if err := rows.Scan(&t[0], &t[1], &t[2]); err != nil {
			return nil, fmt.Errorf("scanning triangle: %w", err)
		}
		tris = append(tris, t)
	}
	return tris, rows.Err()
}

// ListMaterials returns the material groups with their member volumes,
// ordered by group name.
func (b *Backend) ListMaterials() ([]types.MaterialGroup, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.Query("SELECT group_id, name FROM groups ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("loading groups: %w", err)
	}
	defer rows.Close()

	var groups []types.MaterialGroup
	for rows.Next() {
		var g types.MaterialGroup
		if err := rows.Scan(&g.GroupID, &g.Name); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		members, err := b.db.Query(`
			SELECT gm.volume_id FROM group_members gm
			JOIN volumes v ON v.volume_id = gm.volume_id
			WHERE gm.group_id = ? ORDER BY v.global_id`, groups[i].GroupID)
		if err != nil {
			return nil, fmt.Errorf("loading group members: %w", err)
		}
		for members.Next() {
			var id string
			if err := members.Scan(&id); err != nil {
				members.Close()
				return nil, fmt.Errorf("scanning group member: %w", err)
			}
			groups[i].VolumeIDs = append(groups[i].VolumeIDs, id)
		}
		if err := members.Err(); err != nil {
			members.Close()
			return nil, err
		}
		members.Close()
	}
	return groups, nil
}

// Summary reports entity counts and stored metadata.
func (b *Backend) Summary() (types.Summary, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var s types.Summary
	if !b.attached {
		return s, types.ErrStoreDetached
	}

	counts := []struct {
		query string
		dst   *int
	}{
		{"SELECT COUNT(*) FROM volumes", &s.Volumes},
		{"SELECT COUNT(*) FROM surfaces", &s.Surfaces},
		{"SELECT COUNT(*) FROM surfaces WHERE reverse_volume IS NOT NULL", &s.SharedSurfaces},
		{"SELECT COUNT(*) FROM triangles", &s.Triangles},
		{"SELECT COUNT(*) FROM vertices", &s.Vertices},
	}
	for _, c := range counts {
		if err := b.db.QueryRow(c.query).Scan(c.dst); err != nil {
			return s, fmt.Errorf("counting: %w", err)
		}
	}

	tol, err := b.loadFacetingTol()
	if err != nil {
		return s, err
	}
	s.FacetingTol = tol
	return s, nil
}
