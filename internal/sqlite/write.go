package sqlite

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/fusion-tools/facet/pkg/types"
)

// Model metadata keys.
const (
	metaSchemaVersion = "schema_version"
	metaFacetingTol   = "faceting_tol"
	metaCreatedAt     = "created_at"

	schemaVersion = "1"
)

// SaveModel persists the complete model inside one transaction, replacing
// any previously stored model. Entity IDs missing on the model are
// generated and written back.
func (b *Backend) SaveModel(m *types.Model) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if err := validateModel(m); err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("starting save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"group_members", "groups", "triangles", "vertices", "surfaces", "volumes", "model"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	now := time.Now()
	if err := saveMetadata(tx, m, now); err != nil {
		return err
	}
	if err := saveVolumes(tx, m, now); err != nil {
		return err
	}
	if err := saveSurfaces(tx, m, now); err != nil {
		return err
	}
	if err := saveVertices(tx, m); err != nil {
		return err
	}
	if err := saveGroups(tx, m, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

// validateModel rejects models whose sense references do not resolve.
func validateModel(m *types.Model) error {
	volumeIDs := make(map[string]bool, len(m.Volumes))
	for _, v := range m.Volumes {
		if v.Material == "" {
			return fmt.Errorf("volume %d: %w", v.GlobalID, types.ErrMaterialEmpty)
		}
		volumeIDs[v.VolumeID] = true
	}
	for _, s := range m.Surfaces {
		if s.ForwardVolume == "" {
			return fmt.Errorf("surface %d has no forward volume: %w", s.GlobalID, types.ErrInconsistentSense)
		}
		if !volumeIDs[s.ForwardVolume] {
			return fmt.Errorf("surface %d forward sense: %w", s.GlobalID, types.ErrUnknownVolume)
		}
		if s.ReverseVolume != "" && !volumeIDs[s.ReverseVolume] {
			return fmt.Errorf("surface %d reverse sense: %w", s.GlobalID, types.ErrUnknownVolume)
		}
	}
	return nil
}

func saveMetadata(tx *sql.Tx, m *types.Model, now time.Time) error {
	meta := map[string]string{
		metaSchemaVersion: schemaVersion,
		metaFacetingTol:   strconv.FormatFloat(m.FacetingTol, 'g', -1, 64),
		metaCreatedAt:     now.Format(time.RFC3339),
	}
	for key, value := range meta {
		if _, err := tx.Exec("INSERT INTO model (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("writing model metadata %s: %w", key, err)
		}
	}
	return nil
}

func saveVolumes(tx *sql.Tx, m *types.Model, now time.Time) error {
	stmt, err := tx.Prepare("INSERT INTO volumes (volume_id, global_id, material, created_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing volume insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range m.Volumes {
		if v.VolumeID == "" {
			v.VolumeID = newUUID()
		}
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now
		}
		if _, err := stmt.Exec(v.VolumeID, v.GlobalID, v.Material, v.CreatedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("inserting volume %d: %w", v.GlobalID, err)
		}
	}
	return nil
}

func saveSurfaces(tx *sql.Tx, m *types.Model, now time.Time) error {
	surfStmt, err := tx.Prepare("INSERT INTO surfaces (surface_id, global_id, forward_volume, reverse_volume, created_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing surface insert: %w", err)
	}
	defer surfStmt.Close()
	triStmt, err := tx.Prepare("INSERT INTO triangles (surface_id, seq, v0, v1, v2) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing triangle insert: %w", err)
	}
	defer triStmt.Close()

	for _, s := range m.Surfaces {
		if s.SurfaceID == "" {
			s.SurfaceID = newUUID()
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		var reverse sql.NullString
		if s.ReverseVolume != "" {
			reverse = sql.NullString{String: s.ReverseVolume, Valid: true}
		}
		if _, err := surfStmt.Exec(s.SurfaceID, s.GlobalID, s.ForwardVolume, reverse, s.CreatedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("inserting surface %d: %w", s.GlobalID, err)
		}
		for seq, t := range s.Triangles {
			if _, err := triStmt.Exec(s.SurfaceID, seq, t[0], t[1], t[2]); err != nil {
				return fmt.Errorf("inserting triangle %d of surface %d: %w", seq, s.GlobalID, err)
			}
		}
	}
	return nil
}

func saveVertices(tx *sql.Tx, m *types.Model) error {
	stmt, err := tx.Prepare("INSERT INTO vertices (vertex_idx, x, y, z) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing vertex insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range m.Vertices {
		if _, err := stmt.Exec(i, p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("inserting vertex %d: %w", i, err)
		}
	}
	return nil
}

// saveGroups writes one "mat:<name>" group per distinct material with the
// member volumes attached.
func saveGroups(tx *sql.Tx, m *types.Model, now time.Time) error {
	byMaterial := make(map[string][]string)
	for _, v := range m.Volumes {
		byMaterial[v.Material] = append(byMaterial[v.Material], v.VolumeID)
	}
	materials := make([]string, 0, len(byMaterial))
	for material := range byMaterial {
		materials = append(materials, material)
	}
	sort.Strings(materials)

	for _, material := range materials {
		groupID := newUUID()
		name := types.MaterialGroupName(material)
		if _, err := tx.Exec("INSERT INTO groups (group_id, name, created_at) VALUES (?, ?, ?)",
			groupID, name, now.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("inserting group %s: %w", name, err)
		}
		for _, volumeID := range byMaterial[material] {
			if _, err := tx.Exec("INSERT INTO group_members (group_id, volume_id) VALUES (?, ?)",
				groupID, volumeID); err != nil {
				return fmt.Errorf("inserting member of %s: %w", name, err)
			}
		}
	}
	return nil
}
