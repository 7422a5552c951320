package types

import (
	"errors"
	"fmt"
)

// MaterialGroupPrefix is prepended to material names in group tags,
// matching the convention transport codes read.
const MaterialGroupPrefix = "mat:"

// Material assignment errors.
var (
	ErrMaterialCount = errors.New("number of materials does not match number of volumes")
	ErrMaterialEmpty = errors.New("material name must not be empty")
)

// MaterialGroup collects the volumes tagged with one material.
type MaterialGroup struct {
	GroupID   string   `json:"group_id"`
	Name      string   `json:"name"` // e.g. "mat:steel"
	VolumeIDs []string `json:"volume_ids"`
}

// MaterialGroupName returns the group tag for a material name.
func MaterialGroupName(material string) string {
	return MaterialGroupPrefix + material
}

// ValidateMaterials checks an ordered material list against the volume
// count. The list assigns materials to volumes in ascending global ID
// order, so the lengths must match exactly.
func ValidateMaterials(materials []string, volumes int) error {
	if len(materials) != volumes {
		return fmt.Errorf("%w: %d materials for %d volumes", ErrMaterialCount, len(materials), volumes)
	}
	for _, m := range materials {
		if m == "" {
			return ErrMaterialEmpty
		}
	}
	return nil
}
