// Package sqlite implements the SQLite geometry database backend.
package sqlite

// Schema DDL for all tables. The surfaces table carries the sense pair
// (forward_volume, reverse_volume); groups and group_members store the
// "mat:<name>" material tags.
const (
	createModel = `CREATE TABLE model (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

	createVolumes = `CREATE TABLE volumes (
    volume_id TEXT PRIMARY KEY,
    global_id INTEGER NOT NULL UNIQUE,
    material TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createSurfaces = `CREATE TABLE surfaces (
    surface_id TEXT PRIMARY KEY,
    global_id INTEGER NOT NULL UNIQUE,
    forward_volume TEXT NOT NULL,
    reverse_volume TEXT,
    created_at TEXT NOT NULL,
    FOREIGN KEY (forward_volume) REFERENCES volumes(volume_id),
    FOREIGN KEY (reverse_volume) REFERENCES volumes(volume_id)
);`

	createVertices = `CREATE TABLE vertices (
    vertex_idx INTEGER PRIMARY KEY,
    x REAL NOT NULL,
    y REAL NOT NULL,
    z REAL NOT NULL
);`

	createTriangles = `CREATE TABLE triangles (
    surface_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    v0 INTEGER NOT NULL,
    v1 INTEGER NOT NULL,
    v2 INTEGER NOT NULL,
    PRIMARY KEY (surface_id, seq),
    FOREIGN KEY (surface_id) REFERENCES surfaces(surface_id)
);`

	createGroups = `CREATE TABLE groups (
    group_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL
);`

	createGroupMembers = `CREATE TABLE group_members (
    group_id TEXT NOT NULL,
    volume_id TEXT NOT NULL,
    PRIMARY KEY (group_id, volume_id),
    FOREIGN KEY (group_id) REFERENCES groups(group_id),
    FOREIGN KEY (volume_id) REFERENCES volumes(volume_id)
);`
)

// Index DDL for common queries.
const (
	idxSurfacesForward     = `CREATE INDEX idx_surfaces_forward ON surfaces(forward_volume);`
	idxSurfacesReverse     = `CREATE INDEX idx_surfaces_reverse ON surfaces(reverse_volume);`
	idxTrianglesSurface    = `CREATE INDEX idx_triangles_surface ON triangles(surface_id);`
	idxGroupMembersVolume  = `CREATE INDEX idx_group_members_volume ON group_members(volume_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createModel,
	createVolumes,
	createSurfaces,
	createVertices,
	createTriangles,
	createGroups,
	createGroupMembers,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxSurfacesForward,
	idxSurfacesReverse,
	idxTrianglesSurface,
	idxGroupMembersVolume,
}
