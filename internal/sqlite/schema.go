package sqlite

// Schema DDL. One row per registry entry; position keeps registry order.
const (
	createObjects = `CREATE TABLE IF NOT EXISTS objects (
    key TEXT PRIMARY KEY,
    class TEXT NOT NULL,
    position INTEGER NOT NULL,
    record TEXT NOT NULL
);`

	idxObjectsClass    = `CREATE INDEX IF NOT EXISTS idx_objects_class ON objects(class);`
	idxObjectsPosition = `CREATE INDEX IF NOT EXISTS idx_objects_position ON objects(position);`
)

// schemaDDL lists the statements run on Open, in order.
var schemaDDL = []string{
	createObjects,
	idxObjectsClass,
	idxObjectsPosition,
}
