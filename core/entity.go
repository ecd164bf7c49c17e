package core

// Entity is a unique handle for a body owned by the host world
// Zero is never issued and means "no entity"
type Entity uint64

// Kind is the category an entity belongs to (player, enemy, projectile, ...)
type Kind int

// CellType identifies the type of a grid cell
type CellType int

// CellNone is returned by grid lookups outside the map or on empty cells
const CellNone CellType = -1
