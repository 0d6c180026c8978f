package repository

// UpdateField is one column of a partial update. Updates are passed as an
// ordered slice so the generated SET clause is deterministic.
type UpdateField struct {
	Name  string
	Value interface{}
}
