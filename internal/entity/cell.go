package entity

// Marker is the token a player puts into a cell. Empty marks a free cell.
type Marker string

const Empty Marker = ""

type Cell struct {
	value Marker
}

func (that *Cell) Value() Marker {
	return that.value
}

// SetValue overwrites the cell unconditionally, occupancy is guarded by the Board.
func (that *Cell) SetValue(marker Marker) {
	that.value = marker
}

func (that *Cell) IsEmpty() bool {
	return that.value == Empty
}
