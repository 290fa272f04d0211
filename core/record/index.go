package record

// Index is a read-only view over an index record: a record whose "e" and "a"
// tags declare the canonical order of a set of child records.
type Index struct {
	rec *Record
}

// NewIndex wraps rec. A nil rec yields an Index that resolves nothing.
func NewIndex(rec *Record) *Index {
	return &Index{rec: rec}
}

// IDPointers returns the "e" tag values in declaration order.
func (ix *Index) IDPointers() []string {
	if ix == nil || ix.rec == nil {
		return nil
	}
	return ix.rec.Values(TagIDPointer)
}

// CoordinatePointers returns the parsed "a" tag values in declaration order.
// Unparseable entries are skipped.
func (ix *Index) CoordinatePointers() []Coordinate {
	if ix == nil || ix.rec == nil {
		return nil
	}
	var out []Coordinate
	for _, v := range ix.rec.Values(TagCoordPointer) {
		c, err := ParseCoordinate(v)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Rank returns the ordering rank the index assigns to r, and whether the index
// resolves r at all. A record is resolved by the first "a" tag matching its own
// coordinate, or failing that by the first "e" tag matching its id; the rank is
// the pointer tag's position in the index record's overall tag list, so
// interleaved "e"/"a" declarations rank children in the order the index author
// wrote them. Coordinate resolution wins even when an "e" tag appears earlier.
func (ix *Index) Rank(r *Record) (int, bool) {
	if ix == nil || ix.rec == nil || r == nil {
		return 0, false
	}
	coord := r.Coordinate()
	idRank := -1
	for i, t := range ix.rec.Tags {
		switch t.Key {
		case TagCoordPointer:
			c, err := ParseCoordinate(t.Value)
			if err == nil && c == coord {
				return i, true
			}
		case TagIDPointer:
			if idRank < 0 && r.ID != "" && t.Value == r.ID {
				idRank = i
			}
		}
	}
	if idRank >= 0 {
		return idRank, true
	}
	return 0, false
}
