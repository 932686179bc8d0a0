// Package layout is the import/export boundary of the editor: the flat JSON
// snapshot of placed tokens, named save slots and PNG rendering.
package layout

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gravitas-games/baseplanner/pkg/models"
	"github.com/pkg/errors"
)

// Record is one placed token as exchanged on disk.
type Record struct {
	ID     string  `json:"id"`
	Key    string  `json:"key"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Size   int     `json:"size"`
	Radius float64 `json:"radius"`
	Class  string  `json:"cls"`
}

// Snapshot is the ordered list of placed tokens. Order is insertion order,
// which is also draw order.
type Snapshot struct {
	Placed []Record `json:"placed"`
}

// FromTokens builds a snapshot. Selection state is not persisted.
func FromTokens(placed []models.PlacedToken) Snapshot {
	s := Snapshot{Placed: make([]Record, 0, len(placed))}
	for _, t := range placed {
		s.Placed = append(s.Placed, Record{
			ID:     t.ID,
			Key:    t.Key,
			X:      t.X,
			Y:      t.Y,
			Size:   t.Size,
			Radius: t.Radius,
			Class:  t.Class,
		})
	}
	return s
}

// Tokens converts records back into unselected tokens.
func (s Snapshot) Tokens() []models.PlacedToken {
	out := make([]models.PlacedToken, 0, len(s.Placed))
	for _, r := range s.Placed {
		out = append(out, models.PlacedToken{
			ID:     r.ID,
			Key:    r.Key,
			X:      r.X,
			Y:      r.Y,
			Size:   r.Size,
			Radius: r.Radius,
			Class:  r.Class,
		})
	}
	return out
}

// Encode writes the snapshot as indented JSON.
func Encode(w io.Writer, s Snapshot) error {
	if s.Placed == nil {
		s.Placed = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(s), "encode layout")
}

// Decode reads a snapshot. A document without a "placed" array is rejected.
func Decode(r io.Reader) (Snapshot, error) {
	var doc struct {
		Placed *[]Record `json:"placed"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Snapshot{}, errors.Wrap(err, "decode layout")
	}
	if doc.Placed == nil {
		return Snapshot{}, errors.New("decode layout: missing placed array")
	}
	return Snapshot{Placed: *doc.Placed}, nil
}

// Marshal is Encode into a byte slice.
func Marshal(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal is Decode from a byte slice.
func Unmarshal(data []byte) (Snapshot, error) {
	return Decode(bytes.NewReader(data))
}
