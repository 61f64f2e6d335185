package inventory

import (
	"bytes"
	"context"
	"encoding/json"
)

// Store loads and persists the Dataset as a single unit.
//
// Load returns an empty Dataset, not an error, when the stored document is
// missing or unreadable. Implementations return an error only when they
// cannot tell whether data exists, so a failed read is never mistaken for an
// empty inventory and overwritten.
type Store interface {
	Load(ctx context.Context) (Dataset, error)
	Save(ctx context.Context, d Dataset) error
	Ping(ctx context.Context) error
}

func emptyDataset() Dataset {
	return Dataset{Products: []Product{}, Rentals: []Rental{}}
}

// decodeDataset parses a stored document. A bare JSON array is the legacy
// layout and holds only products.
func decodeDataset(raw []byte) (Dataset, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return emptyDataset(), nil
	}

	var d Dataset
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &d.Products); err != nil {
			return Dataset{}, err
		}
	} else if err := json.Unmarshal(raw, &d); err != nil {
		return Dataset{}, err
	}

	d.normalize()
	return d, nil
}
