// Package catalog loads catalog snapshots from files, Redis and SQLite.
package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/recommender/internal/domain"
	domcat "github.com/kailas-cloud/recommender/internal/domain/catalog"
)

// itemDTO is the stored shape of one product.
type itemDTO struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Price       int64  `json:"price" yaml:"price"`
	Category    string `json:"category" yaml:"category"`
	Image       string `json:"image" yaml:"image"`
	Description string `json:"description" yaml:"description"`

	// LegacyID is the id key of older catalog exports; used when id is absent.
	LegacyID *int64 `json:"_id,omitempty" yaml:"_id,omitempty"`
}

func (d itemDTO) id() int64 {
	if d.ID == 0 && d.LegacyID != nil {
		return *d.LegacyID
	}
	return d.ID
}

func fromDomain(it domcat.Item) itemDTO {
	return itemDTO{
		ID:          it.ID(),
		Name:        it.Name(),
		Price:       it.Price(),
		Category:    it.Category(),
		Image:       it.Image(),
		Description: it.Description(),
	}
}

// toDomain validates every record. Catalog order is preserved.
func toDomain(dtos []itemDTO) ([]domcat.Item, error) {
	items := make([]domcat.Item, 0, len(dtos))
	for i, d := range dtos {
		it, err := domcat.New(d.id(), d.Name, d.Price, d.Category, d.Image, d.Description)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w: %w", i, domain.ErrInvalidItem, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func decodeJSON(data []byte) ([]domcat.Item, error) {
	var dtos []itemDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("%w: decode json: %w", domain.ErrCatalogSource, err)
	}
	return toDomain(dtos)
}

func encodeJSON(items []domcat.Item) ([]byte, error) {
	dtos := make([]itemDTO, len(items))
	for i, it := range items {
		dtos[i] = fromDomain(it)
	}
	data, err := json.Marshal(dtos)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return data, nil
}
