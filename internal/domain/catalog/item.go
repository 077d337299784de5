package catalog

import (
	"fmt"
	"strings"
)

// Field length limits.
const (
	MaxNameLength        = 256
	MaxCategoryLength    = 128
	MaxDescriptionLength = 16384
)

// Item is a catalog product (immutable value object).
type Item struct {
	id          int64
	name        string
	price       int64
	category    string
	image       string
	description string
}

// New validates and creates an Item.
// Name: non-empty, max 256 chars. Price: non-negative, currency minor units.
func New(id int64, name string, price int64, category, image, description string) (Item, error) {
	if name == "" {
		return Item{}, fmt.Errorf("item %d: name is required", id)
	}
	if len(name) > MaxNameLength {
		return Item{}, fmt.Errorf("item %d: name too long (max %d)", id, MaxNameLength)
	}
	if price < 0 {
		return Item{}, fmt.Errorf("item %d: price must be non-negative, got %d", id, price)
	}
	if len(category) > MaxCategoryLength {
		return Item{}, fmt.Errorf("item %d: category too long (max %d)", id, MaxCategoryLength)
	}
	if len(description) > MaxDescriptionLength {
		return Item{}, fmt.Errorf("item %d: description too long (max %d)", id, MaxDescriptionLength)
	}
	return Reconstruct(id, name, price, category, image, description), nil
}

// Reconstruct creates an Item without validation (storage hydration, tests).
func Reconstruct(id int64, name string, price int64, category, image, description string) Item {
	return Item{
		id:          id,
		name:        name,
		price:       price,
		category:    category,
		image:       image,
		description: description,
	}
}

// ID returns the item identifier.
func (i Item) ID() int64 { return i.id }

// Name returns the product name.
func (i Item) Name() string { return i.name }

// Price returns the price in currency minor units.
func (i Item) Price() int64 { return i.price }

// Category returns the free-form category label.
func (i Item) Category() string { return i.category }

// Image returns the image reference.
func (i Item) Image() string { return i.image }

// Description returns the product description.
func (i Item) Description() string { return i.description }

// Text returns the blob fed to the encoder: name, description, category.
func (i Item) Text() string {
	return strings.TrimSpace(i.name + " " + i.description + " " + i.category)
}
