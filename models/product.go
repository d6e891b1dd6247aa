package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SizeStock is the stock recorded for one size of one color. Quantity is
// stored as a string to stay compatible with existing documents.
type SizeStock struct {
	Size     string `bson:"size" json:"size"`
	Quantity string `bson:"quantity" json:"quantity"`
}

// UnmarshalJSON accepts the quantity as a JSON string or number.
func (s *SizeStock) UnmarshalJSON(data []byte) error {
	var raw struct {
		Size     string          `json:"size"`
		Quantity json.RawMessage `json:"quantity"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Size = raw.Size
	s.Quantity = ""

	q := strings.TrimSpace(string(raw.Quantity))
	switch {
	case q == "" || q == "null":
	case strings.HasPrefix(q, `"`):
		return json.Unmarshal(raw.Quantity, &s.Quantity)
	default:
		if _, err := strconv.ParseFloat(q, 64); err != nil {
			return fmt.Errorf("size quantity must be numeric: %w", err)
		}
		s.Quantity = q
	}
	return nil
}

// Available returns the recorded quantity; unparsable values count as zero.
func (s SizeStock) Available() int {
	n, err := strconv.ParseFloat(strings.TrimSpace(s.Quantity), 64)
	if err != nil {
		return 0
	}
	return int(n)
}

// ColorVariant groups the sizes offered in one color.
type ColorVariant struct {
	Color string      `bson:"color" json:"color"`
	Sizes []SizeStock `bson:"sizes" json:"sizes"`
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Images      []string           `bson:"images" json:"images"`
	Featured    bool               `bson:"featured" json:"featured"`
	Live        bool               `bson:"live" json:"live"`
	Material    string             `bson:"material,omitempty" json:"material,omitempty"`
	Colors      []ColorVariant     `bson:"colors" json:"colors"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FindVariant looks up the stock entry for color and size. The boolean
// results report whether the color and the size were found.
func (p *Product) FindVariant(color, size string) (SizeStock, bool, bool) {
	for _, c := range p.Colors {
		if c.Color != color {
			continue
		}
		for _, s := range c.Sizes {
			if s.Size == size {
				return s, true, true
			}
		}
		return SizeStock{}, true, false
	}
	return SizeStock{}, false, false
}

// ProductListParams are the catalog query parameters.
type ProductListParams struct {
	Limit  int64
	Skip   int64
	Title  string
	Sort   string
	Filter string
}

// ProductForm holds the raw multipart fields shared by create and update.
// A nil pointer means the field was not sent.
type ProductForm struct {
	Title       *string
	Description *string
	Price       *string
	Quantity    *string
	Material    *string
	Featured    *string
	Live        *string
	Colors      *string
	OldImages   *string
}
