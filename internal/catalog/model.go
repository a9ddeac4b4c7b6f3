package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Book is a catalog entry. JSON tags match the static catalog source
// (data/libros.json).
type Book struct {
	ID     string `json:"id"`
	Title  string `json:"titulo"`
	Author string `json:"autor"`
	Genre  string `json:"genero"`
	Year   int    `json:"anio"`
	Price  int    `json:"precio"`
	Cover  string `json:"portada"`
	Stock  int    `json:"stock"`
}

// sourceRecord mirrors Book for decoding, with a coercing ID field: the
// catalog source has been observed to ship identities as bare numbers.
type sourceRecord struct {
	ID     flexID `json:"id"`
	Title  string `json:"titulo" validate:"required"`
	Author string `json:"autor" validate:"required"`
	Genre  string `json:"genero" validate:"required"`
	Year   int    `json:"anio"`
	Price  int    `json:"precio" validate:"gte=0"`
	Cover  string `json:"portada"`
	Stock  int    `json:"stock" validate:"gte=0"`
}

func (r sourceRecord) book() *Book {
	return &Book{
		ID:     string(r.ID),
		Title:  r.Title,
		Author: r.Author,
		Genre:  r.Genre,
		Year:   r.Year,
		Price:  r.Price,
		Cover:  r.Cover,
		Stock:  r.Stock,
	}
}

// flexID accepts a JSON string or number and normalizes to a canonical
// string form.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*f = flexID(strconv.FormatInt(i, 10))
		return nil
	}
	*f = flexID(n.String())
	return nil
}
