package catalog

import (
	"encoding/csv"
	"io"
	"strconv"
)

// Header is the column order of WriteCSV.
var Header = []string{"product_id", "product_name", "brand", "category", "gramm_g"}

// WriteCSV writes the catalog as a product table. gramm_g is empty for
// products without a weight.
func (c *Catalog) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, p := range c.Products {
		gramm := ""
		if p.GrammG > 0 {
			gramm = strconv.Itoa(p.GrammG)
		}
		if err := cw.Write([]string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Brand,
			string(p.Category),
			gramm,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
