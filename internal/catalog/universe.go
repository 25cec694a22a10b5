package catalog

import "fmt"

// Category classifies a product for basket composition.
type Category string

const (
	Device    Category = "DEVICE"
	Accessory Category = "ACCESSORY"
	SparePart Category = "SPARE_PART"
	Refill    Category = "REFILL"
)

// Product is one entry of the universe or of a sampled catalog.
// ID is zero until the product is sampled into a catalog.
type Product struct {
	ID       int64    `json:"product_id"`
	Name     string   `json:"product_name"`
	Brand    string   `json:"brand"`
	Category Category `json:"category"`
	GrammG   int      `json:"gramm_g,omitempty"`
	Bulk     bool     `json:"-"`
}

// BulkRefill describes an explicit industrial refill of the universe.
type BulkRefill struct {
	Brand  string
	Scent  string
	GrammG int
	Suffix string
}

// UniverseSettings lists the templates the full product space is built from.
type UniverseSettings struct {
	DeviceBrands []string
	RefillBrands []string
	Devices      []string
	Accessories  []string
	SpareParts   []string
	Scents       []string
	RefillSizesG []int
	BulkRefills  []BulkRefill
}

// DefaultUniverse is the scent diffuser product space.
var DefaultUniverse = UniverseSettings{
	DeviceBrands: []string{"AromaDrive", "BreezeLine", "FreshNest"},
	RefillBrands: []string{"Good Smell", "AromaWave", "FreshNest", "Citrus & Co", "BreezeLine"},
	Devices: []string{
		"Diffuser Machine - Home",
		"Diffuser Machine - Compact",
		"Nebulizer Machine - Pro",
		"Car Diffuser Machine - Clip",
		"Car Diffuser Machine - Mini",
	},
	Accessories: []string{
		"Wall Bracket Mount",
		"Hanging Strap",
		"Decor Sticker Pack",
		"Protective Sleeve",
		"Travel Pouch",
		"Cable Organizer Clip",
		"Adhesive Mount Pad",
		"Car Vent Holder",
		"Desk Stand Base",
		"Cleaning Wipes Pack",
	},
	SpareParts: []string{
		"Replacement Cap",
		"Nozzle Holder",
		"Scent Cartridge Holder",
		"Seal Ring (O-Ring)",
		"Diffuser Wick Set",
		"Power Adapter",
		"USB Cable",
		"Clip Replacement",
	},
	Scents:       []string{"Citrus", "Lavender", "Coffee", "Vanilla", "Ocean", "Jasmine", "Rose", "Mint", "Pine", "Chocolate"},
	RefillSizesG: []int{10, 20, 30, 50, 100},
	BulkRefills: []BulkRefill{
		{Brand: "Good Smell", Scent: "Citrus", GrammG: 500, Suffix: "(Industrial)"},
		{Brand: "AromaWave", Scent: "Lavender", GrammG: 500, Suffix: "(Industrial)"},
		{Brand: "FreshNest", Scent: "Coffee", GrammG: 1000, Suffix: "(Industrial)"},
	},
}

// BuildUniverse expands the settings into every possible product.
// Devices, accessories and spare parts are device brand x template; regular
// refills are refill brand x scent x size; bulk refills are listed explicitly.
func BuildUniverse(s UniverseSettings) []Product {
	var out []Product
	for _, brand := range s.DeviceBrands {
		for _, name := range s.Devices {
			out = append(out, Product{Name: brand + " " + name, Brand: brand, Category: Device})
		}
	}
	for _, brand := range s.DeviceBrands {
		for _, name := range s.Accessories {
			out = append(out, Product{Name: brand + " " + name, Brand: brand, Category: Accessory})
		}
	}
	for _, brand := range s.DeviceBrands {
		for _, name := range s.SpareParts {
			out = append(out, Product{Name: brand + " " + name, Brand: brand, Category: SparePart})
		}
	}
	for _, brand := range s.RefillBrands {
		for _, scent := range s.Scents {
			for _, g := range s.RefillSizesG {
				out = append(out, Product{
					Name:     fmt.Sprintf("%s Refill Liquid %s %d", brand, scent, g),
					Brand:    brand,
					Category: Refill,
					GrammG:   g,
				})
			}
		}
	}
	for _, br := range s.BulkRefills {
		name := fmt.Sprintf("%s Refill Liquid %s %d", br.Brand, br.Scent, br.GrammG)
		if br.Suffix != "" {
			name += " " + br.Suffix
		}
		out = append(out, Product{Name: name, Brand: br.Brand, Category: Refill, GrammG: br.GrammG, Bulk: true})
	}
	return out
}
