package catalog

import (
	"fmt"
	"math/rand"
	"sort"

	"salesim/internal/simulation"
)

// SampleConfig selects how many products of each kind a catalog carries.
type SampleConfig struct {
	Seed         int64
	NDevices     int
	NAccessories int
	NSpareParts  int
	NRefills     int // regular refills
	NBulkRefills int
}

// Catalog is a sampled product table with sequential identifiers.
type Catalog struct {
	Products []Product
}

// Sample draws a catalog from universe. Fixed categories are sampled without
// replacement; regular refills are spread evenly across refill brands and
// repeat within a brand only when it has fewer products than its quota.
// The result is shuffled before IDs are assigned from 1.
func Sample(universe []Product, cfg SampleConfig) (*Catalog, error) {
	counts := []struct {
		name string
		n    int
	}{
		{"devices", cfg.NDevices},
		{"accessories", cfg.NAccessories},
		{"spare parts", cfg.NSpareParts},
		{"refills", cfg.NRefills},
		{"bulk refills", cfg.NBulkRefills},
	}
	for _, c := range counts {
		if c.n < 0 {
			return nil, fmt.Errorf("catalog: requested %s must be >= 0, got %d", c.name, c.n)
		}
	}

	var devices, accessories, spareParts, refills, bulk []Product
	for _, p := range universe {
		switch {
		case p.Category == Device:
			devices = append(devices, p)
		case p.Category == Accessory:
			accessories = append(accessories, p)
		case p.Category == SparePart:
			spareParts = append(spareParts, p)
		case p.Category == Refill && p.Bulk:
			bulk = append(bulk, p)
		case p.Category == Refill:
			refills = append(refills, p)
		}
	}

	pools := []struct {
		name string
		pool []Product
		n    int
	}{
		{"DEVICE", devices, cfg.NDevices},
		{"ACCESSORY", accessories, cfg.NAccessories},
		{"SPARE_PART", spareParts, cfg.NSpareParts},
		{"regular REFILL", refills, cfg.NRefills},
		{"bulk REFILL", bulk, cfg.NBulkRefills},
	}
	for _, p := range pools {
		if len(p.pool) < p.n {
			return nil, fmt.Errorf("catalog: universe has %d %s rows, requested %d", len(p.pool), p.name, p.n)
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	var picked []Product
	picked = append(picked, pickWithout(rng, devices, cfg.NDevices)...)
	picked = append(picked, pickWithout(rng, accessories, cfg.NAccessories)...)
	picked = append(picked, pickWithout(rng, spareParts, cfg.NSpareParts)...)
	picked = append(picked, pickWithout(rng, bulk, cfg.NBulkRefills)...)
	picked = append(picked, pickRefills(rng, refills, cfg.NRefills)...)

	rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	for i := range picked {
		picked[i].ID = int64(i + 1)
	}
	return &Catalog{Products: picked}, nil
}

func pickWithout(rng *rand.Rand, pool []Product, n int) []Product {
	if n == 0 {
		return nil
	}
	out := make([]Product, 0, n)
	for _, idx := range rng.Perm(len(pool))[:n] {
		out = append(out, pool[idx])
	}
	return out
}

func pickRefills(rng *rand.Rand, pool []Product, n int) []Product {
	if n == 0 {
		return nil
	}
	byBrand := make(map[string][]Product)
	for _, p := range pool {
		byBrand[p.Brand] = append(byBrand[p.Brand], p)
	}
	brands := make([]string, 0, len(byBrand))
	for b := range byBrand {
		brands = append(brands, b)
	}
	sort.Strings(brands)

	base := n / len(brands)
	remainder := n % len(brands)

	var out []Product
	for i, brand := range brands {
		qty := base
		if i < remainder {
			qty++
		}
		if qty == 0 {
			continue
		}
		brandPool := byBrand[brand]
		if qty > len(brandPool) {
			for k := 0; k < qty; k++ {
				out = append(out, brandPool[rng.Intn(len(brandPool))])
			}
			continue
		}
		out = append(out, pickWithout(rng, brandPool, qty)...)
	}
	return out
}

// Pools splits the catalog into the simulator's sampling pools. Bulk refills
// are refills.
func (c *Catalog) Pools() simulation.Pools {
	var pools simulation.Pools
	for _, p := range c.Products {
		switch p.Category {
		case Device:
			pools.Devices = append(pools.Devices, p.ID)
		case Refill:
			pools.Refills = append(pools.Refills, p.ID)
		case Accessory:
			pools.Accessories = append(pools.Accessories, p.ID)
		case SparePart:
			pools.SpareParts = append(pools.SpareParts, p.ID)
		}
	}
	return pools
}

// Product returns the catalog entry with the given ID.
func (c *Catalog) Product(id int64) (Product, bool) {
	if id < 1 || id > int64(len(c.Products)) {
		return Product{}, false
	}
	return c.Products[id-1], true
}
