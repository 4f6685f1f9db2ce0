package allocation

// CatalogEntry pairs a strategy id with its template and display name.
type CatalogEntry struct {
	ID          string
	DisplayName string
	Template    StrategyTemplate
}

// Catalog is an immutable, ordered set of strategy templates.
type Catalog struct {
	ids     []string
	entries map[string]CatalogEntry
}

// NewCatalog builds a catalog from entries. Later duplicates of an id are ignored.
func NewCatalog(entries ...CatalogEntry) *Catalog {
	c := &Catalog{entries: make(map[string]CatalogEntry, len(entries))}
	for _, e := range entries {
		if _, exists := c.entries[e.ID]; exists {
			continue
		}
		e.Template = e.Template.clone()
		c.ids = append(c.ids, e.ID)
		c.entries[e.ID] = e
	}
	return c
}

var defaultCatalog = NewCatalog(
	CatalogEntry{
		ID:          "conservative-short-term",
		DisplayName: "Conservative Short-Term Vault",
		Template: StrategyTemplate{
			RiskTier:       1,
			TargetDuration: 90,
			MaxAssets:      5,
			MinCreditScore: floatPtr(80),
		},
	},
	CatalogEntry{
		ID:          "real-estate-heavy",
		DisplayName: "Real Estate Heavy Vault",
		Template: StrategyTemplate{
			RiskTier:       3,
			TargetDuration: 1825,
			MaxAssets:      4,
			PreferredTypes: []string{"real-estate"},
		},
	},
	CatalogEntry{
		ID:          "startup-exposure",
		DisplayName: "Startup Exposure Vault",
		Template: StrategyTemplate{
			RiskTier:       4,
			TargetDuration: 0,
			MaxAssets:      6,
			PreferredTypes: []string{"startup-fund"},
		},
	},
	CatalogEntry{
		ID:          "balanced-diversified",
		DisplayName: "Balanced Diversified Vault",
		Template: StrategyTemplate{
			RiskTier:           3,
			TargetDuration:     1095,
			MaxAssets:          8,
			MinDiversification: intPtr(5),
		},
	},
	CatalogEntry{
		ID:          "high-yield-long-term",
		DisplayName: "High-Yield Long-Term Vault",
		Template: StrategyTemplate{
			RiskTier:       5,
			TargetDuration: 3650,
			MaxAssets:      6,
			MinYield:       floatPtr(10.0),
		},
	},
)

// DefaultCatalog returns the built-in strategy templates.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// Get returns a copy of the template registered under id.
func (c *Catalog) Get(id string) (StrategyTemplate, bool) {
	e, ok := c.entries[id]
	if !ok {
		return StrategyTemplate{}, false
	}
	return e.Template.clone(), true
}

// IDs returns the catalog ids in registration order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.ids...)
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// DisplayName returns the fixed display name for id, or "" when none is registered.
func (c *Catalog) DisplayName(id string) string {
	return c.entries[id].DisplayName
}
