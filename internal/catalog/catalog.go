// Package catalog holds the built-in product recipes a brew can track.
package catalog

// Product is a named recipe with default timing and descriptive metadata.
// Catalog products are immutable; per-brew overrides of the day counts are
// stored on the tracked brew itself, never written back here.
type Product struct {
	ID               string
	Name             string
	Style            string
	Description      string
	ABV              float64
	BrewingDays      int
	ConditioningDays int
	ImageURL         string
}

// Products is the built-in catalog, ordered for display.
var Products = []Product{
	{
		ID:               "hazy-pale",
		Name:             "Cloud Cover",
		Style:            "Hazy Pale Ale",
		Description:      "Juicy, soft-bodied pale with Citra and Mosaic. Low bitterness, big aroma.",
		ABV:              4.8,
		BrewingDays:      5,
		ConditioningDays: 10,
		ImageURL:         "/img/hazy-pale.jpg",
	},
	{
		ID:               "west-coast-ipa",
		Name:             "Ridgeline",
		Style:            "West Coast IPA",
		Description:      "Resinous and dry with a firm bitter finish. Centennial and Simcoe.",
		ABV:              6.2,
		BrewingDays:      7,
		ConditioningDays: 14,
		ImageURL:         "/img/west-coast-ipa.jpg",
	},
	{
		ID:               "session-lager",
		Name:             "Slipway",
		Style:            "Session Lager",
		Description:      "Crisp, clean and easy-going. Best conditioned cold and patient.",
		ABV:              4.1,
		BrewingDays:      7,
		ConditioningDays: 21,
		ImageURL:         "/img/session-lager.jpg",
	},
	{
		ID:               "oatmeal-stout",
		Name:             "Peat Cutter",
		Style:            "Oatmeal Stout",
		Description:      "Silky dark ale with chocolate malt and a gentle roast edge.",
		ABV:              5.0,
		BrewingDays:      6,
		ConditioningDays: 12,
		ImageURL:         "/img/oatmeal-stout.jpg",
	},
	{
		ID:               "berry-sour",
		Name:             "Hedgerow",
		Style:            "Berry Sour",
		Description:      "Kettle sour with raspberry and blackcurrant. Tart, bright, short condition.",
		ABV:              3.9,
		BrewingDays:      4,
		ConditioningDays: 7,
		ImageURL:         "/img/berry-sour.jpg",
	},
	{
		ID:               "amber-ale",
		Name:             "Brass Handle",
		Style:            "Amber Ale",
		Description:      "Balanced caramel malt backbone with classic English hops.",
		ABV:              4.5,
		BrewingDays:      6,
		ConditioningDays: 10,
		ImageURL:         "/img/amber-ale.jpg",
	},
}

// Find returns the catalog product with the given id, or false when no such
// product exists.
func Find(id string) (Product, bool) {
	for _, p := range Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
