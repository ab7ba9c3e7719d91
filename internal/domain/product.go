package domain

// Category is one of the fixed set of catalog categories.
type Category string

const (
	CategoryElectronics    Category = "Electronics"
	CategorySoftware       Category = "Software"
	CategoryHardware       Category = "Hardware"
	CategoryServices       Category = "Services"
	CategoryOfficeSupplies Category = "Office Supplies"
	CategoryAutomotive     Category = "Automotive Spare Parts"
)

// Categories lists every catalog category in display order.
var Categories = []Category{
	CategoryElectronics,
	CategorySoftware,
	CategoryHardware,
	CategoryServices,
	CategoryOfficeSupplies,
	CategoryAutomotive,
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents a catalog product. A trashed product stays in the
// store so it can be restored or permanently deleted from the trash view,
// but it is excluded from every customer-facing listing.
type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Category       Category          `json:"category"`
	Price          float64           `json:"price"`
	Description    string            `json:"description"`
	ImageURL       string            `json:"imageUrl"`
	Specifications map[string]string `json:"specifications"`
	Stock          int               `json:"stock"`
	IsTrashed      bool              `json:"isTrashed"`
}
