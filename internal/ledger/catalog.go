package ledger

import (
	"github.com/sheikh-saqib/apb-demo-bank/internal/models"
	"github.com/shopspring/decimal"
)

var catalog = []models.StoreItem{
	{ID: "item1", Name: "VIP Status", Price: decimal.NewFromInt(1500), Description: "Gold border around your profile."},
	{ID: "item2", Name: "Priority Support", Price: decimal.NewFromInt(500), Description: "Skip the line for clerk support."},
	{ID: "item3", Name: "Private Banker", Price: decimal.NewFromInt(2500), Description: "Unlock the high-yield vault."},
	{ID: "item4", Name: "Digital Yacht", Price: decimal.NewFromInt(50000), Description: "The ultimate status symbol."},
}

// Catalog returns the market items in display order.
func Catalog() []models.StoreItem {
	out := make([]models.StoreItem, len(catalog))
	copy(out, catalog)
	return out
}

// LookupItem finds a catalogue entry by id.
func LookupItem(id string) (models.StoreItem, bool) {
	for _, item := range catalog {
		if item.ID == id {
			return item, true
		}
	}
	return models.StoreItem{}, false
}
