package seeders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/citizenjaivik/jaivik/app/models"
)

func init() {
	Register("products", SeedProducts)
}

// SeedProducts fills the local catalog with demo produce. Upserts by id so
// re-running the seeder is safe.
func SeedProducts(db *gorm.DB) error {
	products := []models.Product{
		{
			ID: "prod-desi-tomato", Name: "Desi Tomato", Category: "Vegetables",
			SubCategory: "Daily Veggies", Price: 40, Unit: "kg",
			FarmerName: "Ramesh Kumar", FarmerDetails: "Naubatpur, Patna",
			ProductDetails: "Open-pollinated desi tomatoes, no chemical sprays.",
			InStock:        true,
		},
		{
			ID: "prod-spinach", Name: "Spinach", Category: "Vegetables",
			SubCategory: "Leafy Greens", Price: 30, Unit: "bunch",
			FarmerName: "Anil Singh", FarmerDetails: "Maner, Patna",
			ProductDetails: "Harvested the same morning it ships.",
			InStock:        true,
		},
		{
			ID: "prod-bhindi", Name: "Okra (Bhindi)", Category: "Vegetables",
			SubCategory: "Daily Veggies", Price: 50, Unit: "kg",
			FarmerName: "Anil Singh", FarmerDetails: "Maner, Patna",
			InStock: true,
		},
		{
			ID: "prod-alphonso", Name: "Alphonso Mango", Category: "Fruits",
			SubCategory: "Seasonal", Price: 350, Unit: "dozen",
			FarmerName: "Sita Devi", FarmerDetails: "Bhagalpur",
			ProductDetails: "Carbide-free ripening.",
			InStock:        false,
		},
		{
			ID: "prod-banana", Name: "Chinia Banana", Category: "Fruits",
			SubCategory: "Daily Fruits", Price: 60, Unit: "dozen",
			FarmerName: "Sita Devi", FarmerDetails: "Bhagalpur",
			InStock: true,
		},
		{
			ID: "prod-black-rice", Name: "Black Rice", Category: "Grains",
			SubCategory: "Rice", Price: 180, Unit: "kg",
			FarmerName: "Mahesh Yadav", FarmerDetails: "Katihar",
			ProductDetails: "Traditional kalanamak variety.",
			InStock:        true,
		},
		{
			ID: "prod-masoor-dal", Name: "Masoor Dal", Category: "Pulses",
			SubCategory: "Dal", Price: 120, Unit: "kg",
			FarmerName: "Mahesh Yadav", FarmerDetails: "Katihar",
			InStock: true,
		},
		{
			ID: "prod-mustard-oil", Name: "Cold-Pressed Mustard Oil", Category: "Oils",
			SubCategory: "Cooking Oil", Price: 240, Unit: "litre",
			FarmerName: "Ramesh Kumar", FarmerDetails: "Naubatpur, Patna",
			ProductDetails: "Wood-pressed (kachi ghani).",
			InStock:        true,
		},
	}

	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&products).Error
}
