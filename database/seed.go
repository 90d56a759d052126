package database

import (
	"strings"

	"github.com/dimsumluna/ordering-backend/models"
	"github.com/dimsumluna/ordering-backend/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type defaultStaff struct {
	Name     string
	Email    string
	Password string
	Role     string
}

var defaultStaffAccounts = []defaultStaff{
	{Name: "Staff Member", Email: "staff@dimsum.com", Password: "dimsum.staff", Role: models.RoleStaff},
	{Name: "Administrator", Email: "admin@dimsum.com", Password: "dimsum.admin", Role: models.RoleAdmin},
}

type defaultMenuItem struct {
	Name     string
	Price    float64
	Category string
	Image    string
}

var defaultMenuItems = []defaultMenuItem{
	{"Steamed Sausage Rolls", 115.00, "Steamed Dishes", "/static/images/menu-items/steamed-sausage-rolls.jpg"},
	{"Steamed Soup Dumplings", 140.00, "Steamed Dishes", "/static/images/menu-items/steamed-soup-dumplings.jpg"},
	{"Shrimp Dumplings", 150.00, "Steamed Dishes", "/static/images/menu-items/shrimp-dumplings.jpg"},
	{"Pork Sui Mai", 135.00, "Steamed Dishes", "/static/images/menu-items/pork-sui-mai.jpg"},
	{"Steamed Pork Ribs", 125.00, "Steamed Dishes", "/static/images/menu-items/steamed-pork-ribs.jpg"},
	{"Steamed Chicken Feet", 120.00, "Steamed Dishes", "/static/images/menu-items/steamed-chicken-feet.jpg"},
	{"Sticky Rice in Lotus Leaf", 155.00, "Steamed Dishes", "/static/images/menu-items/sticky-rice-in-lotus-leaf.jpg"},
	{"Steamed Pork Buns", 105.00, "Steamed Dishes", "/static/images/menu-items/steamed-pork-buns.jpg"},
	{"Baked Pork Buns", 120.00, "Baked Dishes", "/static/images/menu-items/baked-pork-buns.jpg"},
	{"BBQ Pork Puffs", 130.00, "Baked Dishes", "/static/images/menu-items/bbq-pork-puffs.jpg"},
	{"Glutinous Rice Dumplings", 145.00, "Fried Dishes", "/static/images/menu-items/glutinous-rice-dumplings.jpg"},
	{"Taro Root Dumplings", 135.00, "Fried Dishes", "/static/images/menu-items/taro-root-dumplings.jpg"},
	{"Pan Fried Turnip Cake", 115.00, "Fried Dishes", "/static/images/menu-items/pan-fried-turnip-cake.jpg"},
	{"Fried Sticky Rice", 155.00, "Fried Dishes", "/static/images/menu-items/fried-sticky-rice.jpg"},
	{"Stuffed Eggplant", 140.00, "Fried Dishes", "/static/images/menu-items/stuffed-eggplant.jpg"},
	{"Spring Rolls", 105.00, "Fried Dishes", "/static/images/menu-items/spring-rolls.jpg"},
	{"Shrimp Noodle Rolls", 160.00, "Noodles", "/static/images/menu-items/shrimp-noodle-rolls.jpg"},
	{"Beef Noodle Rolls", 165.00, "Noodles", "/static/images/menu-items/beef-noodle-rolls.jpg"},
	{"Chinese Donut Noodle Rolls", 150.00, "Noodles", "/static/images/menu-items/chinese-donut-noodle-rolls.jpg"},
	{"Dried Shrimp Scallion Noodle Rolls", 155.00, "Noodles", "/static/images/menu-items/dried-shrimp-scallion-noodle-rolls.jpg"},
	{"Clams in Black Bean Sauce", 175.00, "Special Dishes", "/static/images/menu-items/clams-in-black-bean-sauce.jpg"},
	{"Steamed Beef Tripe", 145.00, "Special Dishes", "/static/images/menu-items/steamed-beef-tripe.jpg"},
	{"BBQ Pork Noodle Rolls", 160.00, "Noodles", "/static/images/menu-items/bbq-pork-noodle-rolls.jpg"},
	{"Garlic Pea Sprouts", 135.00, "Special Dishes", "/static/images/menu-items/garlic-pea-sprouts.jpg"},
	{"Deep Fried Egg Puffs", 105.00, "Dessert", "/static/images/menu-items/deep-fried-egg-puffs.jpg"},
	{"Deep Fried Twisted Egg Puffs", 110.00, "Dessert", "/static/images/menu-items/deep-fried-twisted-egg-puffs.jpg"},
	{"Egg Tarts", 85.00, "Dessert", "/static/images/menu-items/egg-tarts.jpg"},
	{"Fried Sesame Balls", 100.00, "Dessert", "/static/images/menu-items/fried-sesame-balls.jpg"},
	{"Steamed Sesame Balls", 105.00, "Dessert", "/static/images/menu-items/steamed-sesame-balls.jpg"},
	{"Sponge Cake", 90.00, "Dessert", "/static/images/menu-items/sponge-cake.jpg"},
	{"Mango Pudding", 120.00, "Dessert", "/static/images/menu-items/mango-pudding.jpg"},
	{"Sweet Tofu", 115.00, "Dessert", "/static/images/menu-items/sweet-tofu.jpg"},
}

// Seed installs the default staff accounts and merges the default
// catalog. The merge is non-destructive: prices of known items are
// synced, missing image/category fields are filled, new defaults are
// inserted, and operator-added items are left alone.
func Seed(db *gorm.DB) error {
	for _, account := range defaultStaffAccounts {
		var existing models.StaffUser
		err := db.Where("email = ?", account.Email).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		staff := models.StaffUser{
			Name:     account.Name,
			Email:    account.Email,
			Password: string(hashed),
			Role:     account.Role,
		}
		if err := db.Create(&staff).Error; err != nil {
			return err
		}
		utils.InfoLogger.Printf("Seeded staff account %s (role=%s)", staff.Email, staff.Role)
	}

	for _, def := range defaultMenuItems {
		var existing models.MenuItem
		err := db.Where("LOWER(name) = ?", strings.ToLower(def.Name)).First(&existing).Error

		switch {
		case err == nil:
			changed := false
			if existing.Price != def.Price {
				existing.Price = def.Price
				changed = true
			}
			if existing.ImageURL == "" {
				existing.ImageURL = def.Image
				changed = true
			}
			if existing.Category == "" {
				existing.Category = def.Category
				changed = true
			}
			if changed {
				if err := db.Save(&existing).Error; err != nil {
					return err
				}
			}
		case err == gorm.ErrRecordNotFound:
			item := models.MenuItem{
				Name:      def.Name,
				Price:     def.Price,
				Category:  def.Category,
				ImageURL:  def.Image,
				Available: true,
			}
			if err := db.Create(&item).Error; err != nil {
				return err
			}
		default:
			return err
		}
	}

	return nil
}
