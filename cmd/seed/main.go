// Seeds the product catalog and the admin user. Safe to run repeatedly:
// existing products and users are left alone.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"

	"github.com/noshco/storefront/internal/config"
	"github.com/noshco/storefront/internal/database"
	"github.com/noshco/storefront/internal/models"
	"github.com/noshco/storefront/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type seedProduct struct {
	ID        int64
	Name      string
	Category  string
	Price500g string
	Price1kg  string
}

var catalog = []seedProduct{
	{1, "Almonds Plain", "Nuts", "125.00", "229.00"},
	{2, "Almonds Salted", "Nuts", "129.00", "235.00"},
	{3, "Brazil Nuts", "Nuts", "219.00", "389.00"},
	{4, "Cashews Plain", "Nuts", "149.00", "259.00"},
	{5, "Cashews Salted", "Nuts", "149.00", "259.00"},
	{6, "Cashews Peri Peri", "Nuts", "149.00", "259.00"},
	{7, "Macadamias Plain", "Nuts", "125.00", "239.00"},
	{8, "Macadamias Salted", "Nuts", "125.00", "239.00"},
	{9, "Mixed Nuts Plain", "Nuts", "125.00", "239.00"},
	{10, "Mixed Nuts Salted", "Nuts", "125.00", "239.00"},
	{11, "Peanuts & Raisins Salted", "Nuts", "55.00", "85.00"},
	{12, "Peanuts Salted", "Nuts", "55.00", "85.00"},
	{13, "Pecan Nuts Whole", "Nuts", "159.00", "285.00"},
	{14, "Pecan Nuts Pieces", "Nuts", "145.00", "249.00"},
	{15, "Pistachios Salted", "Nuts", "209.00", "369.00"},
	{16, "Walnut Halves", "Nuts", "145.00", "259.00"},
	{17, "Apple Rings", "Dried Fruit", "135.00", "225.00"},
	{18, "Apricots Turkish", "Dried Fruit", "135.00", "225.00"},
	{19, "Banana Chips", "Dried Fruit", "79.00", "135.00"},
	{20, "Cape Peaches", "Dried Fruit", "129.00", "219.00"},
	{21, "Cherries Red Broken", "Dried Fruit", "115.00", "199.00"},
	{22, "Cranberries", "Dried Fruit", "109.00", "189.00"},
	{23, "Dates", "Dried Fruit", "45.00", "69.00"},
	{24, "Cape Figs", "Dried Fruit", "185.00", "319.00"},
	{25, "Mango Strips", "Dried Fruit", "179.00", "309.00"},
	{26, "Mebos Flakes/Lollies", "Dried Fruit", "79.00", "139.00"},
	{27, "Mixed Dried Fruit", "Dried Fruit", "79.00", "139.00"},
	{28, "Pears", "Dried Fruit", "89.00", "155.00"},
	{29, "Prunes Pitted", "Dried Fruit", "105.00", "179.00"},
	{30, "Prunes With Pip", "Dried Fruit", "69.00", "119.00"},
	{31, "Raisins", "Dried Fruit", "45.00", "69.00"},
	{32, "Trail Mix", "Dried Fruit", "79.00", "135.00"},
	{33, "Butter Caramel Popcorn", "Sweets & Gummies", "49.00", "89.00"},
	{34, "Caramel Almonds", "Sweets & Gummies", "149.00", "259.00"},
	{35, "Caramel Cashews", "Sweets & Gummies", "149.00", "259.00"},
	{36, "Caramel Peanuts", "Sweets & Gummies", "59.00", "95.00"},
	{37, "Fruit Salad Gummies", "Sweets & Gummies", "65.00", "105.00"},
	{38, "Ginger Chunks/Slices", "Sweets & Gummies", "105.00", "179.00"},
	{39, "Jelly Babies", "Sweets & Gummies", "65.00", "105.00"},
	{40, "Jelly Beans", "Sweets & Gummies", "89.00", "159.00"},
	{41, "Mixed Gummies", "Sweets & Gummies", "65.00", "105.00"},
	{42, "Mixed Sugar & Sour Gummies", "Sweets & Gummies", "65.00", "105.00"},
	{43, "Pink & White Peanuts", "Sweets & Gummies", "65.00", "105.00"},
	{44, "Sour Worms", "Sweets & Gummies", "65.00", "105.00"},
	{45, "Wine Gums", "Sweets & Gummies", "65.00", "105.00"},
	{46, "Almond Flour", "Seeds & Baking", "145.00", "249.00"},
	{47, "Chia Seeds", "Seeds & Baking", "99.00", "179.00"},
	{48, "Cherries Broken (Red/Green)", "Seeds & Baking", "115.00", "205.00"},
	{49, "Cocoa Powder", "Seeds & Baking", "99.00", "169.00"},
	{50, "Coconut Flakes", "Seeds & Baking", "85.00", "189.00"},
	{51, "Fruit Cake Mix", "Seeds & Baking", "65.00", "95.00"},
	{52, "Linseeds (Flaxseeds)", "Seeds & Baking", "55.00", "79.00"},
	{53, "Mixed Seeds", "Seeds & Baking", "65.00", "119.00"},
	{54, "Oats", "Seeds & Baking", "39.00", "59.00"},
	{55, "Pumpkin Seeds (Pepitas)", "Seeds & Baking", "105.00", "185.00"},
	{56, "Quinoa", "Seeds & Baking", "69.00", "125.00"},
	{57, "Sesame Seeds Black/White", "Seeds & Baking", "75.00", "129.00"},
	{58, "Sunflower Seeds", "Seeds & Baking", "45.00", "75.00"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if err := seedProducts(ctx, db); err != nil {
		log.Fatalf("Seed products: %v", err)
	}

	if err := seedAdmin(ctx, db); err != nil {
		log.Fatalf("Seed admin: %v", err)
	}

	log.Println("Seeding complete")
}

func seedProducts(ctx context.Context, db *sql.DB) error {
	inserted := 0
	for _, p := range catalog {
		result, err := db.ExecContext(ctx,
			`INSERT INTO products (id, name, category, price_500g, price_1kg, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			 ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.Category, p.Price500g, p.Price1kg)
		if err != nil {
			return err
		}
		if n, _ := result.RowsAffected(); n > 0 {
			inserted++
		}
	}

	// Keep the sequence ahead of the explicit seed ids.
	_, err := db.ExecContext(ctx,
		`SELECT setval(pg_get_serial_sequence('products', 'id'), (SELECT MAX(id) FROM products))`)
	if err != nil {
		return err
	}

	log.Printf("Inserted %d of %d products", inserted, len(catalog))
	return nil
}

func seedAdmin(ctx context.Context, db *sql.DB) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Println("ADMIN_USERNAME/ADMIN_PASSWORD not set, skipping admin user")
		return nil
	}

	_, err := store.GetUserByUsername(ctx, db, username)
	if err == nil {
		log.Printf("Admin user %q already exists", username)
		return nil
	}
	if !errors.Is(err, database.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := store.CreateUser(ctx, db, username, string(hash), models.RoleAdmin); err != nil {
		return err
	}

	log.Printf("Created admin user %q", username)
	return nil
}
