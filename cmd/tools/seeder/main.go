package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/alexedwards/argon2id"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedProfile(db)
	seedStaff(db)
	seedCatalog(db)
	seedDeals(db)

	log.Println("Seeding completed successfully!")
}

func seedProfile(db *sql.DB) {
	_, err := db.Exec(`
		INSERT INTO shop_profile (id, name, address, currency, tax_rate)
		VALUES (1, 'Corner Slice Pizzeria', '12 High Street', 'USD', 0.1)
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		log.Fatalf("Failed to seed shop profile: %v", err)
	}
}

func seedStaff(db *sql.DB) {
	pin := os.Getenv("SEED_ADMIN_PIN")
	if pin == "" {
		pin = "1234"
		log.Println("SEED_ADMIN_PIN not set, using default pin 1234")
	}
	hash, err := argon2id.CreateHash(pin, argon2id.DefaultParams)
	if err != nil {
		log.Fatalf("Failed to hash pin: %v", err)
	}
	_, err = db.Exec(`
		INSERT INTO staff (id, name, role, pin_hash, active)
		VALUES ('staff-admin', 'Admin', 'ADMIN', $1, true)
		ON CONFLICT (id) DO NOTHING`, hash)
	if err != nil {
		log.Fatalf("Failed to seed staff: %v", err)
	}
}

func seedCatalog(db *sql.DB) {
	_, err := db.Exec(`
		INSERT INTO categories (id, name, icon, ticket_priority, sort_order) VALUES
		('cat-entrees', 'Entrees', 'salad', 1, 1),
		('cat-pizzas', 'Pizzas', 'pizza', 2, 2),
		('cat-sides', 'Sides', 'fries', 3, 3),
		('cat-drinks', 'Drinks', 'cup', NULL, 4)
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO toppings (id, name, price, type, available) VALUES
		('top-olives', 'Olives', 1.5, 'TOPPING', true),
		('top-ham', 'Ham', 2, 'TOPPING', true),
		('top-mushrooms', 'Mushrooms', 1.5, 'TOPPING', true),
		('top-pineapple', 'Pineapple', 1.5, 'TOPPING', true),
		('sauce-tomato', 'Tomato Sauce', 0, 'SAUCE_OPTION', true),
		('sauce-bbq', 'BBQ Sauce', 0, 'SAUCE_OPTION', true),
		('base-regular', 'Regular', 0, 'BASE_OPTION', true),
		('base-gf', 'Gluten Free', 3, 'BASE_OPTION', true)
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		log.Fatalf("Failed to seed toppings: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO menu_items
		(id, name, category_id, available, kind, allow_modifiers, pricing_type,
		 price, size_prices, available_sizes, default_toppings, required_selection_ids)
		VALUES
		('item-margherita', 'Margherita', 'cat-pizzas', true, 'SINGLE', true, 'SIZE_BASED',
		 0, '{"Small": 12, "Large": 18, "Family": 24}', '["Small", "Large", "Family"]',
		 '["sauce-tomato"]', '["base-regular", "base-gf"]'),
		('item-pepperoni', 'Pepperoni', 'cat-pizzas', true, 'SINGLE', true, 'SIZE_BASED',
		 0, '{"Small": 13, "Large": 19, "Family": 25}', '["Small", "Large", "Family"]',
		 '["sauce-tomato"]', '["base-regular", "base-gf"]'),
		('item-meat-lovers', 'Meat Lovers', 'cat-pizzas', true, 'SINGLE', true, 'SIZE_BASED',
		 0, '{"Small": 14, "Large": 20, "Family": 26}', '["Small", "Large", "Family"]',
		 '["sauce-bbq", "top-ham"]', '["base-regular", "base-gf"]'),
		('item-garlic-bread', 'Garlic Bread', 'cat-entrees', true, 'SINGLE', false, 'FIXED',
		 6.5, NULL, NULL, NULL, NULL),
		('item-chips', 'Chips', 'cat-sides', true, 'SINGLE', false, 'FIXED',
		 5, NULL, NULL, NULL, NULL),
		('item-cola', 'Cola 375ml', 'cat-drinks', true, 'SINGLE', false, 'FIXED',
		 3.5, NULL, NULL, NULL, NULL)
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		log.Fatalf("Failed to seed menu items: %v", err)
	}
}

func seedDeals(db *sql.DB) {
	_, err := db.Exec(`
		INSERT INTO discount_rules
		(id, name, type, value, target_category_id, buy_quantity, get_quantity, requirements, active, priority)
		VALUES
		('deal-family-combo', 'Family Combo', 'COMBO', 39.99, NULL, 0, 0,
		 '[{"categoryId": "cat-pizzas", "quantity": 2}, {"categoryId": "cat-sides", "quantity": 1}, {"categoryId": "cat-drinks", "quantity": 2}]',
		 true, 1),
		('deal-pizza-bogo', 'Tuesday Pizza BOGO', 'BOGO', 100, 'cat-pizzas', 1, 1, NULL, false, 2),
		('deal-drinks-10', 'Drinks 10% Off', 'PERCENTAGE', 10, 'cat-drinks', 0, 0, NULL, true, 3)
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		log.Fatalf("Failed to seed discount rules: %v", err)
	}
}
