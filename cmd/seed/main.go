package main

import (
	"errors"
	"log"

	"github.com/ddrozdov/storefront-backend/config"
	"github.com/ddrozdov/storefront-backend/internal/app/model"
	"github.com/ddrozdov/storefront-backend/internal/db"
	"github.com/ddrozdov/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

type seedProduct struct {
	name        string
	description string
	price       float64
	productType model.ProductType
}

var demoUsers = []struct {
	username string
	email    string
	password string
}{
	{"alice", "alice@example.com", "password123"},
	{"bob", "bob@example.com", "password123"},
}

var demoCatalogue = []seedProduct{
	{"iPhone 15 Pro", "Apple flagship smartphone with titanium body", 999.99, model.TypeElectronics},
	{"Nike Air Max", "Classic running shoes with visible air cushioning", 129.99, model.TypeClothing},
	{"MacBook Pro 14\"", "Apple laptop with M3 Pro chip", 1999.99, model.TypeElectronics},
	{"Levi's 501 Jeans", "Original fit straight leg jeans", 79.99, model.TypeClothing},
	{"Samsung 4K TV", "55 inch smart TV with HDR", 599.99, model.TypeElectronics},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	gormDB := db.GetDB()

	users := make([]*model.User, 0, len(demoUsers))
	for _, u := range demoUsers {
		user, err := upsertUser(gormDB, u.username, u.email, u.password)
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.email, err)
		}
		users = append(users, user)
	}

	seeded := 0
	for i, p := range demoCatalogue {
		// Alternate ownership between the demo users
		owner := users[i%len(users)]

		created, err := upsertProduct(gormDB, p, owner.ID)
		if err != nil {
			log.Fatalf("Failed to seed product %s: %v", p.name, err)
		}
		if created {
			seeded++
		}
	}

	log.Printf("Seed complete: %d users, %d new products", len(users), seeded)
}

func upsertUser(gormDB *gorm.DB, username, email, password string) (*model.User, error) {
	var existing model.User
	err := gormDB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleCustomer,
	}
	if err := gormDB.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func upsertProduct(gormDB *gorm.DB, p seedProduct, ownerID uint) (bool, error) {
	var existing model.Product
	err := gormDB.Where("name = ?", p.name).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	product := &model.Product{
		Name:             p.name,
		ShortDescription: p.description,
		Price:            p.price,
		ProductType:      p.productType,
		CreatedByUserID:  ownerID,
	}
	if err := gormDB.Create(product).Error; err != nil {
		return false, err
	}
	return true, nil
}
