package main

import (
	"log"
	"os"
	"strings"

	"amanah/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB
var store *gormStore

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	store = newStore(db)
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	// Ensure the roles master table exists first and seed it so users FK can be applied safely.
	if shouldMigrate {
		if err := db.AutoMigrate(&models.Role{}); err != nil {
			log.Printf("migration warning (roles): %v", err)
		}
	}
	seedRoles()

	// Now migrate the rest (users will get FK to roles)
	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Printf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
			log.Printf("migration warning (refresh_tokens): %v", err)
		}
		if err := db.AutoMigrate(&models.Child{}); err != nil {
			log.Printf("migration warning (children): %v", err)
		}
		if err := db.AutoMigrate(&models.Goal{}); err != nil {
			log.Printf("migration warning (goals): %v", err)
		}
		if err := db.AutoMigrate(&models.GoalOwner{}); err != nil {
			log.Printf("migration warning (goal_owners): %v", err)
		}
		if err := db.AutoMigrate(&models.Transaction{}); err != nil {
			log.Printf("migration warning (transactions): %v", err)
		}
		if err := db.AutoMigrate(&models.InvestmentPortfolio{}); err != nil {
			log.Printf("migration warning (investment_portfolios): %v", err)
		}
		if err := db.AutoMigrate(&models.FundDirective{}); err != nil {
			log.Printf("migration warning (fund_directives): %v", err)
		}
	}

	// Ensure goal_owners -> children FK exists (AutoMigrate does not add it for the join row)
	if shouldMigrate {
		if err := ensureGoalOwnerChildFK(); err != nil {
			log.Printf("warning: ensuring goal_owners->children FK failed: %v", err)
		}
	}
	seedDB()
}

// ensureGoalOwnerChildFK adds the goal_owners.child_id index and FK constraint if they are missing,
// so deleting a child removes its owner association as well.
func ensureGoalOwnerChildFK() error {
	// 1. Create index (idempotent)
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_goal_owners_child_id ON goal_owners(child_id)`).Error; err != nil {
		return err
	}
	// 2. Check if FK already present
	type cnt struct{ N int }
	var c cnt
	fkCheckSQL := `SELECT count(*) AS n
		FROM pg_constraint ct
		JOIN pg_class rel ON rel.oid = ct.conrelid
		WHERE rel.relname = 'goal_owners' AND ct.contype = 'f'
		  AND pg_get_constraintdef(ct.oid) ILIKE '%child_id%' AND pg_get_constraintdef(ct.oid) ILIKE '%children%'`
	if err := db.Raw(fkCheckSQL).Scan(&c).Error; err != nil {
		return err
	}
	if c.N == 0 {
		if err := db.Exec(`ALTER TABLE goal_owners
			ADD CONSTRAINT fk_goal_owners_children
			FOREIGN KEY (child_id) REFERENCES children(id)
			ON UPDATE CASCADE ON DELETE CASCADE`).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedRoles() {
	roles := []models.Role{
		{Name: "parent", Description: "parent managing children"},
		{Name: "child", Description: "child viewing their own goal"},
		{Name: "administrator", Description: "full access"},
	}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}
}

func seedDB() {
	seedRoles()

	// Check if admin user exists
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		// find administrator role id
		var role models.Role
		if err := db.Where("name = ?", "administrator").First(&role).Error; err != nil {
			log.Printf("failed to find administrator role: %v", err)
		}
		// Seed admin user
		rid := role.ID
		admin := models.User{
			Username: "admin",
			RoleID:   &rid,
		}
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin.HashedPassword = hashedPassword
		db.Create(&admin)
		log.Println("Seeded admin user: username=admin, password=admin123")
	}
	// Ensure photo directory exists
	ensureUploadBase()
}

// ensureUploadBase creates the base directory for child photos.
func ensureUploadBase() {
	base := uploadBaseDir()
	if err := os.MkdirAll(base, 0755); err != nil {
		log.Printf("failed to create upload base dir %s: %v", base, err)
	}
}

// uploadBaseDir returns the base directory for stored photos (configurable via UPLOAD_BASE env)
func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "uploads"
}
