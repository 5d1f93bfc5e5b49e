// Command seed-library migrates the schema and loads the clause and template library from YAML.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"law-office-api/config"
	"law-office-api/models"
	"law-office-api/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var (
		path    string
		migrate bool
	)
	flag.StringVar(&path, "file", "seed/library.yaml", "library YAML file")
	flag.BoolVar(&migrate, "migrate", true, "run schema auto-migration before seeding")
	flag.Parse()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}

	lib, err := services.ParseLibrary(data)
	if err != nil {
		log.Fatalf("Invalid library file: %v", err)
	}

	config.InitDB()

	if migrate {
		if err := config.DB.AutoMigrate(
			&models.Role{},
			&models.User{},
			&models.UserToken{},
			&models.Client{},
			&models.ClauseTemplate{},
			&models.ContractTemplate{},
			&models.Contract{},
		); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		if err := seedRoles(); err != nil {
			log.Fatalf("Failed to seed roles: %v", err)
		}
		log.Println("Schema migrated")
	}

	config.ConnectRedis()

	summary, err := services.SeedLibrary(context.Background(), config.DB, config.RDB, lib)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Templates: %d created, %d updated", summary.TemplatesCreated, summary.TemplatesUpdated)
	log.Printf("Clauses: %d created, %d updated", summary.ClausesCreated, summary.ClausesUpdated)
	if summary.AdminCreated {
		log.Println("Admin user created")
	}
	log.Println("Library seed completed!")
}

func seedRoles() error {
	roles := []models.Role{
		{RoleID: models.RoleLawyer, Role: "lawyer"},
		{RoleID: models.RoleAssistant, Role: "assistant"},
		{RoleID: models.RoleAdmin, Role: "admin"},
	}
	for _, role := range roles {
		if err := config.DB.Where(models.Role{RoleID: role.RoleID}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
