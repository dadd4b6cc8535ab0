package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/zhwaweb/zhwaweb-admin/config"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/repository"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/service"
	"github.com/zhwaweb/zhwaweb-admin/internal/authz"
	"github.com/zhwaweb/zhwaweb-admin/internal/db"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
	"github.com/zhwaweb/zhwaweb-admin/pkg/util"
)

// Columns understood in the header row. Matching is case-insensitive and
// the same layout /dashboard/export writes.
var requiredColumns = []string{"name", "sector", "city", "location", "address", "phone", "email"}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Initialize(logger.Config{
		Level:       "warn",
		Format:      "console",
		EnableColor: true,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	profiles, skipped, err := readProfilesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total stores to import: %d (skipped rows: %d)\n", len(profiles), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	tokens, err := util.NewTokenService(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.AccessTokenExpiry)
	if err != nil {
		log.Fatal("Failed to configure token service:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())

	authService := service.NewAuthService(userRepo, tokens, nil, service.AdminBootstrap{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
	})
	admin, err := authService.SeedAdmin()
	if err != nil {
		log.Fatal("Failed to resolve admin user:", err)
	}

	engine, err := authz.NewEngine()
	if err != nil {
		log.Fatal("Failed to initialize authorization engine:", err)
	}
	storeService := service.NewStoreService(storeRepo, engine)

	imported := 0
	for i, profile := range profiles {
		if _, err := storeService.Create(admin, profile); err != nil {
			fmt.Printf("Row %d (%s) failed: %v\n", i+2, profile.Name, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed!")
	fmt.Printf("Total stores imported: %d/%d\n", imported, len(profiles))
}

func readProfilesFromXLSX(filePath string) ([]model.StoreProfile, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	index := make(map[string]int)
	for i, header := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, 0, fmt.Errorf("missing column %q", col)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var profiles []model.StoreProfile
	skipped := 0
	for _, row := range rows[1:] {
		profile := model.StoreProfile{
			Name:        cell(row, "name"),
			Sector:      cell(row, "sector"),
			City:        cell(row, "city"),
			Location:    cell(row, "location"),
			Image:       cell(row, "image"),
			Description: cell(row, "description"),
			Address:     cell(row, "address"),
			Phone:       cell(row, "phone"),
			Email:       cell(row, "email"),
			Products:    parseProducts(cell(row, "products")),
		}
		if profile.Name == "" || profile.City == "" || profile.Address == "" {
			skipped++
			continue
		}
		profiles = append(profiles, profile)
	}

	return profiles, skipped, nil
}

// parseProducts accepts the ", " joined form written by the export.
func parseProducts(raw string) model.ProductList {
	products := model.ProductList{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			products = append(products, p)
		}
	}
	return products
}
