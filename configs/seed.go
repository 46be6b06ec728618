package configs

import (
	"context"
	"strings"

	"foodorder/entity"
	"foodorder/services"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the first admin from ADMIN_EMAIL/ADMIN_PASSWORD.
func SeedAdmin(ctx context.Context, cfg *Config, users services.UserRepository, log *zap.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		log.Info("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	count, err := users.CountByEmail(ctx, email)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info("admin already exists", zap.String("email", email))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return users.Create(ctx, &entity.User{
		Name:     "Admin",
		Email:    email,
		Password: string(hash),
		Role:     entity.RoleAdmin,
	})
}

var demoMeals = []entity.Meal{
	{Name: "Sushi", Description: "Finest fish and veggies", Price: decimal.RequireFromString("22.99")},
	{Name: "Schnitzel", Description: "A german specialty!", Price: decimal.RequireFromString("16.50")},
	{Name: "Barbecue Burger", Description: "American, raw, meaty", Price: decimal.RequireFromString("12.99")},
	{Name: "Green Bowl", Description: "Healthy...and green...", Price: decimal.RequireFromString("18.99")},
}

// SeedMeals fills an empty catalog with the demo meals.
func SeedMeals(ctx context.Context, meals services.MealRepository, log *zap.Logger) error {
	n, err := meals.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, m := range demoMeals {
		meal := m
		if err := meals.Create(ctx, &meal); err != nil {
			return err
		}
	}
	log.Info("meal catalog seeded", zap.Int("meals", len(demoMeals)))
	return nil
}
