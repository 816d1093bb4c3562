// Command seed fills the configured store with a demo fleet and prints a token for a demo user.
package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"carrent/config"
	"carrent/database"
	"carrent/models"
	"carrent/utils"

	"go.uber.org/zap"
)

type carUpserter interface {
	UpsertCars(ctx context.Context, cars []models.Car) error
}

// fleet lists the models seeded and their base daily rate.
var fleet = []struct {
	Make  string
	Model string
	Base  float64
}{
	{"Toyota", "Corolla", 45},
	{"Volkswagen", "Golf", 50},
	{"Skoda", "Octavia Estate", 58},
	{"BMW", "3 Series", 89},
	{"Tesla", "Model 3", 110},
	{"Ford", "Transit", 95},
}

const carsPerModel = 3

func buildFleet(rng *rand.Rand) []models.Car {
	cars := make([]models.Car, 0, len(fleet)*carsPerModel)
	for _, f := range fleet {
		for i := 1; i <= carsPerModel; i++ {
			// Spread prices up to 15% around the base, rounded to cents.
			price := f.Base * (0.85 + rng.Float64()*0.3)
			cars = append(cars, models.Car{
				ID:         fmt.Sprintf("%s-%s-%d", slug(f.Make), slug(f.Model), i),
				Make:       f.Make,
				Model:      f.Model,
				DailyPrice: math.Round(price*100) / 100,
				Available:  true,
			})
		}
	}
	return cars
}

func slug(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ':
			out = append(out, '-')
		}
	}
	return string(out)
}

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	repo, closeStore, err := database.OpenRentalStore(config.AppConfig)
	if err != nil {
		logger.Fatal("seed: failed to open store", zap.Error(err))
	}
	defer func() { _ = closeStore() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("seed: failed to ensure indexes", zap.Error(err))
	}

	upserter, ok := repo.(carUpserter)
	if !ok {
		logger.Fatal("seed: store does not support seeding", zap.String("driver", config.AppConfig.StoreDriver))
	}

	cars := buildFleet(rand.New(rand.NewSource(time.Now().UnixNano())))
	if err := upserter.UpsertCars(ctx, cars); err != nil {
		logger.Fatal("seed: failed to upsert cars", zap.Error(err))
	}
	for _, c := range cars {
		logger.Info("seeded car", zap.String("id", c.ID), zap.Float64("dailyPrice", c.DailyPrice))
	}

	token, err := utils.GenerateToken("demo-user", 24*time.Hour)
	if err != nil {
		logger.Warn("seed: no demo token, set JWT_SECRET to get one", zap.Error(err))
		return
	}
	fmt.Printf("demo user token (24h): %s\n", token)
}
