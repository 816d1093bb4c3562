package database

import (
	"fmt"

	"carrent/config"
	rentalRepo "carrent/database/repository/rental"
)

// OpenRentalStore connects the backend selected by STORE_DRIVER and returns its repository
// along with a function releasing the connection.
func OpenRentalStore(cfg config.Config) (rentalRepo.RentalRepository, func() error, error) {
	switch cfg.StoreDriver {
	case "", "mongo":
		client, err := InitDB(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return rentalRepo.NewMongoRentalRepo(client, cfg.DatabaseName), func() error { return CloseDB(client) }, nil
	case "postgres":
		pool, err := InitPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return rentalRepo.NewPostgresRentalRepo(pool), func() error { pool.Close(); return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}
