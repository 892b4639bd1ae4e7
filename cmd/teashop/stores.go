package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/lotustea/tea-catalog/app/routes"
	"github.com/lotustea/tea-catalog/app/uploads"
	"github.com/lotustea/tea-catalog/catalog"
	"github.com/lotustea/tea-catalog/config"
	"github.com/lotustea/tea-catalog/models"
	"github.com/lotustea/tea-catalog/mongostore"
)

// records is the record store the service runs on.
type records struct {
	categories catalog.CategoryStore
	teas       catalog.TeaStore
	close      func(ctx context.Context) error
}

// openRecords connects the configured store. migrate applies the schema for
// the SQL drivers; mongo indexes are always ensured on connect.
func openRecords(ctx context.Context, cfg config.Config, migrate bool, logger *zap.Logger) (*records, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres, config.DriverSQLite:
		db, err := models.Open(cfg.StoreDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.StoreDriver, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := models.Migrate(db.WithContext(ctx)); err != nil {
				sqlDB.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("schema migrated", zap.String("driver", cfg.StoreDriver))
		}
		return &records{
			categories: models.NewCategoriesRepository(db),
			teas:       models.NewTeasRepository(db),
			close:      func(context.Context) error { return sqlDB.Close() },
		}, nil

	case config.DriverMongo:
		store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return &records{categories: store, teas: store, close: store.Close}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// pictures is where tea pictures are kept, and how they are served back.
type pictures struct {
	store  catalog.PictureStore
	images http.Handler
	close  func() error
}

func openPictures(ctx context.Context, cfg config.Config) (*pictures, error) {
	switch cfg.UploadBackend {
	case config.UploadLocal:
		store, err := uploads.NewLocalStore(cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		return &pictures{
			store:  store,
			images: routes.Images(store.Root()),
			close:  func() error { return nil },
		}, nil

	case config.UploadGCS:
		// pictures are public objects, linked directly
		store, err := uploads.NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, err
		}
		return &pictures{store: store, close: store.Close}, nil
	}
	return nil, errors.New("unknown upload backend " + cfg.UploadBackend)
}
