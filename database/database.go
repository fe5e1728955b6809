// path: database/database.go
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"parkwatch/config"
)

// ErrDuplicate marks a uniqueness-constraint violation on insert. Callers
// check it with errors.Is to tell "already registered" from a store outage.
var ErrDuplicate = errors.New("duplicate value")

const opTimeout = 8 * time.Second

// DB is an open MongoDB handle with explicit lifecycle: Open it at process
// start, pass it to whoever needs a collection, Close it on shutdown.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
	log    *zap.Logger
}

// Open connects, pings, and ensures the collection indexes.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (*DB, error) {
	start := time.Now()
	log.Info("mongo: connecting", zap.String("uri", cfg.RedactedDBURL()), zap.String("db", cfg.DBName))

	dctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	c, err := mongo.Connect(dctx, options.Client().ApplyURI(cfg.DBURL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err = c.Ping(dctx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	d := &DB{client: c, db: c.Database(cfg.DBName), log: log}

	// Registration uniqueness has no arbiter other than these indexes, so
	// failing to build them is a startup failure, not a warning.
	if err := d.ensureUniqueIndexes(ctx); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure unique indexes: %w", err)
	}
	if err := d.ensureListingIndexes(ctx); err != nil {
		log.Warn("mongo: index creation warnings", zap.Error(err))
	}

	log.Info("mongo: connected", zap.Duration("took", time.Since(start).Round(time.Millisecond)))
	return d, nil
}

func (d *DB) Close(ctx context.Context) error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Disconnect(ctx)
}

func (d *DB) Sightings() *Sightings {
	return &Sightings{col: d.db.Collection("logs")}
}

func (d *DB) Emails() *Emails {
	return &Emails{col: d.db.Collection("emails")}
}

func (d *DB) Phones() *Phones {
	return &Phones{col: d.db.Collection("phone")}
}

// ensureUniqueIndexes builds the uniqueness constraints the registration
// flows rely on. The store is the sole arbiter of races between concurrent
// registrations of the same value.
func (d *DB) ensureUniqueIndexes(ctx context.Context) error {
	ictx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := d.db.Collection("emails").Indexes().CreateOne(ictx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("emails.email: %w", err)
	}
	if _, err := d.db.Collection("phone").Indexes().CreateOne(ictx, mongo.IndexModel{
		Keys:    bson.D{{Key: "number", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("phone.number: %w", err)
	}
	return nil
}

// ensureListingIndexes builds the map-listing indexes; a failure degrades
// read performance only.
func (d *DB) ensureListingIndexes(ctx context.Context) error {
	ictx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []string
	logs := d.db.Collection("logs")
	if _, err := logs.Indexes().CreateOne(ictx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}); err != nil {
		errs = append(errs, "logs.created_at: "+err.Error())
	}
	if _, err := logs.Indexes().CreateOne(ictx, mongo.IndexModel{
		Keys: bson.D{{Key: "latitude", Value: 1}, {Key: "longitude", Value: 1}},
	}); err != nil {
		errs = append(errs, "logs.latitude,longitude: "+err.Error())
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func mapInsertErr(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}
