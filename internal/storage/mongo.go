// internal/storage/mongo.go
package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/handin-dev/handin-backend/config"
)

// Collection names within the application database.
const (
	usersCollection       = "users"
	assignmentsCollection = "assignments"
)

// Connection retry tuning. Under docker-compose the app can come up a few
// seconds before mongod accepts connections, so the first pings are allowed
// to fail.
const (
	connectMaxAttempts = 10
	connectBaseDelay   = 500 * time.Millisecond
	connectMaxDelay    = 8 * time.Second
)

// Mongo bundles the connected client with the application database handle.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect initializes the MongoDB client, waits for the server to become
// reachable and ensures the indexes the application relies on exist.
func Connect(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	log.Printf("Storage: Connecting to MongoDB at %s (database %q)", cfg.MongoURI(), cfg.MongoDB)

	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI()).
		SetAuth(options.Credential{
			AuthSource: "admin",
			Username:   cfg.MongoUsername,
			Password:   cfg.MongoPassword,
		}).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		log.Printf("Storage: Failed to create MongoDB client: %v", err)
		return nil, fmt.Errorf("failed to create mongodb client: %w", err)
	}

	// Ping until the server answers or the attempt budget runs out.
	var pingErr error
	delay := connectBaseDelay
	for attempt := 1; attempt <= connectMaxAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		pingErr = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if pingErr == nil {
			break
		}
		log.Printf("Storage: MongoDB not reachable yet (attempt %d/%d): %v", attempt, connectMaxAttempts, pingErr)
		if attempt == connectMaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongodb connection aborted: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
		if delay > connectMaxDelay {
			delay = connectMaxDelay
		}
	}
	if pingErr != nil {
		_ = client.Disconnect(context.Background())
		log.Printf("Storage: Giving up on MongoDB after %d attempts: %v", connectMaxAttempts, pingErr)
		return nil, fmt.Errorf("failed to reach mongodb after %d attempts: %w", connectMaxAttempts, pingErr)
	}
	log.Println("Storage: MongoDB connection successful.")

	db := client.Database(cfg.MongoDB)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Mongo{Client: client, DB: db}, nil
}

// ensureIndexes creates the indexes the stores depend on. CreateOne is a
// no-op when an identical index already exists, so this is safe to run on
// every startup.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("Storage: Failed to ensure users username index: %v", err)
		return fmt.Errorf("failed to ensure users username index: %w", err)
	}
	log.Println("Storage: Users username index ensured.")

	_, err = db.Collection(assignmentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "admin_id", Value: 1}},
	})
	if err != nil {
		log.Printf("Storage: Failed to ensure assignments admin index: %v", err)
		return fmt.Errorf("failed to ensure assignments admin index: %w", err)
	}
	log.Println("Storage: Assignments admin index ensured.")

	return nil
}

// Ping verifies the server is still reachable. The health endpoint calls
// this on every request.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close tears down the client connection pool.
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
