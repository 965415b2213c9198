package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/rmarconi/threadline-backend/pkg/config"
	"github.com/rmarconi/threadline-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client wraps the shared MongoDB connection.
type Client struct {
	client   *mongo.Client
	database *mongo.Database

	capOnce sync.Once
	capTx   bool
	capErr  error
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxRunner is the multi-document write surface consumed by services that
// need product and variant writes to land together.
type TxRunner interface {
	WithTxFallback(ctx context.Context, fn func(ctx context.Context) error) (atomic bool, err error)
}

// New boots a MongoDB client using the provided configuration.
func New(ctx context.Context, cfg config.MongoConfig, logg *logger.Logger) (*Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo database name is required")
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("opening mongo connection: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "mongo connection established")
	}

	return &Client{
		client:   client,
		database: client.Database(cfg.Database),
	}, nil
}

// Collection returns a handle for the named collection.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.database.Collection(name)
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close shuts down the pooled connections.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

type helloResult struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

// SupportsTransactions asks the server whether multi-document transactions
// are available: they require a replica set or a mongos router. The answer
// is asked once and cached for the lifetime of the client.
func (c *Client) SupportsTransactions(ctx context.Context) (bool, error) {
	c.capOnce.Do(func() {
		var hello helloResult
		err := c.client.Database("admin").
			RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).
			Decode(&hello)
		if err != nil {
			c.capErr = fmt.Errorf("query topology capability: %w", err)
			return
		}
		c.capTx = hello.SetName != "" || hello.Msg == "isdbgrid"
	})
	return c.capTx, c.capErr
}

// WithTxFallback executes fn inside a session transaction when the topology
// supports one, committing on success and aborting on error. Against a
// standalone server it runs fn without a transaction: each write lands
// individually and a mid-sequence failure leaves earlier writes in place.
// The returned atomic flag tells the caller which mode was used.
func (c *Client) WithTxFallback(ctx context.Context, fn func(ctx context.Context) error) (bool, error) {
	supported, err := c.SupportsTransactions(ctx)
	if err != nil {
		return false, err
	}
	if !supported {
		return false, fn(ctx)
	}

	sess, err := c.client.StartSession()
	if err != nil {
		return false, fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	err = mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sess.StartTransaction(); err != nil {
			return fmt.Errorf("start transaction: %w", err)
		}
		if err := fn(sc); err != nil {
			if abortErr := sess.AbortTransaction(sc); abortErr != nil {
				return fmt.Errorf("abort transaction after %w: %v", err, abortErr)
			}
			return err
		}
		return sess.CommitTransaction(sc)
	})
	return true, err
}
