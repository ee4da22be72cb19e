package arangodb

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"
)

type Client interface {
	// Setup operations
	EnsureDatabase(ctx context.Context) error
	EnsureCollections(ctx context.Context, specs []CollectionSpec) error

	// Query runs an AQL query and decodes every result document into out,
	// which must be a pointer to a slice, or nil to discard results.
	Query(ctx context.Context, query string, bindVars map[string]any, out any) error
	// QueryOne decodes the first result document into out. Reports false
	// when the query produced no documents.
	QueryOne(ctx context.Context, query string, bindVars map[string]any, out any) (bool, error)

	Close() error
}

type Config struct {
	URL      string
	Username string
	Password string
	Database string
}

func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("arangodb URL is required")
	}
	if c.Username == "" {
		return fmt.Errorf("arangodb username is required")
	}
	if c.Database == "" {
		return fmt.Errorf("arangodb database name is required")
	}
	return nil
}

type client struct {
	conn         connection.Connection
	arangoClient arangodb.Client
	db           arangodb.Database
	cfg          Config
}

func New(ctx context.Context, cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("arangodb config: %w", err)
	}

	endpoint := connection.NewRoundRobinEndpoints([]string{cfg.URL})
	conn := connection.NewHttp2Connection(connection.DefaultHTTP2ConfigurationWrapper(endpoint, true))

	auth := connection.NewBasicAuth(cfg.Username, cfg.Password)
	if err := conn.SetAuthentication(auth); err != nil {
		return nil, fmt.Errorf("arangodb auth: %w", err)
	}

	return &client{
		conn:         conn,
		arangoClient: arangodb.NewClient(conn),
		cfg:          cfg,
	}, nil
}

func (c *client) Close() error {
	return nil
}

func (c *client) EnsureDatabase(ctx context.Context) error {
	start := time.Now()

	exists, err := c.arangoClient.DatabaseExists(ctx, c.cfg.Database)
	if err != nil {
		return fmt.Errorf("check database exists: %w", err)
	}

	if !exists {
		if _, err := c.arangoClient.CreateDatabase(ctx, c.cfg.Database, nil); err != nil {
			return fmt.Errorf("create database: %w", err)
		}
		slog.InfoContext(ctx, "arangodb database created",
			"database", c.cfg.Database,
			"duration_ms", time.Since(start).Milliseconds())
	}

	db, err := c.arangoClient.GetDatabase(ctx, c.cfg.Database, nil)
	if err != nil {
		return fmt.Errorf("get database: %w", err)
	}
	c.db = db

	return nil
}

func (c *client) EnsureCollections(ctx context.Context, specs []CollectionSpec) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized, call EnsureDatabase first")
	}

	for _, spec := range specs {
		if err := c.ensureCollection(ctx, spec.Name); err != nil {
			return err
		}
		if err := c.ensureIndexes(ctx, spec); err != nil {
			return err
		}
	}

	return nil
}

func (c *client) ensureCollection(ctx context.Context, name string) error {
	exists, err := c.db.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection %s exists: %w", name, err)
	}
	if exists {
		return nil
	}

	colType := arangodb.CollectionTypeDocument
	props := &arangodb.CreateCollectionPropertiesV2{Type: &colType}
	if _, err := c.db.CreateCollectionV2(ctx, name, props); err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	slog.InfoContext(ctx, "arangodb collection created", "collection", name)

	return nil
}

func (c *client) ensureIndexes(ctx context.Context, spec CollectionSpec) error {
	if len(spec.Indexes) == 0 {
		return nil
	}

	col, err := c.db.GetCollection(ctx, spec.Name, nil)
	if err != nil {
		return fmt.Errorf("get collection %s: %w", spec.Name, err)
	}

	for _, idx := range spec.Indexes {
		unique, sparse := idx.Unique, idx.Sparse
		_, created, err := col.EnsurePersistentIndex(ctx, idx.Fields, &arangodb.CreatePersistentIndexOptions{
			Unique: &unique,
			Sparse: &sparse,
		})
		if err != nil {
			return fmt.Errorf("ensure index %v on %s: %w", idx.Fields, spec.Name, err)
		}
		if created {
			slog.InfoContext(ctx, "arangodb index created",
				"collection", spec.Name,
				"fields", idx.Fields)
		}
	}

	return nil
}

func (c *client) Query(ctx context.Context, query string, bindVars map[string]any, out any) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}

	var slice reflect.Value
	if out != nil {
		rv := reflect.ValueOf(out)
		if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Slice {
			return fmt.Errorf("query output must be a pointer to a slice, got %T", out)
		}
		slice = rv.Elem()
	}

	start := time.Now()
	cursor, err := c.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer cursor.Close()

	count := 0
	for cursor.HasMore() {
		if !slice.IsValid() {
			var discard any
			if _, err := cursor.ReadDocument(ctx, &discard); err != nil {
				return fmt.Errorf("read document: %w", err)
			}
			count++
			continue
		}

		elem := reflect.New(slice.Type().Elem())
		if _, err := cursor.ReadDocument(ctx, elem.Interface()); err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		slice.Set(reflect.Append(slice, elem.Elem()))
		count++
	}

	slog.DebugContext(ctx, "arangodb query completed",
		"results", count,
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}

func (c *client) QueryOne(ctx context.Context, query string, bindVars map[string]any, out any) (bool, error) {
	if c.db == nil {
		return false, fmt.Errorf("database not initialized")
	}

	cursor, err := c.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return false, fmt.Errorf("query: %w", err)
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return false, nil
	}
	if _, err := cursor.ReadDocument(ctx, out); err != nil {
		return false, fmt.Errorf("read document: %w", err)
	}
	return true, nil
}
