package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/inkstone-data/docmap"
	"github.com/inkstone-data/docmap/factory"
)

func main() {
	dbURL := flag.String("db", "", "PostgreSQL connection URL (or set DATABASE_URL env); empty runs in-memory")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	// Setup logging
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if *verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.Development = true
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Errorf("failed to build logger: %w", err))
	}
	defer logger.Sync()
	docmap.SetLogger(logger)
	sugar := logger.Sugar()

	databaseURL := *dbURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	ctx := context.Background()

	mapperCfg := docmap.DefaultConfig()
	var mapper *docmap.Mapper
	if databaseURL != "" {
		mapperCfg.Database.URL = databaseURL
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			sugar.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()
		mapper, err = factory.NewMapperWithPool(mapperCfg, pool)
		if err != nil {
			sugar.Fatalf("Failed to build mapper: %v", err)
		}
		sugar.Infof("Using PostgreSQL documents store at %s", databaseURL)
	} else {
		mapper, err = factory.NewMemoryMapper(mapperCfg)
		if err != nil {
			sugar.Fatalf("Failed to build mapper: %v", err)
		}
		sugar.Info("Using in-memory documents store")
	}

	registry := mapper.Registry()

	// A namespaced document type with an embedded author and tags.
	post := docmap.NewDescriptor("Post", "BloggyPoo")
	author := docmap.NewDescriptor("Author", "BloggyPoo")
	author.DeclareKey("name", docmap.KeyTypeString, docmap.KeyOptions{Required: true})
	author.DeclareKey("email", docmap.KeyTypeString, docmap.KeyOptions{})
	post.DeclareKey("title", docmap.KeyTypeString, docmap.KeyOptions{Required: true})
	post.DeclareKey("views", docmap.KeyTypeInteger, docmap.KeyOptions{Default: 0})
	post.DeclareKey("tags", docmap.KeyTypeList, docmap.KeyOptions{Default: []any{}})
	post.DeclareKey("author", docmap.KeyTypeDocument, docmap.KeyOptions{Embedded: author})
	registry.Register(post)

	// A base type with subclasses sharing one collection.
	message := docmap.NewDescriptor("Message")
	message.DeclareKey("room", docmap.KeyTypeString, docmap.KeyOptions{})
	message.DeclareKey("body", docmap.KeyTypeString, docmap.KeyOptions{})
	enter := message.Subclass("Enter")
	exit := message.Subclass("Exit")
	chat := message.Subclass("Chat")
	for _, d := range []*docmap.Descriptor{message, enter, exit, chat} {
		registry.Register(d)
	}

	for _, d := range registry.Descendants() {
		sugar.Infof("%-10s -> collection %q, database %q",
			d.Name(), registry.ResolveCollectionName(d), registry.ResolveDatabaseName(d))
	}

	doc, err := mapper.Materialize(post, map[string]any{
		"title": "Hello, world",
		"author": map[string]any{
			"name":  "Willie",
			"email": "willie@example.test",
		},
	})
	if err != nil {
		sugar.Fatalf("Failed to materialize document: %v", err)
	}

	if err := mapper.Save(ctx, doc); err != nil {
		sugar.Fatalf("Failed to save document: %v", err)
	}
	sugar.Infof("Saved post %s (new=%v)", docmap.IDString(doc.ID()), doc.IsNew())

	found, err := mapper.Find(ctx, post, doc.ID())
	if err != nil {
		sugar.Fatalf("Failed to find document: %v", err)
	}

	body, _ := json.MarshalIndent(found.ToMap(), "", "  ")
	fmt.Println(string(body))

	if err := mapper.Close(ctx); err != nil {
		sugar.Warnf("Failed to close connections: %v", err)
	}
}
