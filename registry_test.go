package docmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterIdempotent(t *testing.T) {
	registry := NewRegistry(nil)
	post := NewDescriptor("Post")

	registry.Register(post)
	registry.Register(post)

	require.Len(t, registry.Descendants(), 1)
}

func TestRegistryDescendantsAndSubclasses(t *testing.T) {
	registry := NewRegistry(nil)

	message := NewDescriptor("Message")
	enter := message.Subclass("Enter")
	exit := message.Subclass("Exit")
	chat := message.Subclass("Chat")

	registry.Register(message)
	registry.Register(enter)
	registry.Register(exit)
	registry.Register(chat)

	assert.Len(t, registry.Descendants(), 4)
	assert.Equal(t, []*Descriptor{enter, exit, chat}, registry.Subclasses(message))
	assert.Empty(t, registry.Subclasses(chat))
}

func TestRegistryBundleAppliedAtRegistration(t *testing.T) {
	registry := NewRegistry(nil)
	registry.AppendInclusion(func(d *Descriptor) {
		d.DeclareKey("created_at", KeyTypeTime, KeyOptions{})
	})

	post := NewDescriptor("Post")
	registry.Register(post)

	_, ok := post.Key("created_at")
	assert.True(t, ok, "bundle appended before registration should apply at registration time")
}

func TestRegistryBundleAppliedRetroactively(t *testing.T) {
	registry := NewRegistry(nil)
	post := NewDescriptor("Post")
	registry.Register(post)

	registry.AppendExtension(func(d *Descriptor) {
		d.DeclareKey("updated_at", KeyTypeTime, KeyOptions{})
	})

	_, ok := post.Key("updated_at")
	assert.True(t, ok, "bundle appended after registration should apply retroactively")

	// And it keeps applying to later registrations.
	comment := NewDescriptor("Comment")
	registry.Register(comment)
	_, ok = comment.Key("updated_at")
	assert.True(t, ok)
}

func TestRegistryResolveDatabaseName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.DefaultDatabase = "main"
	registry := NewRegistry(cfg)

	post := NewDescriptor("Post")
	comment := NewDescriptor("Comment")
	registry.Register(post)
	registry.Register(comment)

	require.Equal(t, "main", registry.ResolveDatabaseName(post))

	post.SetDatabaseName("analytics")
	assert.Equal(t, "analytics", registry.ResolveDatabaseName(post))

	// Setting one descriptor's override leaks neither into the global
	// default nor into siblings.
	assert.Equal(t, "main", registry.Config().Database.DefaultDatabase)
	assert.Equal(t, "main", registry.ResolveDatabaseName(comment))
}

func TestRegistryResolveDatabaseNameInherited(t *testing.T) {
	registry := NewRegistry(nil)

	message := NewDescriptor("Message")
	chat := message.Subclass("Chat")
	registry.Register(message)
	registry.Register(chat)

	message.SetDatabaseName("chatlogs")
	assert.Equal(t, "chatlogs", registry.ResolveDatabaseName(chat))
}

func TestRegistryResolveConnection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.URL = "postgres://default:5432/app"
	registry := NewRegistry(cfg)

	post := NewDescriptor("Post")
	comment := NewDescriptor("Comment")
	registry.Register(post)
	registry.Register(comment)

	require.Equal(t, "postgres://default:5432/app", registry.ResolveConnection(post))

	post.SetConnectionURL("postgres://replica:5432/app")
	assert.Equal(t, "postgres://replica:5432/app", registry.ResolveConnection(post))
	assert.Equal(t, "postgres://default:5432/app", registry.ResolveConnection(comment))
}

func TestRegistryNilConfigFallsBackToDefaults(t *testing.T) {
	registry := NewRegistry(nil)
	require.NotNil(t, registry.Config())
	assert.Equal(t, DefaultConfig().Database.DefaultDatabase, registry.Config().Database.DefaultDatabase)
}
