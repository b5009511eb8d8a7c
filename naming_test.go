package docmap

import "testing"

func TestUnderscore(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single word", "Post", "post"},
		{"two words", "BloggyPoo", "bloggy_poo"},
		{"already lower", "item", "item"},
		{"acronym run", "HTTPRequest", "http_request"},
		{"trailing acronym", "RequestID", "request_id"},
		{"digit boundary", "Layer2Gateway", "layer2_gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := underscore(tt.input); got != tt.expected {
				t.Fatalf("underscore(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"regular", "post", "posts"},
		{"consonant y", "category", "categories"},
		{"vowel y", "day", "days"},
		{"sibilant s", "status", "statuses"},
		{"sibilant x", "box", "boxes"},
		{"sibilant ch", "match", "matches"},
		{"sibilant sh", "dish", "dishes"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pluralize(tt.input); got != tt.expected {
				t.Fatalf("pluralize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCollectionNameDerivation(t *testing.T) {
	post := NewDescriptor("Post", "BloggyPoo")
	if got := post.CollectionName(); got != "bloggy_poo.posts" {
		t.Fatalf("CollectionName() = %q, want %q", got, "bloggy_poo.posts")
	}

	item := NewDescriptor("Item")
	if got := item.CollectionName(); got != "items" {
		t.Fatalf("CollectionName() = %q, want %q", got, "items")
	}

	deep := NewDescriptor("Entry", "Acme", "AuditLog")
	if got := deep.CollectionName(); got != "acme.audit_log.entries" {
		t.Fatalf("CollectionName() = %q, want %q", got, "acme.audit_log.entries")
	}
}

func TestCollectionNameInheritance(t *testing.T) {
	message := NewDescriptor("Message")
	enter := message.Subclass("Enter")
	exit := message.Subclass("Exit")
	chat := message.Subclass("Chat")

	for _, d := range []*Descriptor{message, enter, exit, chat} {
		if got := d.CollectionName(); got != "messages" {
			t.Fatalf("CollectionName(%s) = %q, want %q", d.Name(), got, "messages")
		}
	}

	// Grandchildren resolve through the root as well.
	whisper := chat.Subclass("Whisper")
	if got := whisper.CollectionName(); got != "messages" {
		t.Fatalf("CollectionName(Whisper) = %q, want %q", got, "messages")
	}
}

func TestCollectionNameOverride(t *testing.T) {
	message := NewDescriptor("Message")
	chat := message.Subclass("Chat")

	message.SetCollectionName("chatroom_events")
	if got := chat.CollectionName(); got != "chatroom_events" {
		t.Fatalf("CollectionName(Chat) = %q, want inherited override %q", got, "chatroom_events")
	}

	// A subclass override wins over the ancestor's.
	chat.SetCollectionName("chats")
	if got := chat.CollectionName(); got != "chats" {
		t.Fatalf("CollectionName(Chat) = %q, want own override %q", got, "chats")
	}
	if got := message.CollectionName(); got != "chatroom_events" {
		t.Fatalf("CollectionName(Message) = %q, want %q", got, "chatroom_events")
	}
}
