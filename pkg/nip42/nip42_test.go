package nip42

import (
	"strings"
	"testing"

	"github.com/nostrium/nostrium/pkg/event"
)

type fixedClock struct{ t event.UnixSeconds }

func (c fixedClock) NowSeconds() event.UnixSeconds { return c.t }

func TestBuildProducesExpectedTagsAndKind(t *testing.T) {
	pub, err := event.ParsePublicKey(strings.Repeat("a", 64))
	if err != nil {
		t.Fatalf("parse pubkey: %v", err)
	}

	d, err := Build(pub, " wss://relay.example/ ", "abc123", "", 0, fixedClock{t: 1700000000}, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if d.Kind != KindClientAuthentication {
		t.Fatalf("kind = %d, want %d", d.Kind, KindClientAuthentication)
	}
	if d.CreatedAt != 1700000000 {
		t.Fatalf("created_at = %d, want 1700000000", d.CreatedAt)
	}
	want := event.Tags{{"relay", "wss://relay.example/"}, {"challenge", "abc123"}}
	if len(d.Tags) != len(want) {
		t.Fatalf("tags = %v, want %v", d.Tags, want)
	}
	for i := range want {
		if len(d.Tags[i]) != len(want[i]) || d.Tags[i][0] != want[i][0] || d.Tags[i][1] != want[i][1] {
			t.Fatalf("tags[%d] = %v, want %v", i, d.Tags[i], want[i])
		}
	}
	if d.Content != "" {
		t.Fatalf("content = %q, want empty", d.Content)
	}
}

func TestBuildUsesExplicitCreatedAtOverClock(t *testing.T) {
	pub, err := event.ParsePublicKey(strings.Repeat("b", 64))
	if err != nil {
		t.Fatalf("parse pubkey: %v", err)
	}
	d, err := Build(pub, "wss://relay.example", "xyz", "", 42, fixedClock{t: 999}, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if d.CreatedAt != 42 {
		t.Fatalf("created_at = %d, want 42 (explicit value should win over clock)", d.CreatedAt)
	}
}

func TestBuildAppendsExtraTags(t *testing.T) {
	pub, err := event.ParsePublicKey(strings.Repeat("c", 64))
	if err != nil {
		t.Fatalf("parse pubkey: %v", err)
	}
	extra := event.Tags{{"client", "nostrium"}}
	d, err := Build(pub, "wss://relay.example", "xyz", "", 1, nil, extra)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(d.Tags) != 3 {
		t.Fatalf("expected 3 tags, got %d: %v", len(d.Tags), d.Tags)
	}
	if d.Tags[2][0] != "client" || d.Tags[2][1] != "nostrium" {
		t.Fatalf("expected extra tag preserved at end, got %v", d.Tags[2])
	}
}

func TestBuildRejectsBlankChallenge(t *testing.T) {
	pub, err := event.ParsePublicKey(strings.Repeat("d", 64))
	if err != nil {
		t.Fatalf("parse pubkey: %v", err)
	}
	if _, err := Build(pub, "wss://relay.example", "   ", "", 1, nil, nil); err == nil {
		t.Fatal("expected error for blank challenge")
	}
}

func TestBuildRejectsBlankRelayAfterNormalization(t *testing.T) {
	pub, err := event.ParsePublicKey(strings.Repeat("e", 64))
	if err != nil {
		t.Fatalf("parse pubkey: %v", err)
	}
	if _, err := Build(pub, "   ", "abc", "", 1, nil, nil); err == nil {
		t.Fatal("expected error for blank relay url")
	}
}

func TestBuildRejectsEmptyExtraTag(t *testing.T) {
	pub, err := event.ParsePublicKey(strings.Repeat("f", 64))
	if err != nil {
		t.Fatalf("parse pubkey: %v", err)
	}
	if _, err := Build(pub, "wss://relay.example", "abc", "", 1, nil, event.Tags{{}}); err == nil {
		t.Fatal("expected error for empty extra tag")
	}
}

func TestBuildRequiresClockWhenCreatedAtZero(t *testing.T) {
	pub, err := event.ParsePublicKey(strings.Repeat("1", 64))
	if err != nil {
		t.Fatalf("parse pubkey: %v", err)
	}
	if _, err := Build(pub, "wss://relay.example", "abc", "", 0, nil, nil); err == nil {
		t.Fatal("expected error when created_at is zero and clock is nil")
	}
}
