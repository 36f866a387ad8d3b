// Package nip42 builds unsigned NIP-42 relay-authentication events
// (kind 22242) carrying the mandatory "relay" and "challenge" tags.
// Signing happens through the ordinary pkg/signer path; this package
// adds no signing behavior of its own.
package nip42

import (
	"strconv"
	"strings"

	"github.com/nostrium/nostrium/pkg/event"
	"github.com/nostrium/nostrium/pkg/nerr"
)

// KindClientAuthentication is the NIP-42 "AUTH" event kind.
const KindClientAuthentication event.EventKind = 22242

// Clock supplies the current time for callers that don't stamp
// created_at themselves.
type Clock interface {
	NowSeconds() event.UnixSeconds
}

// NormalizeRelayURL trims surrounding whitespace. Callers with a
// stricter relay-URL canonicalization can bypass this via BuildWithNormalizer.
func NormalizeRelayURL(relayURL string) string {
	return strings.TrimSpace(relayURL)
}

// Build constructs an unsigned auth Draft for pub, using the default
// normalizer (whitespace trim) on relayURL. content defaults to empty
// when the caller passes "". createdAt of zero means "use clock".
func Build(pub event.PublicKey, relayURL, challenge, content string, createdAt event.UnixSeconds, clock Clock, extraTags event.Tags) (event.Draft, error) {
	return BuildWithNormalizer(pub, relayURL, challenge, content, createdAt, clock, extraTags, NormalizeRelayURL)
}

// BuildWithNormalizer is Build with a caller-supplied relay-URL
// normalizer.
func BuildWithNormalizer(
	pub event.PublicKey,
	relayURL, challenge, content string,
	createdAt event.UnixSeconds,
	clock Clock,
	extraTags event.Tags,
	normalize func(string) string,
) (event.Draft, error) {
	var d event.Draft

	if strings.TrimSpace(challenge) == "" {
		return d, &nerr.InvalidInput{Name: "challenge", Expected: "non-blank"}
	}
	relay := normalize(relayURL)
	if relay == "" {
		return d, &nerr.InvalidInput{Name: "relay_url", Expected: "non-blank after normalization"}
	}
	for i, tag := range extraTags {
		if len(tag) == 0 {
			return d, &nerr.InvalidInput{Name: "extra_tags", Expected: "every tag non-empty", Actual: "empty tag at index " + strconv.Itoa(i)}
		}
	}

	tags := make(event.Tags, 0, 2+len(extraTags))
	tags = append(tags, event.Tag{"relay", relay})
	tags = append(tags, event.Tag{"challenge", challenge})
	tags = append(tags, extraTags...)

	ts := createdAt
	if ts == 0 {
		if clock == nil {
			return d, &nerr.InvalidInput{Name: "clock", Expected: "non-nil when created_at is zero"}
		}
		ts = clock.NowSeconds()
	}

	return event.Draft{
		PubKey:    pub,
		CreatedAt: ts,
		Kind:      KindClientAuthentication,
		Tags:      tags,
		Content:   content,
	}, nil
}
