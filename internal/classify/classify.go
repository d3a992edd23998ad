// Package classify maps inbound webhook event types to sync actions.
//
// Upstream services version their event vocabulary, so the mapping is an
// explicit per-source table rather than hardcoded strings scattered through
// handlers. Tokens not present in any set classify as unknown instead of
// being silently dropped, which keeps vocabulary gaps visible in the
// activity log.
package classify

import (
	"fmt"
)

// Action is the sync decision for one inbound event.
type Action int

const (
	// ActionUnknown means the event type is not in the source's vocabulary.
	ActionUnknown Action = iota
	// ActionIgnore means the event type is recognized but carries no
	// library change (connectivity tests, health checks, playback).
	ActionIgnore
	// ActionTargeted means resync exactly the entity named in the payload.
	ActionTargeted
	// ActionFull means resync the source's whole library listing.
	ActionFull
	// ActionDelete means remove the named entity's local mirror row.
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionIgnore:
		return "ignore"
	case ActionTargeted:
		return "targeted"
	case ActionFull:
		return "full"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Ruleset is one source's recognized event vocabulary, split into three
// disjoint categories.
type Ruleset struct {
	Source string

	// Upsert events announce an entity was added or changed. They resolve
	// to a targeted resync when the payload names an entity, otherwise to
	// a full resync.
	Upsert []string

	// Delete events announce explicit removal of an entity.
	Delete []string

	// Observe events are recognized but never drive sync.
	Observe []string
}

// Classifier holds the rulesets for every known source.
type Classifier struct {
	rules map[string]*compiledRuleset
}

type compiledRuleset struct {
	upsert  map[string]bool
	delete  map[string]bool
	observe map[string]bool
}

// New builds a classifier from per-source rulesets. It fails if any source
// appears twice or any token appears in more than one category, so overlap
// bugs surface at startup rather than as misrouted syncs.
func New(rulesets ...Ruleset) (*Classifier, error) {
	c := &Classifier{rules: make(map[string]*compiledRuleset)}

	for _, rs := range rulesets {
		if rs.Source == "" {
			return nil, fmt.Errorf("ruleset with empty source")
		}
		if _, dup := c.rules[rs.Source]; dup {
			return nil, fmt.Errorf("duplicate ruleset for source %q", rs.Source)
		}

		compiled := &compiledRuleset{
			upsert:  make(map[string]bool, len(rs.Upsert)),
			delete:  make(map[string]bool, len(rs.Delete)),
			observe: make(map[string]bool, len(rs.Observe)),
		}

		seen := make(map[string]string)
		add := func(tokens []string, category string, set map[string]bool) error {
			for _, tok := range tokens {
				if tok == "" {
					return fmt.Errorf("source %q: empty event token in %s set", rs.Source, category)
				}
				if prev, ok := seen[tok]; ok {
					return fmt.Errorf("source %q: event %q appears in both %s and %s sets", rs.Source, tok, prev, category)
				}
				seen[tok] = category
				set[tok] = true
			}
			return nil
		}

		if err := add(rs.Upsert, "upsert", compiled.upsert); err != nil {
			return nil, err
		}
		if err := add(rs.Delete, "delete", compiled.delete); err != nil {
			return nil, err
		}
		if err := add(rs.Observe, "observe", compiled.observe); err != nil {
			return nil, err
		}

		c.rules[rs.Source] = compiled
	}

	return c, nil
}

// Classify decides the action for one event. hasEntityID reports whether
// the payload named a specific entity; without one an upsert event can only
// resolve to a full resync.
func (c *Classifier) Classify(source, eventType string, hasEntityID bool) Action {
	rs, ok := c.rules[source]
	if !ok {
		return ActionUnknown
	}

	switch {
	case rs.delete[eventType]:
		return ActionDelete
	case rs.upsert[eventType]:
		if hasEntityID {
			return ActionTargeted
		}
		return ActionFull
	case rs.observe[eventType]:
		return ActionIgnore
	default:
		return ActionUnknown
	}
}

// Sources returns the sources this classifier knows about.
func (c *Classifier) Sources() []string {
	out := make([]string, 0, len(c.rules))
	for src := range c.rules {
		out = append(out, src)
	}
	return out
}

// Source names used across the store and API.
const (
	SourceSonarr   = "sonarr"
	SourceRadarr   = "radarr"
	SourceJellyfin = "jellyfin"
)

// Defaults returns the rulesets for the stock integrations: Sonarr's and
// Radarr's v3 webhook vocabularies, plus the Jellyfin webhook plugin whose
// notifications are logged but never drive sync.
func Defaults() []Ruleset {
	return []Ruleset{
		{
			Source: SourceSonarr,
			Upsert: []string{"SeriesAdd", "Download", "Rename"},
			Delete: []string{"SeriesDelete", "EpisodeFileDelete"},
			Observe: []string{
				"Grab", "Test", "Health", "HealthRestored", "ApplicationUpdate",
			},
		},
		{
			Source: SourceRadarr,
			Upsert: []string{"MovieAdded", "Download", "Rename"},
			Delete: []string{"MovieDelete", "MovieFileDelete"},
			Observe: []string{
				"Grab", "Test", "Health", "HealthRestored", "ApplicationUpdate",
			},
		},
		{
			Source: SourceJellyfin,
			Observe: []string{
				"ItemAdded", "PlaybackStart", "PlaybackStop",
				"LibraryChanged", "TaskCompleted",
			},
		},
	}
}

// NewDefault builds a classifier with the stock rulesets. The defaults are
// disjoint by construction, so failure here is a programming error.
func NewDefault() *Classifier {
	c, err := New(Defaults()...)
	if err != nil {
		panic(err)
	}
	return c
}
