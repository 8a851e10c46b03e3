// Package frontier implements the URL queue that decides crawl order,
// in five policies: random, breadth-first, depth-first, an immutable
// quality-ranked heap, and a quality-ranked heap that accepts priority
// updates for URLs it already tracks.
package frontier

import (
	"errors"
	"fmt"

	"github.com/fpezzuti/crawlsim/internal/config"
)

// ErrEmpty is returned by Pop when the frontier has nothing left to crawl.
var ErrEmpty = errors.New("frontier is empty")

// ErrUpdatesUnsupported is returned by Update on a frontier variant that
// does not accept priority revisions for URLs it already tracks.
var ErrUpdatesUnsupported = errors.New("frontier variant does not support priority updates")

// Frontier is the common interface of every traversal policy. A seed URL
// is simply a URL added with no preceding discovery context, so adding a
// seed and adding a discovered link go through the same Add call: the
// caller passes whatever priority it has already computed (ignored by
// the non-quality policies), and the frontier itself decides whether a
// duplicate Add is silently absorbed or reported.
type Frontier interface {
	// Add enqueues url, attaching priority for the policies that rank by
	// it. Re-adding a URL that is currently queued is a duplicate and is
	// ignored rather than reported as an error. A URL that has already been
	// popped is no longer tracked, so adding it again enqueues it anew.
	Add(url string, priority float64) error

	// Update revises the priority of a URL this frontier already tracks.
	// It reports whether the revision changed the frontier's ranking of
	// that URL. Variants that do not support updates return
	// ErrUpdatesUnsupported.
	Update(url string, priority float64) (bool, error)

	// Pop removes and returns the next URL to crawl, or ErrEmpty.
	Pop() (string, error)

	// Size returns the number of distinct URLs currently tracked.
	Size() int
}

// New constructs the Frontier implementation named by policy. seed seeds
// the Random variant's generator; it is ignored by the other policies.
func New(policy config.FrontierPolicy, seed int64) (Frontier, error) {
	switch policy {
	case config.PolicyRandom:
		return NewRandom(seed), nil
	case config.PolicyBFS:
		return NewBFS(), nil
	case config.PolicyDFS:
		return NewDFS(), nil
	case config.PolicyQuality:
		return NewQualityHeap(), nil
	case config.PolicyQualityUpdates:
		return NewQualityUpdating(), nil
	default:
		return nil, fmt.Errorf("unknown frontier policy %q", policy)
	}
}
