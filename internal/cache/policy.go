package cache

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Namespace names recognized by the default policy, in priority order.
const (
	NamespaceStocks    = "stocks"
	NamespaceCryptos   = "cryptos"
	NamespacePositions = "positions"
	NamespaceSummary   = "summary"
)

// Default TTLs per namespace.
const (
	DefaultStocksTTL    = 5 * time.Minute
	DefaultCryptosTTL   = 3 * time.Minute
	DefaultPositionsTTL = 2 * time.Minute
	DefaultSummaryTTL   = 1 * time.Minute

	// DefaultFallbackTTL applies when no namespace matches.
	DefaultFallbackTTL = 5 * time.Minute
)

// Policy validation errors.
var (
	ErrEmptyNamespace = errors.New("namespace cannot be empty")
	ErrNonPositiveTTL = errors.New("TTL must be positive")
)

// NamespaceTTL binds a namespace substring to its default TTL.
type NamespaceTTL struct {
	Namespace string        `yaml:"namespace" json:"namespace"`
	TTL       time.Duration `yaml:"ttl"       json:"ttl"`
}

// Policy resolves the default TTL of a key. A key belongs to the first
// namespace (in slice order) that appears anywhere in it as a literal
// substring; keys matching none get Fallback.
type Policy struct {
	Namespaces []NamespaceTTL
	Fallback   time.Duration
}

// defaultPolicy backs ResolveDefaultTTL.
//
//nolint:gochecknoglobals // Read-only lookup table.
var defaultPolicy = DefaultPolicy()

// DefaultPolicy returns the stock/crypto/positions/summary table.
func DefaultPolicy() *Policy {
	return &Policy{
		Namespaces: []NamespaceTTL{
			{Namespace: NamespaceStocks, TTL: DefaultStocksTTL},
			{Namespace: NamespaceCryptos, TTL: DefaultCryptosTTL},
			{Namespace: NamespacePositions, TTL: DefaultPositionsTTL},
			{Namespace: NamespaceSummary, TTL: DefaultSummaryTTL},
		},
		Fallback: DefaultFallbackTTL,
	}
}

// NewPolicy builds a validated policy. Order of namespaces is preserved and
// significant.
func NewPolicy(namespaces []NamespaceTTL, fallback time.Duration) (*Policy, error) {
	if fallback <= 0 {
		return nil, fmt.Errorf("fallback: %w: got %s", ErrNonPositiveTTL, fallback)
	}
	for i, ns := range namespaces {
		if ns.Namespace == "" {
			return nil, fmt.Errorf("namespace %d: %w", i, ErrEmptyNamespace)
		}
		if ns.TTL <= 0 {
			return nil, fmt.Errorf("namespace %q: %w: got %s", ns.Namespace, ErrNonPositiveTTL, ns.TTL)
		}
	}

	p := &Policy{
		Namespaces: make([]NamespaceTTL, len(namespaces)),
		Fallback:   fallback,
	}
	copy(p.Namespaces, namespaces)
	return p, nil
}

// Resolve returns the default TTL for key.
func (p *Policy) Resolve(key string) time.Duration {
	_, ttl := p.Classify(key)
	return ttl
}

// Classify returns the namespace key falls into ("" for the fallback) and its TTL.
func (p *Policy) Classify(key string) (string, time.Duration) {
	for _, ns := range p.Namespaces {
		if strings.Contains(key, ns.Namespace) {
			return ns.Namespace, ns.TTL
		}
	}
	return "", p.Fallback
}

// ResolveDefaultTTL resolves key against the default policy. It has no side
// effects and does not touch any store.
func ResolveDefaultTTL(key string) time.Duration {
	return defaultPolicy.Resolve(key)
}
