// Package codes produces the human-readable identifiers printed on
// receipts, registration certificates, and assignment sheets.
package codes

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Kind selects the code format for an entity type.
type Kind int

const (
	KindBusiness Kind = iota
	KindReceipt
	KindAssignment
	KindRevenueType
	KindDistrict
	KindZone
)

type format struct {
	prefix   string
	digits   int
	withYear bool
}

var formats = map[Kind]format{
	KindBusiness:    {prefix: "BUS", digits: 6},
	KindReceipt:     {prefix: "RCP", digits: 4, withYear: true},
	KindAssignment:  {prefix: "ASN", digits: 6},
	KindRevenueType: {prefix: "RT", digits: 3},
	KindDistrict:    {prefix: "DST", digits: 4},
	KindZone:        {prefix: "ZN", digits: 4},
}

// maxAttempts bounds the collision retry loop. The numeric ranges are
// small enough that collisions are plausible on a loaded dataset, so
// generation probes the existing catalog before committing to a code.
const maxAttempts = 32

// Generator creates codes with a fixed per-kind prefix and a randomized
// numeric suffix, retrying against an existence probe to avoid handing
// out a duplicate. Safe for concurrent use.
type Generator struct {
	mu       sync.Mutex
	rng      *rand.Rand
	now      func() time.Time
	fallback uint64
}

// NewGenerator constructs a Generator seeded from the system source.
func NewGenerator() *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(int64(rand.Uint64()))),
		now: time.Now,
	}
}

// NewSeededGenerator pins the random source and clock; test use.
func NewSeededGenerator(seed uint64, now func() time.Time) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(int64(seed))),
		now: now,
	}
}

// Generate returns a fresh code for kind. exists is probed for every
// candidate; pass nil to skip collision checking. After maxAttempts
// collisions the suffix degrades to a monotonic counter so creation
// never fails outright.
func (g *Generator) Generate(kind Kind, exists func(code string) bool) string {
	f, ok := formats[kind]
	if !ok {
		f = format{prefix: "GEN", digits: 6}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	bound := pow10(f.digits)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code := g.render(f, uint64(g.rng.Int63n(bound)))
		if exists == nil || !exists(code) {
			return code
		}
	}

	// Random range exhausted or heavily populated; walk a counter until
	// a free slot turns up.
	for {
		g.fallback++
		code := g.render(f, g.fallback%uint64(bound))
		if exists == nil || !exists(code) {
			return code
		}
	}
}

func (g *Generator) render(f format, n uint64) string {
	if f.withYear {
		return fmt.Sprintf("%s-%d-%0*d", f.prefix, g.now().Year(), f.digits, n)
	}
	return fmt.Sprintf("%s-%0*d", f.prefix, f.digits, n)
}

func pow10(digits int) int64 {
	n := int64(1)
	for i := 0; i < digits; i++ {
		n *= 10
	}
	return n
}
