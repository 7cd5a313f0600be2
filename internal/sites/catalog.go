// =============================================================================
// Payroll PDF Extractor - Site Catalog
// =============================================================================
//
// The site catalog maps street addresses printed on payroll letters to the
// office location that issued them. Catalog order is significant: when a
// document mentions more than one address, the earliest entry wins.
//
// The catalog is built once at start-up (from the defaults or from the
// configuration file) and is never modified afterwards.
//
// =============================================================================

package sites

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyAddress is returned for catalog entries without an address.
	ErrEmptyAddress = errors.New("site catalog entry has no address")

	// ErrEmptySite is returned for catalog entries without a site name.
	ErrEmptySite = errors.New("site catalog entry has no site name")

	// ErrDuplicateAddress is returned when an address appears twice.
	ErrDuplicateAddress = errors.New("duplicate address in site catalog")
)

// Entry is one address → site mapping.
type Entry struct {
	// Address is the literal address fragment, e.g. "Erzbergstr. 121".
	Address string `yaml:"address"`

	// Site is the human-readable location name, e.g. "Karlsruhe".
	Site string `yaml:"site"`
}

// Catalog is an immutable, ordered list of entries.
type Catalog struct {
	entries []Entry
}

// NewCatalog validates entries and returns a catalog that keeps their order.
// The slice is copied; later changes by the caller have no effect.
func NewCatalog(entries []Entry) (*Catalog, error) {
	seen := make(map[string]struct{}, len(entries))
	copied := make([]Entry, 0, len(entries))

	for i, e := range entries {
		addr := strings.TrimSpace(e.Address)
		site := strings.TrimSpace(e.Site)
		if addr == "" {
			return nil, fmt.Errorf("entry %d: %w", i+1, ErrEmptyAddress)
		}
		if site == "" {
			return nil, fmt.Errorf("entry %d (%s): %w", i+1, addr, ErrEmptySite)
		}
		if _, dup := seen[addr]; dup {
			return nil, fmt.Errorf("entry %d (%s): %w", i+1, addr, ErrDuplicateAddress)
		}
		seen[addr] = struct{}{}
		copied = append(copied, Entry{Address: addr, Site: site})
	}

	return &Catalog{entries: copied}, nil
}

// DefaultEntries returns the built-in address list.
func DefaultEntries() []Entry {
	return []Entry{
		{Address: "Florianstr. 15", Site: "Horb am Neckar"},
		{Address: "Coblitzallee 1-9", Site: "Mannheim"},
		{Address: "Erzbergstr. 121", Site: "Karlsruhe"},
		{Address: "Lohrtalweg 14", Site: "Mosbach"},
		{Address: "Schloß 2", Site: "Bad Mergentheim"},
		{Address: "Hangstr. 46-50", Site: "Lörrach"},
		{Address: "Friedrichstr. 14", Site: "Stuttgart (Präsidium)"},
		{Address: "Herdweg 21", Site: "Stuttgart (DHBW)"},
		{Address: "Friedrich-Ebert-Str. 30", Site: "Villingen-Schwenningen"},
		{Address: "Marienstr. 20", Site: "Heidenheim"},
		{Address: "Marienplatz 2", Site: "Ravensburg"},
		{Address: "Fallenbrunnen 2", Site: "Friedrichshafen"},
		{Address: "Bildungscampus 4", Site: "Heilbronn (DHBW)"},
		{Address: "Bildungscampus 23", Site: "Heilbronn (CAS)"},
	}
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultEntries())
	if err != nil {
		panic(err)
	}
	return c
}

// Entries returns a copy of the entries in priority order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
