// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package category

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/wingedpig/cpanel/internal/applet"
	"github.com/wingedpig/cpanel/internal/logging"
	"github.com/wingedpig/cpanel/internal/settings"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// fallbackKey doubles as the English display name.
const fallbackKey = "Extras"

var fallbackMessages = newFallbackMessages()

func newFallbackMessages() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	translations := map[language.Tag]string{
		language.English: "Extras",
		language.German:  "Extras",
		language.Finnish: "Lisätoiminnot",
		language.French:  "Extras",
		language.Italian: "Extra",
		language.Spanish: "Extras",
		language.Swedish: "Extra",
		language.Russian: "Дополнительно",
	}
	for tag, s := range translations {
		b.SetString(tag, fallbackKey, s)
	}
	return b
}

// FallbackName returns the fallback category's display name for tag.
func FallbackName(tag language.Tag) string {
	return message.NewPrinter(tag, message.Catalog(fallbackMessages)).Sprintf(fallbackKey)
}

// Catalog is the ordered, immutable list of categories. The fallback
// category is always present and always last.
type Catalog struct {
	categories []Category
}

// NewCatalog pairs ids with names by position, stopping at the shorter list,
// and appends the fallback category. Entries with an empty id are dropped
// because that id belongs to the fallback.
func NewCatalog(ids, names []string, fallbackName string) *Catalog {
	n := min(len(ids), len(names))

	cats := make([]Category, 0, n+1)
	for i := 0; i < n; i++ {
		if ids[i] == FallbackID {
			continue
		}
		cats = append(cats, Category{ID: ids[i], Name: names[i]})
	}
	cats = append(cats, Category{ID: FallbackID, Name: fallbackName})

	return &Catalog{categories: cats}
}

// LoadOptions configures Load.
type LoadOptions struct {
	// FallbackName overrides the translated fallback display name.
	FallbackName string
	// Locale selects the fallback name translation.
	Locale language.Tag
	Logger hclog.Logger
}

// Load builds the catalog from the settings store. It never fails: a missing
// store or unreadable key leaves only the fallback category.
func Load(ctx context.Context, store settings.Store, opts LoadOptions) *Catalog {
	log := logging.OrNull(opts.Logger)

	fallbackName := opts.FallbackName
	if fallbackName == "" {
		fallbackName = FallbackName(opts.Locale)
	}

	if store == nil {
		log.Warn("no settings store, using fallback category only")
		return NewCatalog(nil, nil, fallbackName)
	}

	names, err := store.GetStringList(ctx, settings.GroupNamesKey)
	if err != nil {
		log.Error("failed to read category names", "key", settings.GroupNamesKey, "error", err)
		return NewCatalog(nil, nil, fallbackName)
	}
	ids, err := store.GetStringList(ctx, settings.GroupIDsKey)
	if err != nil {
		log.Error("failed to read category ids", "key", settings.GroupIDsKey, "error", err)
		return NewCatalog(nil, nil, fallbackName)
	}

	if len(ids) != len(names) {
		log.Warn("category id and name lists differ in length, extra entries ignored",
			"ids", len(ids), "names", len(names))
	}

	for i := 0; i < min(len(ids), len(names)); i++ {
		if ids[i] == FallbackID {
			log.Warn("ignoring category with empty id", "name", names[i])
		}
	}

	c := NewCatalog(ids, names, fallbackName)
	log.Debug("loaded categories", "count", c.Len())
	return c
}

// Len returns the number of categories including the fallback.
func (c *Catalog) Len() int {
	return len(c.categories)
}

// Categories returns the id/name list without members.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{ID: cat.ID, Name: cat.Name}
	}
	return out
}

// Fallback returns the catch-all category.
func (c *Catalog) Fallback() Category {
	last := c.categories[len(c.categories)-1]
	return Category{ID: last.ID, Name: last.Name}
}

// Resolve returns the index of the first category with the given id, or the
// fallback's index when nothing matches.
func (c *Catalog) Resolve(id string) int {
	for i, cat := range c.categories {
		if cat.ID == id {
			return i
		}
	}
	return len(c.categories) - 1
}

// Bin assigns every applet to its resolved category and sorts each bin by
// order. The returned categories are freshly allocated; every bin has a
// non-nil member slice.
func (c *Catalog) Bin(apps map[string]*applet.Applet, order *Order) []Category {
	bins := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		bins[i] = Category{ID: cat.ID, Name: cat.Name, Apps: []*applet.Applet{}}
	}

	for _, a := range apps {
		i := c.Resolve(a.Category)
		bins[i].Apps = append(bins[i].Apps, a)
	}

	for i := range bins {
		order.Sort(bins[i].Apps)
	}
	return bins
}
