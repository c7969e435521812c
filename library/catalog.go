package library

import "strings"

// itemCatalog owns item records and their availability flag. It is not
// safe for concurrent use on its own; the Library aggregate serializes
// access behind its lock.
type itemCatalog struct {
	items map[string]Item
}

func newItemCatalog() *itemCatalog {
	return &itemCatalog{items: make(map[string]Item)}
}

// add inserts the item by id. An existing item with the same id is
// overwritten silently; id collisions are the caller's responsibility.
func (c *itemCatalog) add(item Item) {
	c.items[item.ID()] = item
}

// remove deletes and returns the item, or nil if absent.
func (c *itemCatalog) remove(id string) Item {
	item, ok := c.items[id]
	if !ok {
		return nil
	}
	delete(c.items, id)
	return item
}

func (c *itemCatalog) findByID(id string) Item {
	return c.items[id]
}

// searchByTitle returns all items whose title contains query,
// case-insensitively. An empty query matches every item. Result order
// follows map iteration order; no sort is guaranteed.
func (c *itemCatalog) searchByTitle(query string) []Item {
	query = strings.ToLower(query)
	var results []Item
	for _, item := range c.items {
		if strings.Contains(strings.ToLower(item.Title()), query) {
			results = append(results, item)
		}
	}
	return results
}

func (c *itemCatalog) all() []Item {
	items := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, item)
	}
	return items
}
