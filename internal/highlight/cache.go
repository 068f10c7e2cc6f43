package highlight

// Cache holds per-line style vectors with a dirty set.
//
// A line present in the map and absent from the dirty set is
// authoritative; any other line must be recomputed before use. A total
// char count recorded at the last sync detects document-level changes
// (load, bulk replace) that fine-grained invalidation may have missed,
// and triggers a full clear.
type Cache struct {
	lineStyles    map[int][]Style
	dirtyLines    map[int]struct{}
	lastCharCount int
}

// NewCache creates an empty cache for a document of the given char count.
func NewCache(charCount int) *Cache {
	return &Cache{
		lineStyles:    make(map[int][]Style),
		dirtyLines:    make(map[int]struct{}),
		lastCharCount: charCount,
	}
}

// IsCached returns true if the line has authoritative styles.
func (c *Cache) IsCached(line int) bool {
	if _, dirty := c.dirtyLines[line]; dirty {
		return false
	}
	_, ok := c.lineStyles[line]
	return ok
}

// Line returns the cached style vector for a line, or nil.
func (c *Cache) Line(line int) []Style {
	if !c.IsCached(line) {
		return nil
	}
	return c.lineStyles[line]
}

// StyleAt returns the cached style for (line, col). Columns past the
// cached vector and uncached lines resolve to StyleNormal.
func (c *Cache) StyleAt(line, col int) Style {
	styles := c.Line(line)
	if col < 0 || col >= len(styles) {
		return StyleNormal
	}
	return styles[col]
}

// SetLine stores the style vector for a line and clears its dirty mark.
// Caching the same content twice is idempotent.
func (c *Cache) SetLine(line int, styles []Style) {
	c.lineStyles[line] = styles
	delete(c.dirtyLines, line)
}

// InvalidateLine marks a single line dirty. Used for in-place edits that
// cannot affect other lines. Idempotent.
func (c *Cache) InvalidateLine(line int) {
	if _, ok := c.lineStyles[line]; ok {
		c.dirtyLines[line] = struct{}{}
	}
}

// InvalidateFrom marks every cached line at or after the given line
// dirty. Used when an edit shifts the meaning of subsequent lines, such
// as inserting or deleting a line.
func (c *Cache) InvalidateFrom(line int) {
	for cached := range c.lineStyles {
		if cached >= line {
			c.dirtyLines[cached] = struct{}{}
		}
	}
}

// Clear drops all cached styles and dirty marks.
func (c *Cache) Clear() {
	c.lineStyles = make(map[int][]Style)
	c.dirtyLines = make(map[int]struct{})
}

// Sync reconciles the cache with the document's current total char
// count. A mismatch means an edit bypassed the fine-grained
// invalidation calls, so the whole cache is cleared.
func (c *Cache) Sync(charCount int) {
	if charCount != c.lastCharCount {
		c.Clear()
		c.lastCharCount = charCount
	}
}

// RecordCharCount updates the reference count after invalidation calls
// have already accounted for an edit.
func (c *Cache) RecordCharCount(charCount int) {
	c.lastCharCount = charCount
}
