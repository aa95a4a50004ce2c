package cart

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidSpec is returned for malformed item specifications: a segment
// without a separator, a non-integer id or quantity, or a quantity below 1.
var ErrInvalidSpec = errors.New("invalid items spec")

// Line is a single (menu item, quantity) pair from a cart or items spec.
type Line struct {
	MenuItemID int64
	Quantity   int32
}

// ParseItemsSpec parses a staff-entered spec of the form "id:qty;id:qty".
// Empty segments are skipped and surrounding whitespace is tolerated, so
// "1:2; 2:1;" is valid. Duplicate item ids are NOT merged; each occurrence
// becomes its own line. An empty spec yields no lines and no error.
// On any malformed segment no partial result is returned.
func ParseItemsSpec(spec string) ([]Line, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	var lines []Line
	for _, part := range strings.Split(spec, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idStr, qtyStr, found := strings.Cut(part, ":")
		if !found {
			return nil, fmt.Errorf("%w: %q: use item_id:qty;item_id:qty", ErrInvalidSpec, part)
		}

		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad item id %q", ErrInvalidSpec, strings.TrimSpace(idStr))
		}
		qty, err := strconv.ParseInt(strings.TrimSpace(qtyStr), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: bad quantity %q", ErrInvalidSpec, strings.TrimSpace(qtyStr))
		}
		if qty <= 0 {
			return nil, fmt.Errorf("%w: quantity must be >= 1", ErrInvalidSpec)
		}

		lines = append(lines, Line{MenuItemID: id, Quantity: int32(qty)})
	}
	return lines, nil
}

// FromMap converts a cart mapping (item-id-string to quantity) into lines,
// dropping entries whose key is not an integer or whose quantity is below 1.
// Lines are ordered by ascending item id so callers see a stable sequence.
func FromMap(m map[string]int32) []Line {
	var lines []Line
	for k, qty := range m {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil || qty <= 0 {
			continue
		}
		lines = append(lines, Line{MenuItemID: id, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].MenuItemID < lines[j].MenuItemID })
	return lines
}

// Count returns the total quantity across the cart mapping.
func Count(m map[string]int32) int32 {
	var n int32
	for _, l := range FromMap(m) {
		n += l.Quantity
	}
	return n
}
