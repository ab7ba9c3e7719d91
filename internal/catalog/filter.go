// Package catalog computes which products a user may see. The filter is
// a pure function over the product list and is re-evaluated on every
// read; nothing here caches or mutates.
package catalog

import (
	"strings"

	"b2b-catalog/internal/domain"
)

// VisibleProducts narrows the product list for a viewer, in order:
// trashed products are dropped, plain users are limited to their
// accessible categories (admins and managers bypass that narrowing),
// then the optional category filter and case-insensitive search term are
// applied. The result keeps the underlying list's order.
func VisibleProducts(all []*domain.Product, user *domain.User, category domain.Category, search string) []*domain.Product {
	needle := strings.ToLower(search)

	visible := make([]*domain.Product, 0, len(all))
	for _, p := range all {
		if p.IsTrashed {
			continue
		}
		if user.Role == domain.RoleUser && !containsCategory(user.AccessibleCategories, p.Category) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if needle != "" && !matchesSearch(p, needle) {
			continue
		}
		visible = append(visible, p)
	}
	return visible
}

// AvailableCategories returns the categories a user may filter by:
// every category for admins and managers, the accessible set for plain
// users.
func AvailableCategories(user *domain.User) []domain.Category {
	if user.IsAdmin() {
		return append([]domain.Category(nil), domain.Categories...)
	}
	return append([]domain.Category(nil), user.AccessibleCategories...)
}

func containsCategory(set []domain.Category, c domain.Category) bool {
	for _, member := range set {
		if member == c {
			return true
		}
	}
	return false
}

func matchesSearch(p *domain.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(string(p.Category)), needle)
}
