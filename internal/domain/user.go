package domain

// Role determines which pages and operations a user may reach.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleManager    Role = "manager"
	RoleUser       Role = "user"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleSuperAdmin || r == RoleManager || r == RoleUser
}

// User is an account on the storefront. Accounts are never deleted,
// only deactivated.
//
// Password is stored and compared in plaintext. That is a known weakness
// carried over from the original design; swapping in a real credential
// verification capability is an external requirement, not part of this
// core's contract.
type User struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	Username             string     `json:"username"`
	Name                 string     `json:"name"`
	Role                 Role       `json:"role"`
	DiscountRate         float64    `json:"discountRate"`
	AccessibleCategories []Category `json:"accessibleCategories"`
	IsActive             bool       `json:"isActive"`
	IsPendingApproval    bool       `json:"isPendingApproval"`
	Password             string     `json:"password,omitempty"`

	CompanyName string `json:"companyName,omitempty"`
	TaxID       string `json:"taxId,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`

	// Manager-only capability flags. Ignored for super_admin (implicitly
	// granted) and for plain users (implicitly denied).
	CanSetUserDiscounts  bool `json:"canSetUserDiscounts,omitempty"`
	CanCreateNewUsers    bool `json:"canCreateNewUsers,omitempty"`
	CanManageAllProducts bool `json:"canManageAllProducts,omitempty"`
}

// IsAdmin reports whether the user holds an administrative role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleSuperAdmin || u.Role == RoleManager
}

// CanManageProducts reports whether the user may use the product
// management operations.
func (u *User) CanManageProducts() bool {
	return u.Role == RoleSuperAdmin || (u.Role == RoleManager && u.CanManageAllProducts)
}

// CanManageUsers reports whether the user may use the user management
// operations.
func (u *User) CanManageUsers() bool {
	return u.Role == RoleSuperAdmin || (u.Role == RoleManager && u.CanCreateNewUsers)
}

// CanAdjustDiscounts reports whether the user may change another user's
// discount rate.
func (u *User) CanAdjustDiscounts() bool {
	return u.Role == RoleSuperAdmin || (u.Role == RoleManager && u.CanSetUserDiscounts)
}

// CanAccessCategory reports whether the user may browse products in the
// given category. Admins and managers see every category; plain users are
// limited to their accessible-category set.
func (u *User) CanAccessCategory(c Category) bool {
	if u.IsAdmin() {
		return true
	}
	for _, allowed := range u.AccessibleCategories {
		if allowed == c {
			return true
		}
	}
	return false
}
