package identity

import (
	"slices"
	"strings"
)

// Role determines what a user may do and which sections they see
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleManager     Role = "MANAGER"
	RoleSales       Role = "SALES"
	RoleStorekeeper Role = "STOREKEEPER"
	RoleAccountant  Role = "ACCOUNTANT"
)

// AllRoles lists the roles in display order
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleSales, RoleStorekeeper, RoleAccountant}
}

func (r Role) IsValid() bool {
	return slices.Contains(AllRoles(), r)
}

func (r Role) String() string {
	return string(r)
}

// Resources guarded by permissions
const (
	ResourceBusinessLine = "business_line"
	ResourceCustomer     = "customer"
	ResourceVendor       = "vendor"
	ResourceStock        = "stock"
	ResourcePurchase     = "purchase"
	ResourceSales        = "sales"
	ResourcePayment      = "payment"
	ResourceReport       = "report"
	ResourceUser         = "user"
)

// Actions on resources
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Permission builds a "resource:action" permission code
func Permission(resource, action string) string {
	return resource + ":" + action
}

const wildcard = "*"

var rolePermissions = map[Role][]string{
	RoleAdmin: {
		wildcard,
	},
	RoleManager: {
		"business_line:read",
		"customer:*", "vendor:*", "stock:*", "purchase:*", "sales:*", "payment:*",
		"report:read", "user:read",
	},
	RoleSales: {
		"customer:read", "customer:create", "customer:update",
		"sales:read", "sales:create", "sales:update",
		"stock:read",
		"payment:read", "payment:create",
		"report:read",
	},
	RoleStorekeeper: {
		"stock:*", "purchase:*",
		"vendor:read",
		"report:read",
	},
	RoleAccountant: {
		"payment:*",
		"customer:read", "customer:update",
		"vendor:read", "vendor:update",
		"sales:read", "purchase:read",
		"report:read",
	},
}

// Permissions returns the permission codes granted to the role
func (r Role) Permissions() []string {
	return slices.Clone(rolePermissions[r])
}

// HasPermission reports whether the role grants "resource:action".
// A grant of "*" or "resource:*" covers every action.
func (r Role) HasPermission(permission string) bool {
	resource, action, found := strings.Cut(permission, ":")
	if !found || resource == "" || action == "" {
		return false
	}
	for _, granted := range rolePermissions[r] {
		if granted == wildcard || granted == permission || granted == resource+":"+wildcard {
			return true
		}
	}
	return false
}

// NavigationSection is one entry of the back-office menu
type NavigationSection struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Resource string `json:"resource"`
}

var navigation = []NavigationSection{
	{Key: "dashboard", Label: "Dashboard", Resource: ResourceReport},
	{Key: "business-lines", Label: "Business Lines", Resource: ResourceBusinessLine},
	{Key: "customers", Label: "Customers", Resource: ResourceCustomer},
	{Key: "vendors", Label: "Vendors", Resource: ResourceVendor},
	{Key: "stock", Label: "Stock", Resource: ResourceStock},
	{Key: "purchases", Label: "Purchase Intake", Resource: ResourcePurchase},
	{Key: "sales", Label: "Sales", Resource: ResourceSales},
	{Key: "payments", Label: "Payments", Resource: ResourcePayment},
	{Key: "reports", Label: "Reports", Resource: ResourceReport},
	{Key: "users", Label: "Users", Resource: ResourceUser},
}

// Navigation returns the sections whose resource the role can read, in menu order
func (r Role) Navigation() []NavigationSection {
	out := make([]NavigationSection, 0, len(navigation))
	for _, s := range navigation {
		if r.HasPermission(Permission(s.Resource, ActionRead)) {
			out = append(out, s)
		}
	}
	return out
}
