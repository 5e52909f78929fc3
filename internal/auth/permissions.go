package auth

import "credmatrix_backend/internal/models"

// Permission names checked by middleware.RequirePermission.
const (
	PermCredentialsWrite  = "credentials:write"
	PermCredentialsVerify = "credentials:verify"
	PermCredentialsExpire = "credentials:expire"
	PermJobsManage        = "jobs:manage"
	PermJobsApply         = "jobs:apply"
	PermTalentPool        = "talent_pool:manage"
	PermPortfolio         = "portfolio:manage"
	PermUsersAdmin        = "users:admin"
	PermStatsRead         = "stats:read"
)

// Permissions список разрешений
var Permissions = map[models.UserRole][]string{
	models.UserRoleAdmin: {
		PermCredentialsVerify,
		PermCredentialsExpire,
		PermUsersAdmin,
		PermStatsRead,
	},
	models.UserRoleInstitution: {
		PermCredentialsWrite,
		PermCredentialsVerify,
	},
	models.UserRoleEmployer: {
		PermJobsManage,
		PermTalentPool,
	},
	models.UserRoleLearner: {
		PermCredentialsWrite,
		PermJobsApply,
		PermPortfolio,
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role models.UserRole, permission string) bool {
	for _, p := range Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

func IsAdmin(claims *Claims) bool {
	return claims != nil && claims.Role == models.UserRoleAdmin
}
