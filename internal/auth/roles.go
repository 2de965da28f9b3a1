package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/encenape/event-service/internal/domain"
	apperrors "github.com/encenape/event-service/pkg/util/errorutil"
)

// RequireAuthenticated ensures a caller is logged in.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("autenticação necessária")
		}
		return c.Next()
	}
}

// RequireRole ensures the principal holds one of the allowed roles. The check
// is against the role set, not a substring of a joined string.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("autenticação necessária")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		for _, role := range principal.Roles {
			if _, exists := allowedSet[role]; exists {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("permissão insuficiente")
	}
}

// RequireAdmin gates administrative routes.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
