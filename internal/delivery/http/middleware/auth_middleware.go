package middleware

import (
	"strings"

	"pensionfund/internal/delivery/context"
	"pensionfund/internal/errors"
	"pensionfund/internal/domain/entity"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/domain/repository"
	"pensionfund/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenService service.TokenService
	userRepo     repository.UserRepository
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenService service.TokenService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokenService: tokenService, userRepo: userRepo}
}

// Authenticate validates the bearer access token and stores the caller's
// identity on the request context. Tokens of deactivated accounts are
// rejected even before their natural expiry.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return err
		}

		identity, err := m.resolveIdentity(c, tokenString)
		if err != nil {
			return err
		}

		applyIdentity(c, identity)

		return next(c)
	}
}

// OptionalAuthenticate attaches the caller's identity when a valid bearer
// token is present and otherwise proceeds anonymously. Any token failure is
// swallowed, so routes behind it serve both public and signed-in traffic.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return next(c)
		}

		identity, err := m.resolveIdentity(c, tokenString)
		if err != nil {
			return next(c)
		}

		applyIdentity(c, identity)

		return next(c)
	}
}

// RequireRoles passes callers holding any of the given roles. It must run
// after Authenticate.
func (m *AuthMiddleware) RequireRoles(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := context.GetIdentity(c.Request().Context())
			if identity == nil {
				return domainerrors.ErrUnauthenticated
			}

			if !entity.Roles(roles).Contains(identity.Role) {
				return domainerrors.ErrForbidden.WithDetails("requires one of roles: " + joinRoles(roles))
			}

			return next(c)
		}
	}
}

// RequirePermission passes callers whose effective permission set contains
// the given permission. It must run after Authenticate.
func (m *AuthMiddleware) RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := context.GetIdentity(c.Request().Context())
			if identity == nil {
				return domainerrors.ErrUnauthenticated
			}

			if !identity.HasPermission(permission) {
				return domainerrors.ErrForbidden.WithDetails("requires permission: " + permission)
			}

			return next(c)
		}
	}
}

// RequireMemberAccess restricts a route carrying a member ID path parameter
// to staff and to the member themselves. It must run after Authenticate.
func (m *AuthMiddleware) RequireMemberAccess(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := context.GetIdentity(c.Request().Context())
			if identity == nil {
				return domainerrors.ErrUnauthenticated
			}

			memberID, err := uuid.Parse(c.Param(param))
			if err != nil {
				return domainerrors.ErrValidationFailed.WithDetails("invalid member id")
			}

			if !identity.CanAccessMember(memberID) {
				return domainerrors.ErrForbidden.WithDetails("not your membership record")
			}

			return next(c)
		}
	}
}

// resolveIdentity parses the token and re-checks the account against the
// database so revoked or deactivated accounts lose access immediately.
func (m *AuthMiddleware) resolveIdentity(c echo.Context, tokenString string) (*context.Identity, error) {
	claims, err := m.tokenService.ParseAccessToken(tokenString)
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) {
			return nil, domainerrors.ErrTokenExpired
		}

		return nil, domainerrors.ErrInvalidToken.WithDetails(err.Error())
	}

	user, err := m.userRepo.FindByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return nil, domainerrors.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, domainerrors.ErrAccountInactive
	}

	return &context.Identity{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
		MemberID:    user.MemberID,
		Permissions: user.Permissions(),
	}, nil
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", domainerrors.ErrMissingToken
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || tokenString == "" {
		return "", domainerrors.ErrInvalidToken.WithDetails("expected a Bearer token")
	}

	return tokenString, nil
}

func applyIdentity(c echo.Context, identity *context.Identity) {
	ctx := context.WithIdentity(c.Request().Context(), identity)
	c.SetRequest(c.Request().WithContext(ctx))
}

func joinRoles(roles []entity.Role) string {
	return strings.Join(entity.Roles(roles).ToStrings(), ", ")
}
