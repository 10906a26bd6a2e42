// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"pensionfund/internal/delivery/http/middleware"
	"pensionfund/internal/delivery/http/router/handler"
	"pensionfund/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds every handler and middleware the route table needs,
// injected by Fx.
type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	PasswordHandler     *handler.PasswordHandler
	SessionHandler      *handler.SessionHandler
	MemberHandler       *handler.MemberHandler
	ContributionHandler *handler.ContributionHandler
	ClaimHandler        *handler.ClaimHandler
	BeneficiaryHandler  *handler.BeneficiaryHandler
	DashboardHandler    *handler.DashboardHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	authn := r.params.AuthMiddleware
	throttle := r.params.RateLimitMiddleware.Limit

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public auth routes; credential endpoints are throttled per IP.
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.params.AuthHandler.Register)
		authGroup.POST("/login", r.params.AuthHandler.Login, throttle)
		authGroup.POST("/refresh", r.params.AuthHandler.Refresh)
		authGroup.POST("/password/forgot", r.params.PasswordHandler.Forgot, throttle)
		authGroup.POST("/password/reset", r.params.PasswordHandler.Reset)
		authGroup.POST("/password/validate", r.params.PasswordHandler.Validate)
	}

	// Account routes for the authenticated caller.
	meGroup := e.Group("/auth", authn.Authenticate)
	{
		meGroup.GET("/me", r.params.AuthHandler.Me)
		meGroup.POST("/logout", r.params.AuthHandler.Logout)
		meGroup.POST("/logout-all", r.params.AuthHandler.LogoutAll)
		meGroup.POST("/password/change", r.params.PasswordHandler.Change)
		meGroup.GET("/sessions", r.params.SessionHandler.List)
		meGroup.DELETE("/sessions/:id", r.params.SessionHandler.Revoke)
	}

	// Member records. Reads of a single record are open to staff and the
	// record's owner; everything listed or written is staff-only.
	memberGroup := e.Group("/members", authn.Authenticate)
	{
		memberGroup.POST("", r.params.MemberHandler.Enroll,
			authn.RequirePermission(entity.PermMembersWrite))
		memberGroup.GET("", r.params.MemberHandler.List,
			authn.RequireRoles(entity.RolePensionOfficer, entity.RoleAdmin, entity.RoleSuperAdmin))
		memberGroup.GET("/number/:number", r.params.MemberHandler.GetByNumber,
			authn.RequireRoles(entity.RolePensionOfficer, entity.RoleAdmin, entity.RoleSuperAdmin))
		memberGroup.GET("/:id", r.params.MemberHandler.Get,
			authn.RequireMemberAccess("id"))
		memberGroup.PATCH("/:id", r.params.MemberHandler.Update,
			authn.RequirePermission(entity.PermMembersWrite))
		memberGroup.PUT("/:id/status", r.params.MemberHandler.ChangeStatus,
			authn.RequirePermission(entity.PermMembersWrite))

		// Contribution history under the owning member.
		memberGroup.POST("/:id/contributions", r.params.ContributionHandler.Record,
			authn.RequirePermission(entity.PermContributionsWrite))
		memberGroup.GET("/:id/contributions", r.params.ContributionHandler.ListByMember,
			authn.RequireMemberAccess("id"))

		// Beneficiary nominations belong to the member.
		memberGroup.POST("/:id/beneficiaries", r.params.BeneficiaryHandler.Add,
			authn.RequireMemberAccess("id"))
		memberGroup.GET("/:id/beneficiaries", r.params.BeneficiaryHandler.List,
			authn.RequireMemberAccess("id"))
		memberGroup.PUT("/:id/beneficiaries/:beneficiaryID", r.params.BeneficiaryHandler.Update,
			authn.RequireMemberAccess("id"))
		memberGroup.DELETE("/:id/beneficiaries/:beneficiaryID", r.params.BeneficiaryHandler.Remove,
			authn.RequireMemberAccess("id"))

		// Claims are filed by the member (or staff on their behalf).
		memberGroup.POST("/:id/claims", r.params.ClaimHandler.Submit,
			authn.RequireMemberAccess("id"))
	}

	// Claim processing is a staff surface.
	claimGroup := e.Group("/claims", authn.Authenticate)
	{
		claimGroup.GET("", r.params.ClaimHandler.List,
			authn.RequireRoles(entity.RolePensionOfficer, entity.RoleApprover, entity.RoleAdmin, entity.RoleSuperAdmin))
		claimGroup.GET("/:id", r.params.ClaimHandler.Get,
			authn.RequireRoles(entity.RolePensionOfficer, entity.RoleApprover, entity.RoleAdmin, entity.RoleSuperAdmin))
		claimGroup.POST("/:id/decision", r.params.ClaimHandler.Decide,
			authn.RequirePermission(entity.PermClaimsDecide))
		claimGroup.POST("/:id/paid", r.params.ClaimHandler.MarkPaid,
			authn.RequirePermission(entity.PermClaimsPay))
	}

	// Admin surface.
	adminGroup := e.Group("/admin", authn.Authenticate)
	{
		adminGroup.GET("/dashboard", r.params.DashboardHandler.Overview,
			authn.RequirePermission(entity.PermDashboardView))
	}
}
