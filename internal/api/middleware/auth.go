package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ortiurbani/orti-api/internal/api/handler/v1/response"
	"github.com/ortiurbani/orti-api/internal/authz"
	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/pkg/jwthelper"
	"github.com/ortiurbani/orti-api/internal/repository"
)

const principalKey = "auth.principal"

var (
	errMissingToken      = errors.New("missing bearer token")
	errUserAgentMismatch = errors.New("token was issued to another user agent")
	errUnknownUser       = errors.New("token user no longer exists")
)

type UserFinder interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type Authenticator struct {
	key   []byte
	users UserFinder
}

func NewAuthenticator(key string, users UserFinder) *Authenticator {
	return &Authenticator{
		key:   []byte(key),
		users: users,
	}
}

// VerifyJWT authenticates the bearer token and stores the principal of its
// user, loaded fresh so that affiliation changes apply immediately. The
// token may also come in the "token" query parameter, for websocket clients
// that cannot set headers.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx)
		if tokenString == "" {
			response.RenderErr(ctx, response.ErrUnauthenticated(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.key, tokenString)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthenticated(err))
			return
		}
		if claims.UserAgent != ctx.Request.UserAgent() {
			response.RenderErr(ctx, response.ErrUnauthenticated(errUserAgentMismatch))
			return
		}

		user, err := a.users.FindByID(ctx.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				response.RenderErr(ctx, response.ErrUnauthenticated(errUnknownUser))
				return
			}
			err = fmt.Errorf("middleware.VerifyJWT -> a.users.FindByID -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}

		principal := user.Principal()
		ctx.Set(principalKey, &principal)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return ""
		}
		return strings.TrimSpace(token)
	}

	return ctx.Query("token")
}

// Authorize rejects requests whose principal does not satisfy policy.
func Authorize(policy authz.Policy) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		principal, _ := Principal(ctx)

		err := authz.Decide(principal, policy)
		switch {
		case err == nil:
			ctx.Next()
		case errors.Is(err, domain.ErrUnauthenticated):
			response.RenderErr(ctx, response.ErrUnauthenticated(err))
		case errors.Is(err, domain.ErrForbiddenAdmin):
			response.RenderErr(ctx, response.ErrAdminRequired(err))
		default:
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		}
	}
}

// Principal returns the principal stored by VerifyJWT.
func Principal(ctx *gin.Context) (*domain.Principal, bool) {
	v, ok := ctx.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*domain.Principal)

	return p, ok
}

// SetPrincipal stores p as the request principal.
func SetPrincipal(ctx *gin.Context, p domain.Principal) {
	ctx.Set(principalKey, &p)
}
