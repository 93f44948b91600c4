package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type contextKey string

const claimsContextKey contextKey = "claims"

var errMissingToken = errors.New("missing authorization header")

// ContextWithClaims returns a new context with the given Claims attached.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext extracts Claims from the context.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}

// bearerToken strips an optional "Bearer " prefix from an authorization value.
func bearerToken(header string) (string, error) {
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", errMissingToken
	}
	return token, nil
}

// UnaryAuthInterceptor returns a gRPC unary server interceptor for JWT auth.
// Methods in publicMethods are served without a token; every other method
// needs a token carrying one of roles.
func UnaryAuthInterceptor(verifier *Verifier, publicMethods []string, roles ...string) grpc.UnaryServerInterceptor {
	public := make(map[string]struct{}, len(publicMethods))
	for _, m := range publicMethods {
		public[m] = struct{}{}
	}

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if _, ok := public[info.FullMethod]; ok {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeader := md.Get("authorization")
		if len(authHeader) == 0 {
			return nil, status.Error(codes.Unauthenticated, errMissingToken.Error())
		}

		tokenString, err := bearerToken(authHeader[0])
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		if !claims.HasAnyRole(roles...) {
			return nil, status.Error(codes.PermissionDenied, "insufficient role")
		}

		return handler(ContextWithClaims(ctx, claims), req)
	}
}

// GinMiddleware rejects requests without a valid bearer token with 401 and
// tokens lacking one of roles with 403. Claims are attached to the request
// context.
func GinMiddleware(verifier *Verifier, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abort(c, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}
		if !claims.HasAnyRole(roles...) {
			abort(c, http.StatusForbidden, "insufficient role")
			return
		}

		c.Request = c.Request.WithContext(ContextWithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

func abort(c *gin.Context, code int, detail string) {
	c.Header("WWW-Authenticate", `Bearer realm="simulacao"`)
	c.AbortWithStatusJSON(code, gin.H{
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}
