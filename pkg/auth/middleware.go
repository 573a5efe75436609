package auth

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ContextWithClaims returns a new context with the given Claims attached.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext extracts Claims from the context.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}

// OwnerScope returns the caller's user id when the caller may only see their
// own records, and "" for admins, operators and unauthenticated calls.
func OwnerScope(ctx context.Context) string {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.HasAnyRole(RoleAdmin, RoleOperator) {
		return ""
	}
	return claims.UserID.String()
}

// UnaryAuthInterceptor validates the bearer token in the "authorization"
// metadata and stores its claims in the context. Methods in skipMethods,
// such as the health check, pass through unauthenticated.
func UnaryAuthInterceptor(jwtService *JWTService, skipMethods []string) grpc.UnaryServerInterceptor {
	skip := methodSet(skipMethods)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if skip[info.FullMethod] {
			return handler(ctx, req)
		}
		claims, err := authenticate(ctx, jwtService)
		if err != nil {
			return nil, err
		}
		return handler(ContextWithClaims(ctx, claims), req)
	}
}

// RequireRole rejects calls to the listed methods unless the caller holds at
// least one of roles. It must run after UnaryAuthInterceptor.
func RequireRole(methods []string, roles ...string) grpc.UnaryServerInterceptor {
	guarded := methodSet(methods)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !guarded[info.FullMethod] {
			return handler(ctx, req)
		}
		claims, ok := ClaimsFromContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "no claims in context")
		}
		if !claims.HasAnyRole(roles...) {
			return nil, status.Errorf(codes.PermissionDenied, "required role(s): %s", strings.Join(roles, ", "))
		}
		return handler(ctx, req)
	}
}

func authenticate(ctx context.Context, jwtService *JWTService) (*Claims, error) {
	values := metadata.ValueFromIncomingContext(ctx, "authorization")
	if len(values) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing authorization header")
	}
	claims, err := jwtService.ValidateToken(bearerToken(values[0]))
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}
	return claims, nil
}

func methodSet(methods []string) map[string]bool {
	set := make(map[string]bool, len(methods))
	for _, m := range methods {
		set[m] = true
	}
	return set
}

// bearerToken strips an optional case-insensitive "Bearer " prefix.
func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if found && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(token)
	}
	return header
}
