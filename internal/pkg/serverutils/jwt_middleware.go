package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JwtMiddleware verifies an HS256 bearer token and stores its user_id claim
// in ctx.Locals("user_id").
func JwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userId, ok := parseBearer(ctx, secret)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponseWithKind(fiber.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing token"))
		}
		ctx.Locals("user_id", userId)
		return ctx.Next()
	}
}

// OptionalJwtMiddleware sets user_id when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if userId, ok := parseBearer(ctx, secret); ok {
			ctx.Locals("user_id", userId)
		}
		return ctx.Next()
	}
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(ctx *fiber.Ctx) string {
	userId, _ := ctx.Locals("user_id").(string)
	return userId
}

func parseBearer(ctx *fiber.Ctx, secret string) (string, bool) {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return "", false
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	userId, ok := claims["user_id"].(string)
	if !ok || userId == "" {
		return "", false
	}
	return userId, true
}

// SignToken issues a token with the user_id claim. The seed command and tests use it.
func SignToken(secret, userId string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userId})
	return token.SignedString([]byte(secret))
}
