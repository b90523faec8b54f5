package middleware

import (
	"strings"

	"github.com/Lazvegas61/MyCafe-sql/internal/apierror"
	"github.com/Lazvegas61/MyCafe-sql/internal/authz"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			unauthorized := apierror.Unauthorized("")
			c.AbortWithStatusJSON(unauthorized.Status, unauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			unauthorized := apierror.Unauthorized("Token invalid or expired")
			c.AbortWithStatusJSON(unauthorized.Status, unauthorized)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Require rejects requests whose JWT role may not perform the operation,
// per the permission table in internal/authz.
func Require(op authz.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok {
			unauthorized := apierror.Unauthorized("")
			c.AbortWithStatusJSON(unauthorized.Status, unauthorized)
			return
		}
		if err := authz.Check(authz.Role(claims.Role), op); err != nil {
			apiErr, _ := apierror.As(err)
			c.AbortWithStatusJSON(apiErr.Status, apiErr)
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}
