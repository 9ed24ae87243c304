package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequireAuth validates the bearer token for any role. The account id
// lands in the context as a hex string under "accountId".
func RequireAuth(secret string) gin.HandlerFunc {
	return requireToken(secret, "")
}

// RequireRole additionally checks the role claim before letting the
// request through.
func RequireRole(secret, role string) gin.HandlerFunc {
	return requireToken(secret, role)
}

func requireToken(secret, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			log.Println("[AUTH] [ERROR] missing token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Println("[AUTH] [ERROR] invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			log.Println("[AUTH] [ERROR] token claims invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		accountIDValue, ok := claims["accountId"].(string)
		if !ok || strings.TrimSpace(accountIDValue) == "" {
			log.Println("[AUTH] [ERROR] accountId claim missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if _, err := primitive.ObjectIDFromHex(accountIDValue); err != nil {
			log.Println("[AUTH] [ERROR] invalid accountId claim")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claimedRole, _ := claims["role"].(string)
		if role != "" && claimedRole != role {
			log.Printf("[AUTH] [ERROR] role %q cannot access %s endpoint", claimedRole, role)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Set("accountId", accountIDValue)
		c.Set("role", claimedRole)
		c.Next()
	}
}
