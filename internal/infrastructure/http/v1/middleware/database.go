package middleware

import (
	"github.com/gin-gonic/gin"

	"stockgap/internal/core/tx"
	"stockgap/internal/infrastructure/storage/postgres"
)

// Database middleware injects the TxManager into the request context.
// Repositories resolve it from there; this middleware MUST run before any
// database operations.
func Database(txManager *postgres.TxManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := tx.WithManager(c.Request.Context(), txManager)
		c.Request = c.Request.WithContext(ctx)

		// Also set in Gin context for handlers that use c.Get()
		c.Set("tx_manager", txManager)

		c.Next()
	}
}

// GetTxManagerFromContext retrieves TxManager from Gin context.
// Returns nil if not found.
func GetTxManagerFromContext(c *gin.Context) *postgres.TxManager {
	if v, exists := c.Get("tx_manager"); exists {
		if txm, ok := v.(*postgres.TxManager); ok {
			return txm
		}
	}
	return nil
}
