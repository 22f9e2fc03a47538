package routes

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRouterPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRouter()

	registered := make(map[string]bool)
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	want := []string{
		"POST /api/token",
		"POST /api/token/refresh",
		"POST /api/auth/register",
		"GET /api/auth/me",
		"GET /api/dashboard/stats",
		"GET /api/catalog",
		"GET /api/customers",
		"POST /api/opportunities/:id/change_stage",
		"POST /api/activities/:id/mark_done",
		"POST /api/quotes/:id/change_status",
		"POST /api/import/customers",
		"POST /api/import/leads",
	}
	for _, route := range want {
		assert.True(t, registered[route], "missing route %s", route)
	}
}
