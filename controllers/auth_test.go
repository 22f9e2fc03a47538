package controllers

import (
	"net/http"
	"testing"

	"mestizo-crm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter() *gin.Engine {
	r := gin.New()
	api := r.Group("/api")
	api.POST("/token", ObtainToken)
	api.POST("/token/refresh", RefreshToken)
	api.POST("/auth/register", Register)
	return r
}

func TestRegisterAndObtainToken(t *testing.T) {
	setupTest(t)
	r := newAuthRouter()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "ana@example.com",
		"name":     "Ana",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var registered struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
		User    struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeJSON(t, w, &registered)
	assert.NotEmpty(t, registered.Access)
	assert.NotEmpty(t, registered.Refresh)
	assert.Equal(t, "ana@example.com", registered.User.Email)

	// Same email again conflicts
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "ana@example.com",
		"name":     "Ana",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/token", "", gin.H{
		"email":    "ana@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	decodeJSON(t, w, &tokens)
	assert.NotEmpty(t, tokens.Access)
	assert.NotEmpty(t, tokens.Refresh)

	w = doJSON(t, r, http.MethodPost, "/api/token", "", gin.H{
		"email":    "ana@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshTokenFlow(t *testing.T) {
	setupTest(t)
	r := newAuthRouter()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "luis@example.com",
		"name":     "Luis",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var registered struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	decodeJSON(t, w, &registered)

	w = doJSON(t, r, http.MethodPost, "/api/token/refresh", "", gin.H{"refresh": registered.Refresh})
	require.Equal(t, http.StatusOK, w.Code)

	var refreshed struct {
		Access string `json:"access"`
	}
	decodeJSON(t, w, &refreshed)
	assert.NotEmpty(t, refreshed.Access)

	// An access token is not accepted by the refresh endpoint
	w = doJSON(t, r, http.MethodPost, "/api/token/refresh", "", gin.H{"refresh": registered.Access})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	setupTest(t)
	user := seedUser(t)
	r := newTestRouter(func(api *gin.RouterGroup) {
		api.GET("/customers", GetCustomers)
		api.GET("/auth/me", Me)
	})

	w := doJSON(t, r, http.MethodGet, "/api/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/customers", "Bearer not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Refresh tokens are not valid for API access
	refresh, err := utils.GenerateRefreshToken(user.ID.String())
	require.NoError(t, err)
	w = doJSON(t, r, http.MethodGet, "/api/customers", "Bearer "+refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := authToken(t, user.ID)
	w = doJSON(t, r, http.MethodGet, "/api/customers", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeJSON(t, w, &me)
	assert.Equal(t, user.Email, me.User.Email)
}
