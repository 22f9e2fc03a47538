package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mestizo-crm-backend/config"
	"mestizo-crm-backend/models"
	"mestizo-crm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTest points config.DB at a fresh in-memory database named after the
// test, so parallel tests never share state.
func setupTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.CatalogItem{},
		&models.Customer{},
		&models.Contact{},
		&models.Address{},
		&models.Lead{},
		&models.Opportunity{},
		&models.Activity{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.Project{},
		&models.ProjectMedia{},
	))

	config.DB = db
}

// newTestRouter builds a router with the auth middleware applied, letting each
// test register only the routes it exercises.
func newTestRouter(register func(api *gin.RouterGroup)) *gin.Engine {
	r := gin.New()
	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	register(api)
	return r
}

// seedUser inserts a user directly, bypassing the register endpoint.
func seedUser(t *testing.T) models.User {
	t.Helper()
	user := models.User{
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Name:     "Test User",
		Password: "password123",
		IsActive: true,
	}
	require.NoError(t, config.DB.Create(&user).Error)
	return user
}

func seedCustomer(t *testing.T, name string) models.Customer {
	t.Helper()
	customer := models.Customer{
		Type: models.CustomerTypeIndividual,
		Name: name,
	}
	require.NoError(t, config.DB.Create(&customer).Error)
	return customer
}

func authToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := utils.GenerateAccessToken(userID.String())
	require.NoError(t, err)
	return "Bearer " + token
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
