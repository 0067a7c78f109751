package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/querocurso/marketplace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", Protected(secret), func(c *fiber.Ctx) error {
		id, err := UserID(c)
		if err != nil {
			return fiber.ErrUnauthorized
		}
		return c.SendString(id.String())
	})
	app.Get("/admin", Protected(secret), AdminRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func token(t *testing.T, role string, now time.Time) (string, uuid.UUID) {
	t.Helper()
	user := models.User{ID: uuid.New(), Role: role}
	tok, err := IssueToken(secret, user, now)
	require.NoError(t, err)
	return tok, user.ID
}

func get(t *testing.T, app *fiber.App, path, tok string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestProtected(t *testing.T) {
	app := newApp()
	valid, _ := token(t, models.RoleStudent, time.Now())
	expired, _ := token(t, models.RoleStudent, time.Now().Add(-100*time.Hour))

	assert.Equal(t, fiber.StatusBadRequest, get(t, app, "/me", ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", expired))
	assert.Equal(t, fiber.StatusOK, get(t, app, "/me", valid))
}

func TestAdminRequired(t *testing.T) {
	app := newApp()
	student, _ := token(t, models.RoleStudent, time.Now())
	admin, _ := token(t, models.RoleAdmin, time.Now())

	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", student))
	assert.Equal(t, fiber.StatusNoContent, get(t, app, "/admin", admin))
}

func TestParseToken(t *testing.T) {
	tok, id := token(t, models.RoleStudent, time.Now())

	gotID, role, err := ParseToken(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, models.RoleStudent, role)

	_, _, err = ParseToken("other-secret", tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
