package loader

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (f *stubFeature) Name() string    { return f.name }
func (f *stubFeature) IsEnabled() bool { return f.enabled }
func (f *stubFeature) Load(app fiber.Router) error {
	if f.err != nil {
		return f.err
	}
	f.loaded = true
	app.Get("/"+f.name, func(c *fiber.Ctx) error {
		return c.SendString(f.name)
	})
	return nil
}

func TestManager_LoadAll(t *testing.T) {
	person := &stubFeature{name: "person", enabled: true}
	frontdesk := &stubFeature{name: "frontdesk", enabled: true}
	disabled := &stubFeature{name: "reports", enabled: false}

	mgr := NewManager()
	mgr.Register(person)
	mgr.Register(disabled)
	mgr.Register(frontdesk)
	assert.Len(t, mgr.Features(), 3)

	app := fiber.New()
	require.NoError(t, mgr.LoadAll(app))

	assert.True(t, person.loaded)
	assert.True(t, frontdesk.loaded)
	assert.False(t, disabled.loaded)

	resp, err := app.Test(httptest.NewRequest("GET", "/frontdesk", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/reports", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestManager_LoadAllStopsOnError(t *testing.T) {
	broken := &stubFeature{name: "frontdesk", enabled: true, err: errors.New("no stores")}
	after := &stubFeature{name: "reconcile", enabled: true}

	mgr := NewManager()
	mgr.Register(broken)
	mgr.Register(after)

	err := mgr.LoadAll(fiber.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load feature frontdesk")
	assert.False(t, after.loaded)
}
