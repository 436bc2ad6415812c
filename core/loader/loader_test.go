package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFeature struct {
	name    string
	enabled bool
	loadErr error
	loaded  bool
}

func (f *fakeFeature) Name() string    { return f.name }
func (f *fakeFeature) IsEnabled() bool { return f.enabled }
func (f *fakeFeature) Load(app fiber.Router) error {
	f.loaded = true
	return f.loadErr
}

// TestManagerLoadAll tests that enabled features load and disabled ones are
// skipped.
func TestManagerLoadAll(t *testing.T) {
	mgr := NewManager(zap.NewNop())
	on := &fakeFeature{name: "on", enabled: true}
	off := &fakeFeature{name: "off", enabled: false}
	mgr.Register(on)
	mgr.Register(off)

	require.NoError(t, mgr.LoadAll(fiber.New()))
	assert.True(t, on.loaded)
	assert.False(t, off.loaded)
}

// TestManagerLoadAllError tests that the first failing feature aborts the
// load with its name in the error.
func TestManagerLoadAllError(t *testing.T) {
	mgr := NewManager(zap.NewNop())
	boom := errors.New("boom")
	mgr.Register(&fakeFeature{name: "broken", enabled: true, loadErr: boom})
	later := &fakeFeature{name: "later", enabled: true}
	mgr.Register(later)

	err := mgr.LoadAll(fiber.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
	assert.False(t, later.loaded)
}
