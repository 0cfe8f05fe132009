package scenes_test

import (
	"testing"

	"datajoin/feature/scenes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestLoader(t *testing.T) {
	svc := newService(t, nil, nil, scenes.Options{})
	feature := scenes.NewFeature(svc)

	assert.Equal(t, "scenes", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.Same(t, svc, feature.Service())

	app := fiber.New()
	assert.NoError(t, feature.Load(app))
}
