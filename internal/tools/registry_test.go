package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"flatbot/pkg/models"
)

func TestRegistryInvokeUnknownTool(t *testing.T) {
	r := NewRegistry(NewCalculator())

	res := r.Invoke(context.Background(), "rocket_ship", "to the moon")
	assert.False(t, res.Succeeded)
	assert.Equal(t, models.UnknownTool, res.ErrorKind)
	assert.Contains(t, res.Output, "calc")
}

func TestRegistryInvokeRoutesByName(t *testing.T) {
	r := NewRegistry(NewCalculator())

	res := r.Invoke(context.Background(), " CALC ", "1 + 1")
	assert.True(t, res.Succeeded)
	assert.Equal(t, "2", res.Output)
}

func TestRegistryDescribe(t *testing.T) {
	r := NewRegistry(NewCalculator())
	assert.Contains(t, r.Describe(), "- calc:")
}
