// internal/service/template_test.go
package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablepulse/crm-backend/internal/service"
)

func TestRenderTemplate(t *testing.T) {
	out, err := service.RenderTemplate("Hi {first_name}, welcome back!", map[string]string{
		"first_name": "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi Alice, welcome back!", out)
}

func TestRenderTemplate_NoPlaceholders(t *testing.T) {
	out, err := service.RenderTemplate("Flat offer for everyone", map[string]string{
		"first_name": "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "Flat offer for everyone", out)
}

func TestRenderTemplate_UnknownPlaceholderFails(t *testing.T) {
	_, err := service.RenderTemplate("Hi {first_name}, code {promo_code}", map[string]string{
		"first_name": "Alice",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "promo_code")
}

func TestRenderTemplate_BracesInValueStayLiteral(t *testing.T) {
	out, err := service.RenderTemplate("Hi {first_name}!", map[string]string{
		"first_name": "{Alice}",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi {Alice}!", out)
}

func TestRenderTemplate_UnmatchedBraceIsLiteral(t *testing.T) {
	out, err := service.RenderTemplate("Open { all day, {first_name}", map[string]string{
		"first_name": "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "Open { all day, Alice", out)
}

func TestRenderTemplate_RepeatedPlaceholder(t *testing.T) {
	out, err := service.RenderTemplate("{first_name}, {first_name}!", map[string]string{
		"first_name": "Bo",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bo, Bo!", out)
}
