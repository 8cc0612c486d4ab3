package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	t.Run("injects data into the body", func(t *testing.T) {
		subject, body, err := RenderTemplate("application_reminder", map[string]interface{}{
			"name":               "Ada Lovelace",
			"application_status": "Applying",
		})

		require.NoError(t, err)
		assert.Equal(t, "Your application is waiting", subject)
		assert.Contains(t, body, "Hello Ada Lovelace")
		assert.Contains(t, body, "<strong>Applying</strong>")
		assert.Contains(t, body, "The Undergraduation Team")
	})

	t.Run("escapes HTML in data", func(t *testing.T) {
		_, body, err := RenderTemplate("welcome", map[string]interface{}{
			"name": "<script>alert(1)</script>",
		})

		require.NoError(t, err)
		assert.NotContains(t, body, "<script>")
	})

	t.Run("conditional sections render only with data", func(t *testing.T) {
		_, body, err := RenderTemplate("interview_invitation", map[string]interface{}{
			"name":           "Ada",
			"interview_date": "2026-09-15",
		})
		require.NoError(t, err)
		assert.Contains(t, body, "2026-09-15")

		_, body, err = RenderTemplate("interview_invitation", map[string]interface{}{"name": "Ada"})
		require.NoError(t, err)
		assert.NotContains(t, body, "on <strong>")
	})

	t.Run("unknown template is an error", func(t *testing.T) {
		_, _, err := RenderTemplate("newsletter", nil)
		assert.Error(t, err)
	})
}

func TestHasTemplate(t *testing.T) {
	for _, name := range []string{
		"welcome", "application_reminder", "document_request",
		"status_update", "followup", "interview_invitation", "admission_decision",
	} {
		assert.True(t, HasTemplate(name), name)
	}
	assert.False(t, HasTemplate("newsletter"))
}
