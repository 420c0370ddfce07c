package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("tailoring.json", "tailor-system")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "CV tailoring assistant")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("tailoring.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	result := Format(template, data)
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", result)
}

func TestFormat_ValuesAreNotReexpanded(t *testing.T) {
	result := Format("{{.A}} {{.B}}", map[string]string{
		"A": "{{.B}}",
		"B": "b",
	})
	assert.Equal(t, "{{.B}} b", result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"

	result := Format(template, map[string]string{})
	assert.Equal(t, template, result) // Placeholder remains
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("tailoring.json")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"tailor-posting-marker",
		"tailor-resume-marker",
		"tailor-system",
		"tailor-user-intro",
	}, keys)
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get("tailoring.json", "tailor-user-intro")
	require.NoError(t, err)

	prompt2, err := Get("tailoring.json", "tailor-user-intro")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
