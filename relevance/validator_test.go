package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Deterministic(t *testing.T) {
	title := "Spiral Galaxy NGC 4414"
	explanation := "A stunning spiral galaxy seen nearly face-on."

	first := Validate(title, explanation)
	second := Validate(title, explanation)

	assert.Equal(t, first, second, "identical input must yield identical output")
}

func TestValidate_AcceptsGalaxyEntry(t *testing.T) {
	result := Validate(
		"Spiral Galaxy NGC 4414",
		"The spiral galaxy NGC 4414 spans about 55,000 light years.")

	require.True(t, result.Valid)
	assert.Equal(t, "Galaxy", result.Category)
	assert.GreaterOrEqual(t, result.Confidence, MinConfidence)
	assert.NotEmpty(t, result.Reasons)
}

func TestValidate_RepeatedTermMaxesConfidence(t *testing.T) {
	// Two whole-word matches of one term: 0.5 + 0.1*1 + 0.2*2 = 1.0.
	result := Validate("Nebula Nebula", "")

	require.True(t, result.Valid)
	assert.Equal(t, "Nebula", result.Category)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestValidate_SingleMatchAccepted(t *testing.T) {
	// One distinct term, one occurrence: 0.5 + 0.1 + 0.2 = 0.8.
	result := Validate("Comet", "")

	require.True(t, result.Valid)
	assert.Equal(t, "Comet", result.Category)
	assert.InDelta(t, 0.8, result.Confidence, 1e-9)
}

func TestValidate_NoTermsRejected(t *testing.T) {
	result := Validate("My summer vacation", "We drove to the coast and ate ice cream.")

	assert.False(t, result.Valid)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Empty(t, result.Category)
}

func TestValidate_ExclusionDominates(t *testing.T) {
	// Excluded terms reject even when astronomical vocabulary is present.
	result := Validate(
		"Blurry shot of the Andromeda Galaxy",
		"A galaxy and a nebula, but the image is blurry.")

	assert.False(t, result.Valid)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Contains(t, result.Reasons[0], "excluded term")
}

func TestValidate_ExclusionCaseInsensitive(t *testing.T) {
	result := Validate("WATERCOLOR of the night sky", "stars and galaxies")
	assert.False(t, result.Valid)
}

func TestValidate_WholeWordMatching(t *testing.T) {
	// "sunspot" must not count as a whole-word match of "sun".
	sunspot := Validate("sunspot", "")
	sun := Validate("sun", "")

	// "sunspot" is itself a taxonomy term, so both are valid, but the
	// categories prove which term matched.
	require.True(t, sunspot.Valid)
	require.True(t, sun.Valid)
	assert.Equal(t, "Solar", sunspot.Category)
	assert.Equal(t, "Sun", sun.Category)
}

func TestValidate_EmptyInput(t *testing.T) {
	result := Validate("", "")
	assert.False(t, result.Valid)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestValidate_BestTermPicksCategory(t *testing.T) {
	// "comet" appears three times, "galaxy" once: Comet wins.
	result := Validate(
		"Comet observations",
		"The comet passed near a galaxy. The comet brightened overnight.")

	require.True(t, result.Valid)
	assert.Equal(t, "Comet", result.Category)
}
