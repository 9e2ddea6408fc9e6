package duration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/azctl/azctl/internal/duration"
)

func TestHours(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PT1H", duration.Hours(1))
	assert.Equal(t, "PT48H", duration.Hours(48))
}

func TestSeconds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PT5S", duration.Seconds(5))
	assert.Equal(t, "PT300S", duration.Seconds(300))
}
