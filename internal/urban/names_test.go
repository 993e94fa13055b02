package urban

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "gracia", NormalizeName("Gràcia"))
	assert.Equal(t, "poblenou", NormalizeName("  Poblenou "))
	assert.Equal(t, "sarria-sant gervasi", NormalizeName("Sarrià-Sant Gervasi"))
	assert.Equal(t, "el raval", NormalizeName("EL RAVAL"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestNormalizeName_MatchesAcrossVariants(t *testing.T) {
	assert.Equal(t, NormalizeName("Gràcia"), NormalizeName("GRACIA "))
	assert.Equal(t, NormalizeName("Sant Martí"), NormalizeName("sant marti"))
}
