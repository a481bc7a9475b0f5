package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidYear(t *testing.T) {
	assert.True(t, ValidYear("III"))
	assert.True(t, ValidYear(" iv "))
	assert.False(t, ValidYear("3"))
	assert.False(t, ValidYear(""))
}

func TestValidSection(t *testing.T) {
	assert.True(t, ValidSection("A"))
	assert.True(t, ValidSection("b"))
	assert.False(t, ValidSection("AB"))
	assert.False(t, ValidSection("1"))
}

func TestValidRollNumber(t *testing.T) {
	assert.True(t, ValidRollNumber("21CSE045"))
	assert.True(t, ValidRollNumber(" 21ECE007 "))
	assert.False(t, ValidRollNumber(""))
	assert.False(t, ValidRollNumber("abc"))
	assert.False(t, ValidRollNumber("21CSE_045"))
}

func TestValidEmailDomain(t *testing.T) {
	assert.True(t, ValidEmailDomain("@mits.ac.in"))
	assert.True(t, ValidEmailDomain("@Example.COM"))
	assert.False(t, ValidEmailDomain("mits.ac.in"))
	assert.False(t, ValidEmailDomain("@"))
	assert.False(t, ValidEmailDomain("@nodot"))
}
