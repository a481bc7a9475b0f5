package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepartmentLookupRoundTrip(t *testing.T) {
	d := NewDepartments()

	for _, code := range d.Codes() {
		full, ok := d.FullName(code)
		assert.True(t, ok, "code %s should resolve", code)
		assert.Equal(t, code, d.ShortCode(full))
	}
}

func TestShortCodeUnknownName(t *testing.T) {
	d := NewDepartments()

	assert.Equal(t, UnknownDepartmentCode, d.ShortCode("Underwater Basket Weaving"))
}

func TestShortCodeLegacySpellings(t *testing.T) {
	d := NewDepartments()

	assert.Equal(t, "CSE_DS", d.ShortCode("Computer Science & Engineering (Data science)"))
	assert.Equal(t, "CSE_DS", d.ShortCode("CSE-DS"))
}

func TestCodeVariants(t *testing.T) {
	d := NewDepartments()

	assert.Equal(t, []string{"CSE"}, d.CodeVariants("CSE"))
	assert.Equal(t, []string{"CSE_DS", "CSEDS"}, d.CodeVariants("CSE_DS"))
	assert.Equal(t, []string{UnknownDepartmentCode}, d.CodeVariants(""))
}
