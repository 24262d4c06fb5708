package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	for _, r := range []Role{Donor, Recipient, Admin, Analyst} {
		assert.Equal(t, r, Parse(r.String()))
	}

	// неизвестная строка дает роль по умолчанию
	assert.Equal(t, Donor, Parse("superuser"))
	assert.Equal(t, Donor, Parse(""))
}
