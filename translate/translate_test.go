package translate

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocales(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	saved := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(saved)

	locales := Locales()
	assert.NotEmpty(locales)

	// Lookup failures are reported through the standard logger.
	if buf.Len() != 0 {
		assert.Contains(buf.String(), "locale: ")
	}
}

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("thread halted", From("thread halted"))
	assert.Equal("socket x: missing", From("socket %v: missing", "x"))
}
