package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanLineComment(t *testing.T) {
	pos, state := scanLine(`key = "value" # trailing`, stateNone)
	assert.Equal(t, 14, pos)
	assert.Equal(t, stateNone, state)
}

func TestScanLineHashInsideString(t *testing.T) {
	pos, state := scanLine(`key = "a # b"`, stateNone)
	assert.Equal(t, -1, pos)
	assert.Equal(t, stateNone, state)

	pos, state = scanLine(`key = 'a # b' # real`, stateNone)
	assert.Equal(t, 14, pos)
	assert.Equal(t, stateNone, state)
}

func TestScanLineMultilineBasic(t *testing.T) {
	pos, state := scanLine(`key = """start`, stateNone)
	assert.Equal(t, -1, pos)
	assert.Equal(t, stateMultiBasic, state)

	pos, state = scanLine(`middle # not a comment`, state)
	assert.Equal(t, -1, pos)
	assert.Equal(t, stateMultiBasic, state)

	pos, state = scanLine(`end""" # after`, state)
	assert.Equal(t, 7, pos)
	assert.Equal(t, stateNone, state)
}

func TestScanLineMultilineLiteral(t *testing.T) {
	pos, state := scanLine(`key = '''start`, stateNone)
	assert.Equal(t, -1, pos)
	assert.Equal(t, stateMultiLiteral, state)

	pos, state = scanLine(`# still string`, state)
	assert.Equal(t, -1, pos)
	assert.Equal(t, stateMultiLiteral, state)

	_, state = scanLine(`end'''`, state)
	assert.Equal(t, stateNone, state)
}

func TestScanLineEscapedTripleQuote(t *testing.T) {
	_, state := scanLine(`key = """`, stateNone)
	assert.Equal(t, stateMultiBasic, state)

	// \""" is an escaped quote followed by two quotes, not a delimiter.
	pos, state := scanLine(`content \"""`, state)
	assert.Equal(t, -1, pos)
	assert.Equal(t, stateMultiBasic, state)

	_, state = scanLine(`"""`, state)
	assert.Equal(t, stateNone, state)
}

func TestScanLineClosedOnSameLine(t *testing.T) {
	pos, state := scanLine(`key = """inline""" # c`, stateNone)
	assert.Equal(t, 19, pos)
	assert.Equal(t, stateNone, state)
}
