package rulefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlDoc = `
[[rule]]
pattern = "[0-9]+"
action = "INT"
priority = 0

[[rule]]
pattern = "[a-z]+"
action = "IDENT"
priority = 0

[[rule]]
pattern = "."
action = "ERROR"
priority = -1
error = true
`

const yamlDoc = `
rules:
  - pattern: "[0-9]+"
    action: INT
    priority: 0
  - pattern: "."
    action: ERROR
    priority: -1
    error: true
`

func Test_LoadTOML(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	doc, err := LoadTOML([]byte(tomlDoc))
	require.NoError(err)
	require.Len(doc.Rules, 3)

	assert.Equal("[0-9]+", doc.Rules[0].Pattern)
	assert.Equal("INT", doc.Rules[0].Action)
	assert.False(doc.Rules[0].Error)
	assert.True(doc.Rules[2].Error)
	assert.Equal(2, doc.ErrorRule())
}

func Test_LoadYAML(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	doc, err := LoadYAML([]byte(yamlDoc))
	require.NoError(err)
	require.Len(doc.Rules, 2)
	assert.Equal(1, doc.ErrorRule())
}

func Test_Load_DispatchesOnExtension(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	doc, err := Load("rules.toml", []byte(tomlDoc))
	require.NoError(err)
	assert.Len(doc.Rules, 3)

	doc, err = Load("rules.yml", []byte(yamlDoc))
	require.NoError(err)
	assert.Len(doc.Rules, 2)

	_, err = Load("rules.json", []byte("{}"))
	assert.Error(err)
}

func Test_ErrorRule_NoneMarked(t *testing.T) {
	assert := assert.New(t)

	doc := Document{Rules: []RuleEntry{{Pattern: "a", Action: "A"}}}
	assert.Equal(-1, doc.ErrorRule())
}
