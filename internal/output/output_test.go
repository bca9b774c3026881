package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holmes/internal/catalog"
	"holmes/internal/query"
	"holmes/internal/vtr"
)

func TestNewFormatterDefaultsToHuman(t *testing.T) {
	f, err := NewFormatter("")
	require.NoError(t, err)
	assert.IsType(t, humanFormatter{}, f)
}

func TestNewFormatterRejectsUnknown(t *testing.T) {
	_, err := NewFormatter("xml")
	require.Error(t, err)
}

func TestHumanFormatAnswers(t *testing.T) {
	reg := vtr.NewWithBuiltins()
	answers := []query.Answer{{{Type: reg.Lookup("uint64"), Data: uint64(16)}}}

	f := humanFormatter{}
	text, err := f.FormatAnswers([]string{"x"}, answers)
	require.NoError(t, err)
	assert.Contains(t, text, "x=16")
}

func TestHumanFormatAnswersEmpty(t *testing.T) {
	f := humanFormatter{}
	text, err := f.FormatAnswers(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "no answers\n", text)
}

func TestHumanFormatPredicates(t *testing.T) {
	reg := vtr.NewWithBuiltins()
	preds := []*catalog.Predicate{{Name: "test_pred", Types: []vtr.Type{reg.Lookup("text"), reg.Lookup("uint64")}}}

	f := humanFormatter{}
	text, err := f.FormatPredicates(preds)
	require.NoError(t, err)
	assert.Equal(t, "test_pred(text, uint64)\n", text)
}

func TestJSONFormatAnswers(t *testing.T) {
	reg := vtr.NewWithBuiltins()
	answers := []query.Answer{{{Type: reg.Lookup("uint64"), Data: uint64(16)}}}

	f := jsonFormatter{}
	text, err := f.FormatAnswers([]string{"x"}, answers)
	require.NoError(t, err)
	assert.Contains(t, text, `"count": 1`)
	assert.Contains(t, text, `"x": 16`)
}

func TestJSONFormatPredicates(t *testing.T) {
	reg := vtr.NewWithBuiltins()
	preds := []*catalog.Predicate{{Name: "test_pred", Types: []vtr.Type{reg.Lookup("text")}}}

	f := jsonFormatter{}
	text, err := f.FormatPredicates(preds)
	require.NoError(t, err)
	assert.Contains(t, text, `"name": "test_pred"`)
}
