package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = stderrors.New("sentinel failure")

func TestBuilder_WrapsAndPreservesChain(t *testing.T) {
	ee := New(errSentinel).
		Component("levelmeter").
		Category(CategoryValidation).
		Context("operation", "process_audio").
		Build()

	assert.Equal(t, "sentinel failure", ee.Error())
	assert.True(t, Is(ee, errSentinel), "wrapped sentinel must remain matchable")
	assert.Equal(t, "levelmeter", ee.GetComponent())
	assert.Equal(t, string(CategoryValidation), ee.GetCategory())
}

func TestBuilder_Defaults(t *testing.T) {
	ee := Newf("bare %s", "failure").Build()

	assert.Equal(t, ComponentUnknown, ee.GetComponent())
	assert.Equal(t, string(CategoryGeneric), ee.GetCategory())
	assert.Nil(t, ee.GetContext())
	assert.False(t, ee.Timestamp.IsZero())
}

func TestEnhancedError_ContextIsCopied(t *testing.T) {
	ee := New(errSentinel).Context("key", "value").Build()

	ctx := ee.GetContext()
	require.NotNil(t, ctx)
	ctx["key"] = "mutated"

	assert.Equal(t, "value", ee.GetContext()["key"])
}

func TestEnhancedError_IsMatchesCategory(t *testing.T) {
	a := New(errSentinel).Category(CategoryAudio).Build()
	b := Newf("different message").Category(CategoryAudio).Build()
	c := Newf("other").Category(CategoryState).Build()

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestEnhancedError_As(t *testing.T) {
	err := error(New(errSentinel).Component("conf").Build())

	var ee *EnhancedError
	require.True(t, As(err, &ee))
	assert.Equal(t, "conf", ee.GetComponent())
}

func TestLogAttrs(t *testing.T) {
	ee := New(errSentinel).
		Component("api").
		Category(CategoryHTTP).
		Context("status", 500).
		Build()

	attrs := ee.LogAttrs()
	assert.Contains(t, attrs, "component")
	assert.Contains(t, attrs, "api")
	assert.Contains(t, attrs, "status")
	assert.Contains(t, attrs, 500)
}
