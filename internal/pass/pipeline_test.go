package pass

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipelineRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register(stubInfo(), "alpha", stubFactory("alpha", nil)))
	require.NoError(t, r.Register(stubInfo(), "beta", stubFactory("beta", nil)))
	return r
}

func TestParsePipeline_SingleElement(t *testing.T) {
	r := pipelineRegistry(t)

	fm, err := r.ParsePipeline("alpha", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, fm.PassNames())
}

func TestParsePipeline_MultipleElements(t *testing.T) {
	r := pipelineRegistry(t)

	fm, err := r.ParsePipeline("alpha,beta", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, fm.PassNames())
}

func TestParsePipeline_TrimsWhitespace(t *testing.T) {
	r := pipelineRegistry(t)

	fm, err := r.ParsePipeline(" alpha , beta ", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, fm.PassNames())
}

func TestParsePipeline_RepeatedElementGetsFreshInstance(t *testing.T) {
	r := pipelineRegistry(t)

	fm, err := r.ParsePipeline("alpha,alpha", Options{})
	require.NoError(t, err)
	require.Equal(t, 2, fm.Len())
	assert.Equal(t, []string{"alpha", "alpha"}, fm.PassNames())
}

func TestParsePipeline_UnknownPass(t *testing.T) {
	r := pipelineRegistry(t)

	fm, err := r.ParsePipeline("alpha,missing", Options{})
	require.Error(t, err)
	assert.Nil(t, fm)

	var unknownErr *UnknownPassError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, "missing", unknownErr.Name)
}

func TestParsePipeline_EmptyDescription(t *testing.T) {
	r := pipelineRegistry(t)

	fm, err := r.ParsePipeline("", Options{})
	require.Error(t, err)
	assert.Nil(t, fm)
	assert.Contains(t, err.Error(), "empty element")
}

func TestParsePipeline_EmptyElement(t *testing.T) {
	r := pipelineRegistry(t)

	fm, err := r.ParsePipeline("alpha,,beta", Options{})
	require.Error(t, err)
	assert.Nil(t, fm)
	assert.Contains(t, err.Error(), "empty element")
}

func TestExtend_MatchAppendsInstance(t *testing.T) {
	r := pipelineRegistry(t)
	fm := NewFunctionManager()

	ok := Extend(r, "alpha", fm, Options{})

	assert.True(t, ok)
	assert.Equal(t, 1, fm.Len())
}

func TestExtend_NoMatchLeavesManagerUntouched(t *testing.T) {
	r := pipelineRegistry(t)
	fm := NewFunctionManager()

	ok := Extend(r, "missing", fm, Options{})

	assert.False(t, ok)
	assert.Equal(t, 0, fm.Len())
}

func TestUnknownPassError_Message(t *testing.T) {
	err := &UnknownPassError{Name: "missing"}
	assert.Equal(t, `unknown pass "missing" in pipeline`, err.Error())
}
