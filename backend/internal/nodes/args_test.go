package nodes

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
)

func complexitySpec() InputSpec {
	return InputSpec{Name: "complexity", Kind: KindFloat, Required: true, Default: 0.5, Min: float(0.1), Max: float(1.0), Step: float(0.1)}
}

func TestCoerce_FloatClampsAndSnaps(t *testing.T) {
	d := Descriptor{Inputs: []InputSpec{complexitySpec()}}

	cases := []struct {
		in   interface{}
		want float64
	}{
		{0.5, 0.5},
		{0.3, 0.3},
		{0.57, 0.6},
		{0.0, 0.1},
		{-3, 0.1},
		{5, 1.0},
		{1.0, 1.0},
		{json.Number("0.7"), 0.7},
	}
	for _, c := range cases {
		args, err := Coerce(d, Args{"complexity": c.in})
		require.NoError(t, err, "%v", c.in)
		assert.Equal(t, c.want, args.Float("complexity"), "%v", c.in)
	}

	args, err := Coerce(d, Args{})
	require.NoError(t, err)
	assert.Equal(t, 0.5, args.Float("complexity"))

	for _, bad := range []interface{}{"0.5", true, math.NaN(), math.Inf(1), json.Number("x")} {
		_, err := Coerce(d, Args{"complexity": bad})
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInput), "%v", bad)
	}
}

func TestCoerce_Int(t *testing.T) {
	d := Descriptor{Inputs: []InputSpec{{Name: "n", Kind: KindInt, Required: true, Min: float(0), Max: float(10)}}}

	args, err := Coerce(d, Args{"n": 12.0})
	require.NoError(t, err)
	assert.Equal(t, 10, args.Int("n"))

	_, err = Coerce(d, Args{"n": 1.5})
	assert.Error(t, err)
}

func TestCoerce_OptionalAndUnknownInputs(t *testing.T) {
	d := Descriptor{Inputs: []InputSpec{
		{Name: "text", Kind: KindString, Required: true},
		{Name: "extra", Kind: KindString},
	}}

	args, err := Coerce(d, Args{"text": "hi", "ignored": 1})
	require.NoError(t, err)
	assert.Equal(t, "hi", args.String("text"))
	assert.False(t, args.Has("extra"))
	assert.False(t, args.Has("ignored"))

	args, err = Coerce(d, Args{"text": "hi", "extra": nil})
	require.NoError(t, err)
	assert.False(t, args.Has("extra"))

	_, err = Coerce(d, Args{"text": nil})
	var invalid *apperrors.ErrInvalidInput
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "text", invalid.Field)
}

func TestCoerce_Combo(t *testing.T) {
	d := Descriptor{Inputs: []InputSpec{{Name: "mode", Kind: KindCombo, Required: true, Options: []string{"a", "b"}}}}

	args, err := Coerce(d, Args{"mode": "b"})
	require.NoError(t, err)
	assert.Equal(t, "b", args.String("mode"))

	_, err = Coerce(d, Args{"mode": "c"})
	assert.ErrorContains(t, err, `"c" is not one of`)

	_, err = Coerce(d, Args{"mode": 1})
	assert.Error(t, err)
}
