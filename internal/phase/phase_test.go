package phase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltIn_Order(t *testing.T) {
	assert.Equal(t, []BuildPhase{Resolving, Generating, Transforming, Optimizing}, BuiltIn())
}

func TestBuiltIn_ReturnsCopy(t *testing.T) {
	first := BuiltIn()
	first[0] = Optimizing

	assert.Equal(t, Resolving, BuiltIn()[0])
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  BuildPhase
		expectErr bool
	}{
		{name: "canonical", input: "Transforming", expected: Transforming},
		{name: "lower case", input: "optimizing", expected: Optimizing},
		{name: "padded", input: "  generating ", expected: Generating},
		{name: "unknown", input: "Linking", expectErr: true},
		{name: "empty", input: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestString_Invalid(t *testing.T) {
	assert.Equal(t, "BuildPhase(0)", BuildPhase(0).String())
	assert.False(t, BuildPhase(0).Valid())
	assert.True(t, Resolving.Valid())
}

func TestTextRoundTrip(t *testing.T) {
	text, err := Generating.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Generating", string(text))

	var p BuildPhase
	require.NoError(t, p.UnmarshalText([]byte("resolving")))
	assert.Equal(t, Resolving, p)

	_, err = BuildPhase(42).MarshalText()
	assert.Error(t, err)
}
