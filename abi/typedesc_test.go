package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTypeCanonicalization(t *testing.T) {
	testCases := []struct {
		raw       string
		canonical string
	}{
		{"uint", "uint256"},
		{"int", "int256"},
		{"uint8", "uint8"},
		{"fixed", "fixed128x18"},
		{"ufixed", "ufixed128x18"},
		{"address", "address"},
		{"bool", "bool"},
		{"string", "string"},
		{"bytes", "bytes"},
		{"bytes32", "bytes32"},
		{"uint[]", "uint256[]"},
		{"uint256[3]", "uint256[3]"},
		{"uint256[][2]", "uint256[][2]"},
		{"(uint,address)", "(uint256,address)"},
		{"(uint256,(bool,bytes32))[]", "(uint256,(bool,bytes32))[]"},
		{"uint256[0]", "uint256[0]"}, // degenerate but representable
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			desc, err := ResolveType(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.canonical, desc.String())
		})
	}
}

func TestResolveTypeArrayNesting(t *testing.T) {
	// The rightmost suffix is the outermost array: uint8[2][3] is three
	// elements of type uint8[2].
	desc, err := ResolveType("uint8[2][3]")
	require.NoError(t, err)

	require.Equal(t, FixedArrayType, desc.Kind)
	assert.Equal(t, 3, desc.Len)
	require.Equal(t, FixedArrayType, desc.Elem.Kind)
	assert.Equal(t, 2, desc.Elem.Len)
	require.Equal(t, ElementaryType, desc.Elem.Elem.Kind)
	assert.Equal(t, "uint8", desc.Elem.Elem.Name)
}

func TestResolveTypeTupleComponents(t *testing.T) {
	desc, err := ResolveType("(uint256,address)[]")
	require.NoError(t, err)

	require.Equal(t, DynamicArrayType, desc.Kind)
	require.Equal(t, TupleType, desc.Elem.Kind)
	require.Len(t, desc.Elem.Components, 2)
	assert.Equal(t, "uint256", desc.Elem.Components[0].Name)
	assert.Equal(t, "address", desc.Elem.Components[1].Name)
}

func TestResolveTypeFailures(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{"unknown keyword", "quantum"},
		{"width not multiple of 8", "uint9"},
		{"integer width too large", "uint264"},
		{"integer width zero", "uint0"},
		{"byte shorthand", "byte"},
		{"bytes width zero", "bytes0"},
		{"bytes width too large", "bytes33"},
		{"malformed fixed", "fixed128"},
		{"fixed precision too large", "fixed128x81"},
		{"non-numeric dimension", "uint256[x]"},
		{"unterminated suffix", "uint256["},
		{"unbalanced tuple", "(uint256,address"},
		{"trailing garbage", "uint256)"},
		{"empty", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveType(tc.raw)
			require.Error(t, err)
			var typeErr *InvalidTypeError
			assert.ErrorAs(t, err, &typeErr)
		})
	}
}

func TestResolveTypeNestingLimit(t *testing.T) {
	deep := ""
	for i := 0; i < maxTypeNesting+2; i++ {
		deep += "("
	}
	deep += "uint256"
	for i := 0; i < maxTypeNesting+2; i++ {
		deep += ")"
	}
	_, err := ResolveType(deep)
	require.Error(t, err)
}
