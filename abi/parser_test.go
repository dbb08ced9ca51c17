package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFunctionSignature(t *testing.T) {
	entry, err := ParseSignature("transfer(address to, uint256 amount)")
	require.NoError(t, err)

	assert.Equal(t, FunctionEntry, entry.Type)
	assert.Equal(t, "transfer", entry.Name)
	assert.Equal(t, NonPayable, entry.StateMutability)
	require.Len(t, entry.Inputs, 2)
	assert.Equal(t, Parameter{Name: "to", Type: "address"}, entry.Inputs[0])
	assert.Equal(t, Parameter{Name: "amount", Type: "uint256"}, entry.Inputs[1])
	assert.Empty(t, entry.Outputs)

	assert.Equal(t, "transfer(address,uint256)", entry.Selector())
	assert.Equal(t, "a9059cbb", entry.MethodID())
}

func TestParseEventSignature(t *testing.T) {
	entry, err := ParseSignature("event Transfer(address indexed from, address indexed to, uint256 value)")
	require.NoError(t, err)

	assert.Equal(t, EventEntry, entry.Type)
	assert.Equal(t, "Transfer", entry.Name)
	assert.False(t, entry.Anonymous)
	require.Len(t, entry.Inputs, 3)
	assert.True(t, entry.Inputs[0].Indexed)
	assert.True(t, entry.Inputs[1].Indexed)
	assert.False(t, entry.Inputs[2].Indexed)
	assert.Equal(t, "Transfer(address,address,uint256)", entry.Selector())
	assert.Equal(t,
		"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
		entry.EventTopic().Hex())
}

func TestParseSignatureKeywordForms(t *testing.T) {
	testCases := []struct {
		name      string
		signature string
		entryType EntryType
		inputs    int
	}{
		{"explicit function keyword", "function balanceOf(address owner)", FunctionEntry, 1},
		{"error keyword", "error InsufficientBalance(uint256 available, uint256 required)", ErrorEntry, 2},
		{"constructor", "constructor(string name, string symbol)", ConstructorEntry, 2},
		{"anonymous event", "event Ping(uint256 value) anonymous", EventEntry, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entry, err := ParseSignature(tc.signature)
			require.NoError(t, err)
			assert.Equal(t, tc.entryType, entry.Type)
			assert.Len(t, entry.Inputs, tc.inputs)
		})
	}
}

func TestParseReservedForms(t *testing.T) {
	fallback, err := ParseSignature("fallback()")
	require.NoError(t, err)
	assert.Equal(t, FallbackEntry, fallback.Type)
	assert.Empty(t, fallback.Inputs)
	assert.Equal(t, NonPayable, fallback.StateMutability)

	receive, err := ParseSignature("receive()")
	require.NoError(t, err)
	assert.Equal(t, ReceiveEntry, receive.Type)
	assert.Empty(t, receive.Inputs)
	assert.Equal(t, Payable, receive.StateMutability)

	payableFallback, err := ParseSignature("fallback() payable")
	require.NoError(t, err)
	assert.Equal(t, Payable, payableFallback.StateMutability)

	payableReceive, err := ParseSignature("receive() payable")
	require.NoError(t, err)
	assert.Equal(t, Payable, payableReceive.StateMutability)
}

func TestParseFunctionReturnsAndMutability(t *testing.T) {
	entry, err := ParseSignature("balanceOf(address owner) view returns (uint256 balance)")
	require.NoError(t, err)
	assert.Equal(t, View, entry.StateMutability)
	require.Len(t, entry.Outputs, 1)
	assert.Equal(t, Parameter{Name: "balance", Type: "uint256"}, entry.Outputs[0])
	assert.Equal(t, "balanceOf(address owner) -> uint256 balance", entry.Signature())
}

func TestParseTupleTypes(t *testing.T) {
	entry, err := ParseSignature("swap((uint256 amount, address token)[] orders, (bool,bytes32)[2] proofs)")
	require.NoError(t, err)
	require.Len(t, entry.Inputs, 2)

	orders := entry.Inputs[0]
	assert.Equal(t, "tuple[]", orders.Type)
	assert.Equal(t, "orders", orders.Name)
	require.Len(t, orders.Components, 2)
	assert.Equal(t, Parameter{Name: "amount", Type: "uint256"}, orders.Components[0])
	assert.Equal(t, Parameter{Name: "token", Type: "address"}, orders.Components[1])
	assert.Equal(t, "(uint256,address)[]", orders.CanonicalType())

	proofs := entry.Inputs[1]
	assert.Equal(t, "tuple[2]", proofs.Type)
	assert.Equal(t, "(bool,bytes32)[2]", proofs.CanonicalType())

	assert.Equal(t, "swap((uint256,address)[],(bool,bytes32)[2])", entry.Selector())
}

func TestParseNestedArraySuffixes(t *testing.T) {
	entry, err := ParseSignature("grid(uint8[][2] cells)")
	require.NoError(t, err)
	assert.Equal(t, "uint8[][2]", entry.Inputs[0].Type)
}

func TestParseSignatureWidensShorthand(t *testing.T) {
	entry, err := ParseSignature("mint(uint amount, int delta)")
	require.NoError(t, err)
	assert.Equal(t, "uint256", entry.Inputs[0].Type)
	assert.Equal(t, "int256", entry.Inputs[1].Type)
}

func TestParseSignatureFailures(t *testing.T) {
	testCases := []struct {
		name      string
		signature string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"missing close paren", "transfer(address to"},
		{"missing open paren", "transfer address)"},
		{"dangling comma", "transfer(address,)"},
		{"indexed outside event", "transfer(address indexed to)"},
		{"indexed in error", "error Bad(uint256 indexed code)"},
		{"duplicate indexed", "event Transfer(address indexed indexed from)"},
		{"duplicate mutability", "f() view view"},
		{"duplicate returns", "f() returns (uint256) returns (bool)"},
		{"fallback with params", "fallback(uint256 x)"},
		{"fallback with view", "fallback() view"},
		{"receive with view", "receive() view"},
		{"receive with nonpayable", "receive() nonpayable"},
		{"trailing garbage", "transfer(address to) nonsense"},
		{"unexpected character", "transfer(address to; uint256 amount)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSignature(tc.signature)
			require.Error(t, err)
			var sigErr *InvalidSignatureError
			assert.ErrorAs(t, err, &sigErr)
		})
	}
}

func TestParseSignatureUnknownType(t *testing.T) {
	_, err := ParseSignature("transfer(quantum to)")
	require.Error(t, err)
	var typeErr *InvalidTypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestParseSignatureIsPure(t *testing.T) {
	// The same input always yields the same entry and no state leaks between calls.
	first, err := ParseSignature("transfer(address to, uint256 amount)")
	require.NoError(t, err)
	second, err := ParseSignature("transfer(address to, uint256 amount)")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
