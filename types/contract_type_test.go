package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpm/ethpm-go/abi"
	"github.com/ethpm/ethpm-go/sourcemap"
)

func tokenContractType(t *testing.T) ContractType {
	t.Helper()
	signatures := []string{
		"constructor(string name) payable",
		"transfer(address to, uint256 amount) returns (bool)",
		"balanceOf(address owner) view returns (uint256)",
		"event Transfer(address indexed from, address indexed to, uint256 value)",
		"error InsufficientBalance(uint256 available, uint256 required)",
		"receive()",
	}
	entries := make([]abi.Entry, 0, len(signatures))
	for _, sig := range signatures {
		entry, err := abi.ParseSignature(sig)
		require.NoError(t, err)
		entries = append(entries, entry)
	}
	return ContractType{Name: "Token", SourceID: "Token.sol", ABI: entries}
}

func TestContractTypeAccessors(t *testing.T) {
	ct := tokenContractType(t)

	ctor := ct.Constructor()
	assert.Equal(t, abi.ConstructorEntry, ctor.Type)
	assert.Equal(t, abi.Payable, ctor.StateMutability)

	require.NotNil(t, ct.Receive())
	assert.Nil(t, ct.Fallback())

	assert.Len(t, ct.Methods(), 2)
	require.Len(t, ct.ViewMethods(), 1)
	assert.Equal(t, "balanceOf", ct.ViewMethods()[0].Name)
	require.Len(t, ct.MutableMethods(), 1)
	assert.Equal(t, "transfer", ct.MutableMethods()[0].Name)

	require.Len(t, ct.Events(), 1)
	assert.Equal(t, "Transfer", ct.Events()[0].Name)
	require.Len(t, ct.Errors(), 1)
	assert.Equal(t, "InsufficientBalance", ct.Errors()[0].Name)
}

func TestContractTypeImplicitConstructor(t *testing.T) {
	ct := ContractType{Name: "Bare"}
	ctor := ct.Constructor()
	assert.Equal(t, abi.ConstructorEntry, ctor.Type)
	assert.Empty(t, ctor.Inputs)
	assert.Equal(t, abi.NonPayable, ctor.StateMutability)
}

func TestContractTypeMethodIdentifiers(t *testing.T) {
	ct := tokenContractType(t)
	ids := ct.MethodIdentifiers()
	assert.Equal(t, "a9059cbb", ids["transfer(address,uint256)"])
	assert.Equal(t, "70a08231", ids["balanceOf(address)"])
}

func TestContractTypeMethodBySelector(t *testing.T) {
	ct := tokenContractType(t)

	byName := ct.MethodBySelector("transfer(address,uint256)")
	require.NotNil(t, byName)
	assert.Equal(t, "transfer", byName.Name)

	byID := ct.MethodBySelector("a9059cbb")
	require.NotNil(t, byID)
	assert.Equal(t, "transfer", byID.Name)

	assert.Nil(t, ct.MethodBySelector("deadbeef"))
}

func TestContractTypeEventByName(t *testing.T) {
	ct := tokenContractType(t)
	event := ct.EventByName("Transfer")
	require.NotNil(t, event)
	assert.Equal(t,
		"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
		event.EventTopic().Hex())
	assert.Nil(t, ct.EventByName("Approval"))
}

func TestContractTypeDecodedSourceMap(t *testing.T) {
	sm := sourcemap.SourceMap("0:10:0:-;;5:3")
	ct := ContractType{Name: "Mapped", SourceMap: &sm}

	entries, err := ct.DecodedSourceMap()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 5, entries[2].Start)

	bare := ContractType{Name: "Bare"}
	entries, err = bare.DecodedSourceMap()
	require.NoError(t, err)
	assert.Nil(t, entries)
}
