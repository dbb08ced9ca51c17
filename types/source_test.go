package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpm/ethpm-go/common"
)

func TestChecksumVerify(t *testing.T) {
	content := []byte("pragma solidity ^0.8.0;\n")

	for _, algorithm := range []common.Algorithm{common.MD5, common.SHA256, common.Keccak256} {
		checksum, err := NewChecksum(content, algorithm)
		require.NoError(t, err)
		assert.NoError(t, checksum.Verify(content))
		assert.Error(t, checksum.Verify([]byte("tampered")))
	}
}

func TestChecksumVerifyIgnoresPrefix(t *testing.T) {
	checksum, err := NewChecksum([]byte("abc"), common.SHA256)
	require.NoError(t, err)
	checksum.Hash = "0x" + checksum.Hash
	assert.NoError(t, checksum.Verify([]byte("abc")))
}

func TestChecksumUnknownAlgorithm(t *testing.T) {
	_, err := NewChecksum([]byte("abc"), common.Algorithm("crc32"))
	require.Error(t, err)
}

func TestSourceChecksumRoundTrip(t *testing.T) {
	src := Source{Content: "contract A {}\n"}

	checksum, err := src.CalculateChecksum(common.Keccak256)
	require.NoError(t, err)
	src.Checksum = &checksum
	assert.NoError(t, src.VerifyChecksum())

	src.Content = "contract B {}\n"
	assert.Error(t, src.VerifyChecksum())
}

func TestSourceWithoutContent(t *testing.T) {
	src := Source{URLs: []string{"ipfs://QmTest"}}
	assert.False(t, src.IsInlined())
	assert.Nil(t, src.Lines())

	_, err := src.CalculateChecksum(common.MD5)
	require.Error(t, err)
	require.Error(t, src.VerifyChecksum())
}

func TestSourceLines(t *testing.T) {
	src := Source{Content: "line one\r\nline two\nline three"}
	assert.Equal(t, []string{"line one", "line two", "line three"}, src.Lines())
}

func TestCompilerMatches(t *testing.T) {
	c := Compiler{Name: "solc", Version: "0.8.19", ContractTypes: []string{"Token"}}
	assert.True(t, c.Matches("Solc", "0.8.19"))
	assert.True(t, c.Matches("solc", ""))
	assert.False(t, c.Matches("solc", "0.8.20"))
	assert.False(t, c.Matches("vyper", "0.8.19"))
	assert.True(t, c.HasContractType("Token"))
	assert.False(t, c.HasContractType("Vault"))
}
