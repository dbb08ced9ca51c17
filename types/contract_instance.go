package types

import "github.com/ethpm/ethpm-go/common"

// ContractInstance is a deployed occurrence of a contract type on some chain:
// the address, and optionally the deployment transaction and block.
type ContractInstance struct {
	ContractType    string         `json:"contractType"`
	Address         common.Address `json:"address"`
	Transaction     *common.Hash   `json:"transaction,omitempty"`
	Block           *common.Hash   `json:"block,omitempty"`
	RuntimeBytecode *Bytecode      `json:"runtimeBytecode,omitempty"`
}

// HasReceipt reports whether the instance records its deployment transaction.
func (ci ContractInstance) HasReceipt() bool {
	return ci.Transaction != nil && !common.IsNilHash(*ci.Transaction)
}
