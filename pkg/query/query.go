// Package query defines the requests consumers make and the engines that can answer them.
package query

import (
	"github.com/ethereum/go-ethereum/common"
)

// Kind tags a request so engines can decide applicability without inspecting its fields.
type Kind uint8

const (
	KindContractEvents Kind = iota + 1
	KindBlocks
	KindAccountTransactions
)

func (k Kind) String() string {
	switch k {
	case KindContractEvents:
		return "contract-events"
	case KindBlocks:
		return "blocks"
	case KindAccountTransactions:
		return "account-transactions"
	default:
		return "unknown"
	}
}

// Query is a consumer request.
type Query interface {
	Kind() Kind
}

// ContractEventQuery asks for every log of one event of one contract in blocks [.., StopBlock).
// A StopBlock of 0 means up to and including the current head.
type ContractEventQuery struct {
	Contract  common.Address
	EventName string
	// EventDescriptor is opaque to the cache and interpreted only by the range fetcher.
	EventDescriptor []byte
	StopBlock       uint64
}

func (ContractEventQuery) Kind() Kind { return KindContractEvents }

// BlockQuery asks for block headers in [From, To].
type BlockQuery struct {
	From uint64
	To   uint64
}

func (BlockQuery) Kind() Kind { return KindBlocks }

// AccountTransactionQuery asks for the transactions of an account in [From, To].
type AccountTransactionQuery struct {
	Account common.Address
	From    uint64
	To      uint64
}

func (AccountTransactionQuery) Kind() Kind { return KindAccountTransactions }

// AsContractEventQuery returns q as a contract event query if it is one, by value or by pointer.
func AsContractEventQuery(q Query) (ContractEventQuery, bool) {
	switch v := q.(type) {
	case ContractEventQuery:
		return v, true
	case *ContractEventQuery:
		if v == nil {
			return ContractEventQuery{}, false
		}
		return *v, true
	default:
		return ContractEventQuery{}, false
	}
}
