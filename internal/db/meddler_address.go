package db

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/russross/meddler"
)

func init() {
	meddler.Register("address", AddressMeddler{})
}

// AddressMeddler stores a common.Address as its checksummed hex string. Columns using it are
// NOT NULL, so reading NULL is an error.
type AddressMeddler struct{}

func (AddressMeddler) PreRead(fieldAddr any) (scanTarget any, err error) {
	return new(string), nil
}

func (AddressMeddler) PostRead(fieldAddr, scanTarget any) error {
	s, ok := scanTarget.(*string)
	if !ok {
		return fmt.Errorf("expected *string, got %T", scanTarget)
	}
	ptr, ok := fieldAddr.(*common.Address)
	if !ok {
		return fmt.Errorf("expected *common.Address, got %T", fieldAddr)
	}
	if !common.IsHexAddress(*s) {
		return fmt.Errorf("invalid address in database: %q", *s)
	}

	*ptr = common.HexToAddress(*s)
	return nil
}

func (AddressMeddler) PreWrite(field any) (saveValue any, err error) {
	switch v := field.(type) {
	case common.Address:
		return v.Hex(), nil
	case *common.Address:
		if v == nil {
			return nil, fmt.Errorf("nil address")
		}
		return v.Hex(), nil
	default:
		return nil, fmt.Errorf("expected common.Address, got %T", field)
	}
}
