package entity

import (
	"bytes"
	"strconv"
)

// FlexFloat decodes a JSON value that providers emit either as a number or as
// a quoted numeric string.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// PriceEntry is one priced identity in the oracle's price response.
type PriceEntry struct {
	ID    string    `json:"id"`
	Price FlexFloat `json:"price"`
}

// PriceResponse is the price oracle's batch response envelope.
type PriceResponse struct {
	Data map[string]*PriceEntry `json:"data"`
}

// DirectoryToken is one entry of the bulk token directory.
type DirectoryToken struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	LogoURI  string `json:"logoURI"`
}
