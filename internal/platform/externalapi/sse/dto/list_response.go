// Package dto defines data transfer objects for the SSE quote service.
package dto

import (
	"encoding/json"

	"portfolio_backend/internal/platform/externalapi/vendorjson"
)

// ListFields is the column order requested with select=; Row decodes positionally in this order.
const ListFields = "code,name,last,change,chg_rate,volume,amount"

// ListResponse is the body of /v1/sh1/list/exchange/{kind}.
type ListResponse struct {
	Date  int               `json:"date"`
	Time  int               `json:"time"`
	Total int               `json:"total"`
	List  []json.RawMessage `json:"list"`
}

// Row is one positional row: [code, name, last, change, chg_rate, volume, amount].
type Row struct {
	Code    vendorjson.Text
	Name    vendorjson.Text
	Last    vendorjson.Text
	Change  vendorjson.Text
	ChgRate vendorjson.Text
	Volume  vendorjson.Text
	Amount  vendorjson.Text
}

// UnmarshalJSON decodes a positional array. Missing trailing columns stay empty.
func (r *Row) UnmarshalJSON(b []byte) error {
	var cols []vendorjson.Text
	if err := json.Unmarshal(b, &cols); err != nil {
		return err
	}
	dst := []*vendorjson.Text{&r.Code, &r.Name, &r.Last, &r.Change, &r.ChgRate, &r.Volume, &r.Amount}
	for i := 0; i < len(cols) && i < len(dst); i++ {
		*dst[i] = cols[i]
	}
	return nil
}
