package remote

import (
	"context"
	"errors"
)

var ErrNoQuote = errors.New("dollar quote series is empty")

// Quote is the most recent observed dollar value.
type Quote struct {
	Fecha string  `json:"fecha"`
	Valor float64 `json:"valor"`
}

type indicatorResponse struct {
	Codigo string `json:"codigo"`
	Serie  []struct {
		Fecha string  `json:"fecha"`
		Valor float64 `json:"valor"`
	} `json:"serie"`
}

// DollarQuote returns the first entry of the series, with the date cut to
// YYYY-MM-DD.
func (c *Client) DollarQuote(ctx context.Context) (Quote, error) {
	var resp indicatorResponse
	if err := c.getJSON(ctx, SourceDollar, c.dollarURL, &resp); err != nil {
		return Quote{}, err
	}
	if len(resp.Serie) == 0 {
		return Quote{}, ErrNoQuote
	}
	first := resp.Serie[0]
	fecha := first.Fecha
	if len(fecha) > 10 {
		fecha = fecha[:10]
	}
	return Quote{Fecha: fecha, Valor: first.Valor}, nil
}
