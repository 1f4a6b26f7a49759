package remote

import (
	"context"

	"mangabook/catalog-api/internal/catalog"
)

// FetchProducts downloads the seed list. Entries usually carry no category;
// those decode with an empty one.
func (c *Client) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	var list []catalog.Product
	if err := c.getJSON(ctx, SourceProducts, c.productsURL, &list); err != nil {
		return nil, err
	}
	return list, nil
}
