package catalog

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
)

// DecodeFeed parses a JSON-array product feed. Entries are normalized on the
// way in: unknown fields are skipped, prices are accepted as numbers or
// numeric strings (zero when invalid), and entries without an id or sku are
// dropped.
func DecodeFeed(r io.Reader) ([]Product, error) {
	d := jx.Decode(r, 4096)

	var products []Product
	if err := d.Arr(func(d *jx.Decoder) error {
		p, ok, err := decodeFeedEntry(d)
		if err != nil {
			return err
		}
		if ok {
			products = append(products, p)
		}
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode feed")
	}

	return products, nil
}

func decodeFeedEntry(d *jx.Decoder) (Product, bool, error) {
	var raw Product
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "id")
			}
			raw.ID = v
		case "sku":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "sku")
			}
			raw.SKU = v
		case "title", "name":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, key)
			}
			// First non-empty name field wins.
			if raw.Title == "" {
				raw.Title = v
			}
		case "price":
			p, err := decodePrice(d)
			if err != nil {
				return errors.Wrap(err, "price")
			}
			raw.Price = p
		case "image":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "image")
			}
			raw.Image = v
		case "paymentLink":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "paymentLink")
			}
			raw.PaymentLink = v
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return Product{}, false, err
	}

	p, ok := Normalize(raw)
	return p, ok, nil
}

// decodePrice accepts a JSON number or a numeric string. Anything that does
// not parse as a decimal amount degrades to zero rather than failing the feed.
func decodePrice(d *jx.Decoder) (decimal.Decimal, error) {
	switch d.Next() {
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		p, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, nil
		}
		return p, nil
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		p, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return decimal.Zero, nil
		}
		return p, nil
	default:
		return decimal.Zero, d.Skip()
	}
}

// LoadFeed reads a product feed from an http(s) URL or a local file path.
// Files ending in .gz are decompressed transparently.
func LoadFeed(ctx context.Context, source string) ([]Product, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return loadFeedURL(ctx, source)
	}
	return loadFeedFile(source)
}

func loadFeedURL(ctx context.Context, url string) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create feed request")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch feed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch feed: unexpected status %d", resp.StatusCode)
	}

	return DecodeFeed(resp.Body)
}

func loadFeedFile(path string) ([]Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	return DecodeFeed(r)
}
