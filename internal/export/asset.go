package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// AssetLoader fetches a referenced binary asset (typically the branding
// logo) during export preparation. Implementations must respect ctx.
type AssetLoader interface {
	Load(ctx context.Context, ref string) ([]byte, error)
}

// HTTPAssetLoader resolves http(s) references with a per-asset timeout and
// falls back to the local filesystem for anything else, so both hosted
// logos and bundled ones work.
type HTTPAssetLoader struct {
	Client  *http.Client
	Timeout time.Duration // applied per Load call on top of ctx
}

func NewAssetLoader(timeout time.Duration) *HTTPAssetLoader {
	return &HTTPAssetLoader{Client: http.DefaultClient, Timeout: timeout}
}

func (l *HTTPAssetLoader) Load(ctx context.Context, ref string) ([]byte, error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, err
		}
		client := l.Client
		if client == nil {
			client = http.DefaultClient
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("asset %s: unexpected status %d", ref, resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(ref)
}

// decodeImage turns raw asset bytes into an image, accepting PNG and JPEG.
func decodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
