package thornode

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/ports"
	"github.com/familiarcow/rune-tools-desktop-sub003/pkg/circuitbreaker"
	"github.com/familiarcow/rune-tools-desktop-sub003/pkg/util"
)

const (
	// MainnetURL is the public mainnet base URL.
	MainnetURL = "https://thornode.ninerealms.com"
	// StagenetURL is the public stagenet base URL.
	StagenetURL = "https://stagenet-thornode.ninerealms.com"
)

// errNotFound marks a 404 response. Not-yet-registered memos legitimately
// 404, so it does not count as a breaker failure.
var errNotFound = errors.New("not found")

type httpResponse struct {
	status int
	body   string
}

type thornode struct {
	apiURL  string
	breaker *gobreaker.CircuitBreaker
}

// NewService returns a thornode REST client as a ports.ThornodeClient
// interface.
func NewService(apiURL string) (ports.ThornodeClient, error) {
	service := &thornode{
		apiURL:  apiURL,
		breaker: circuitbreaker.NewCircuitBreaker("thornode"),
	}

	if err := service.healthCheck(); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}

	return service, nil
}

func (t *thornode) healthCheck() error {
	_, err := t.GetLastBlockHeight(context.Background())
	return err
}

// get performs a circuit-broken GET and returns the raw response body.
// Transport errors and non-2xx statuses other than 404 count as failures
// toward the breaker.
func (t *thornode) get(ctx context.Context, path string) (string, error) {
	url := fmt.Sprintf("%s%s", t.apiURL, path)
	resp, err := t.breaker.Execute(func() (interface{}, error) {
		status, body, err := util.NewHTTPRequest(ctx, "GET", url, "", nil)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK && status != http.StatusNotFound {
			return nil, fmt.Errorf("GET %s: status %d: %s", path, status, body)
		}
		return httpResponse{status, body}, nil
	})
	if err != nil {
		return "", err
	}
	res := resp.(httpResponse)
	if res.status == http.StatusNotFound {
		return "", errNotFound
	}
	return res.body, nil
}
