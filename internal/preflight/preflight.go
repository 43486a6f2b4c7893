package preflight

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"
)

// checkTimeout bounds each individual availability check. Both checks are
// local operations; anything slower than this is as good as unavailable.
const checkTimeout = 10 * time.Second

// Check verifies that the nmap binary runs and the generation backend
// answers. The two checks are independent, so they run concurrently and
// the first failure is reported.
//
// generateURL is the full generation endpoint; the reachability probe is
// sent to the backend's tag listing endpoint derived from it, which answers
// quickly without loading a model. A nil httpClient uses http.DefaultClient.
func Check(ctx context.Context, nmapBin, generateURL string, httpClient *http.Client) error {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return checkNmap(ctx, nmapBin)
	})

	g.Go(func() error {
		return checkBackend(ctx, generateURL, httpClient)
	})

	return g.Wait()
}

// checkNmap runs "nmap --version" to confirm the binary exists and executes.
func checkNmap(ctx context.Context, bin string) error {
	cmd := exec.CommandContext(ctx, bin, "--version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("nmap is not available (tried %q): %w", bin, err)
	}
	return nil
}

// checkBackend sends a GET to the backend's /api/tags endpoint.
func checkBackend(ctx context.Context, generateURL string, client *http.Client) error {
	tagsURL, err := tagsEndpoint(generateURL)
	if err != nil {
		return fmt.Errorf("invalid backend URL %q: %w", generateURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tagsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build backend check request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama backend is not reachable at %s: %w", tagsURL, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Nothing useful to do on close failure

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama backend returned status %d from %s", resp.StatusCode, tagsURL)
	}

	return nil
}

// tagsEndpoint derives the /api/tags URL from the generation endpoint,
// keeping scheme, host, and port.
func tagsEndpoint(generateURL string) (string, error) {
	u, err := url.Parse(generateURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("missing scheme or host")
	}

	u.Path = "/api/tags"
	u.RawQuery = ""

	return u.String(), nil
}
