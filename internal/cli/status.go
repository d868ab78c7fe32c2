package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/finboard/internal/tui"
	"github.com/rshade/finboard/internal/upstream"
)

// statusOutput is the JSON shape of `finboard status`.
type statusOutput struct {
	BaseURL    string `json:"base_url"`
	Status     string `json:"status"`
	Service    string `json:"service,omitempty"`
	Version    string `json:"version,omitempty"`
	LatencyMS  int64  `json:"latency_ms"`
	MinVersion string `json:"min_version,omitempty"`
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe the trading API health endpoint",
		Long: `Calls GET /health on the trading API (never cached) and reports its status,
version and latency. When upstream.min_version is configured the reported
version must satisfy that semver constraint.`,
		Example: `  finboard status
  finboard status --api-url http://trading:8000 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			h, err := svc.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("checking upstream health: %w", err)
			}

			out := statusOutput{
				BaseURL:    a.cfg.Upstream.BaseURL,
				Status:     h.Status,
				Service:    h.Service,
				Version:    h.Version,
				LatencyMS:  h.Latency.Milliseconds(),
				MinVersion: a.cfg.Upstream.MinVersion,
			}
			if printErr := a.print(cmd, out, func(m tui.Mode) string {
				return tui.RenderHealth(a.cfg.Upstream.BaseURL, h, m)
			}); printErr != nil {
				return printErr
			}

			return upstream.CheckVersion(h.Version, a.cfg.Upstream.MinVersion)
		},
	}
}
