package cli

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newHealthCommand(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "health [url]",
		Short: "Check the evaluation server health endpoint",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL := *apiURL
			if len(args) == 1 {
				baseURL = args[0]
			}

			body, status, err := NewClient(baseURL, defaultTimeout).Health(cmd.Context())
			if err != nil {
				return err
			}

			out, _ := json.MarshalIndent(body, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if status != http.StatusOK {
				return fmt.Errorf("server is unhealthy (status %d)", status)
			}
			return nil
		},
	}
}
