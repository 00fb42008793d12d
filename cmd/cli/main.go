package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var flags struct {
	API     string
	Key     string
	Timeout time.Duration
}

var rootCmd = &cobra.Command{
	Use:   "sitewatch",
	Short: "sitewatch talks to a running sitewatch API",
	Long: `sitewatch manages monitored sites and triggers check cycles.
Run "sitewatch check" from cron when the API's internal loop is disabled.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flags.API, "api", envOr("API_BASE", "http://localhost:8080"), "Base URL of the API.")
	rootCmd.PersistentFlags().StringVar(&flags.Key, "key", os.Getenv("API_KEY"), "Admin API key.")
	rootCmd.PersistentFlags().DurationVar(&flags.Timeout, "timeout", 10*time.Minute, "Request timeout; a check cycle can take a while.")

	rootCmd.AddCommand(addCmd(), checkCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCmd() *cobra.Command {
	var keywords []string
	cmd := &cobra.Command{
		Use:   "add <name> <url>",
		Short: "Register a site to monitor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.TrimSpace(args[1])
			if !strings.Contains(raw, "://") {
				raw = "https://" + raw
			}
			if _, err := url.ParseRequestURI(raw); err != nil {
				return fmt.Errorf("invalid URL %q", args[1])
			}
			body, _ := json.Marshal(map[string]any{
				"clientName": args[0],
				"clientUrl":  raw,
				"keywords":   keywords,
			})
			out, err := call(http.MethodPost, "/api/client-site", body)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Added:", out)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "Keyword tag (repeatable).")
	return cmd
}

func checkCmd() *cobra.Command {
	var (
		batchSize int
		delay     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run one check cycle over all sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if batchSize > 0 {
				q.Set("batch_size", fmt.Sprint(batchSize))
			}
			if delay >= 0 {
				q.Set("delay_ms", fmt.Sprint(delay.Milliseconds()))
			}
			path := "/api/check-sites"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}
			out, err := call(http.MethodPost, path, nil)
			if err != nil {
				return err
			}
			var resp struct {
				Message string `json:"message"`
			}
			if json.Unmarshal([]byte(out), &resp) == nil && resp.Message != "" {
				out = resp.Message
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Sites probed concurrently per batch (0 = server default).")
	cmd.Flags().DurationVar(&delay, "delay", -1, "Pause between batches (negative = server default).")
	return cmd
}

func call(method, path string, body []byte) (string, error) {
	req, err := http.NewRequest(method, strings.TrimRight(flags.API, "/")+path, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if flags.Key != "" {
		req.Header.Set("X-API-Key", flags.Key)
	}
	client := &http.Client{Timeout: flags.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("contacting API: %w", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("API returned %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	return strings.TrimSpace(string(b)), nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
