package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/merkato/fincore/internal/infrastructure/auth"
	"github.com/merkato/fincore/internal/infrastructure/logger"
	"github.com/merkato/fincore/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fincore-cli",
		Short: "Fincore CLI tool",
		Long:  `A command line interface for interacting with the Fincore ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Fincore API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Capital commands
	capitalCmd := &cobra.Command{
		Use:   "capital",
		Short: "Capital ledger operations",
	}
	capitalCmd.AddCommand(balanceCmd())
	rootCmd.AddCommand(capitalCmd)

	// Revenue commands
	revenueCmd := &cobra.Command{
		Use:   "revenue",
		Short: "Revenue ledger operations",
	}
	revenueCmd.AddCommand(summaryCmd(), recomputeCmd(), withdrawableCmd())
	rootCmd.AddCommand(revenueCmd)

	rootCmd.AddCommand(migrateCmd(), mintCredentialCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the current capital balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/capital/balance")
		},
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <period>",
		Short: "Show the revenue summary for a period (YYYY-MM)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/revenue/summaries/" + args[0])
		},
	}
}

func recomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute <period>",
		Short: "Recompute the revenue summary for a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/revenue/summaries/" + args[0] + "/recompute")
		},
	}
}

func withdrawableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdrawable",
		Short: "Show the live withdrawable balance of the revenue pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/revenue/withdrawable")
		},
	}
}

func migrateCmd() *cobra.Command {
	var (
		path string
		down bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			databaseURL := os.Getenv("DATABASE_URL")
			if databaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}

			log := logger.New(logger.Config{Level: "info", Format: "console"})
			if down {
				return postgres.RunMigrationsDown(databaseURL, path, log)
			}
			return postgres.RunMigrations(databaseURL, path, log)
		},
	}

	cmd.Flags().StringVar(&path, "path", "migrations", "Path to the migration files")
	cmd.Flags().BoolVar(&down, "down", false, "Roll migrations back instead of applying them")

	return cmd
}

func mintCredentialCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "mint-credential <service>",
		Short: "Mint an internal service credential for sanctioned approval skips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("INTERNAL_CREDENTIAL_SECRET")
			if secret == "" {
				return fmt.Errorf("INTERNAL_CREDENTIAL_SECRET is not set")
			}

			manager := auth.NewCredentialManager(secret, ttl)
			token, err := manager.Mint(args[0])
			if err != nil {
				return err
			}

			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Credential lifetime")

	return cmd
}

func getJSON(path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return renderResponse(resp)
}

func postJSON(path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return renderResponse(resp)
}

func renderResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	printJSON(decoded)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
