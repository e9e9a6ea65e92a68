package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ceobank-cli",
		Short: "CeoBank admin CLI",
		Long:  `A command line interface for administering the CeoBank API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the CeoBank API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("CEOBANK_TOKEN"), "Admin JWT token")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	})
	rootCmd.AddCommand(ledgerCmd)

	// Tick commands
	tickCmd := &cobra.Command{
		Use:   "tick",
		Short: "Force background ticks",
	}
	tickCmd.AddCommand(&cobra.Command{
		Use:   "market",
		Short: "Force one market price tick",
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/admin/ticks/market", nil)
		},
	})
	tickCmd.AddCommand(&cobra.Command{
		Use:   "deposits",
		Short: "Force one deposit maturation sweep",
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/admin/ticks/deposits", nil)
		},
	})
	rootCmd.AddCommand(tickCmd)

	// Account commands
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}
	accountCmd.AddCommand(&cobra.Command{
		Use:   "adjust <account-id> <amount>",
		Short: "Adjust an account's balance by a signed amount",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/admin/accounts/"+args[0]+"/adjust", map[string]any{
				"amount":  args[1],
				"comment": "cli adjustment",
			})
		},
	})
	accountCmd.AddCommand(&cobra.Command{
		Use:   "block <account-id>",
		Short: "Block an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/admin/accounts/"+args[0]+"/blocked", map[string]any{"blocked": true})
		},
	})
	accountCmd.AddCommand(&cobra.Command{
		Use:   "unblock <account-id>",
		Short: "Unblock an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/admin/accounts/"+args[0]+"/blocked", map[string]any{"blocked": false})
		},
	})
	rootCmd.AddCommand(accountCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func checkConsistency() {
	body := request(http.MethodGet, "/api/v1/admin/consistency", nil)

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && consistent {
		fmt.Println("Consistency check PASSED")
		return
	}
	fmt.Println("Consistency check FAILED")
	os.Exit(1)
}

func post(path string, payload map[string]any) {
	body := request(http.MethodPost, path, payload)
	fmt.Println(string(body))
}

func request(method, path string, payload map[string]any) []byte {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}
