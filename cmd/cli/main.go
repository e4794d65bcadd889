package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "amotify-cli",
		Short: "Amotify CLI tool",
		Long:  `A command line interface for interacting with the Amotify API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Amotify API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("AMOTIFY_TOKEN"), "Bearer token for authenticated requests")

	loginCmd := &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Authenticate and print a bearer token",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			login(args[0], args[1])
		},
	}
	rootCmd.AddCommand(loginCmd)

	expenseCmd := &cobra.Command{
		Use:   "expense",
		Short: "Expense operations",
	}

	getCmd := &cobra.Command{
		Use:   "get <expense-id>",
		Short: "Fetch a single expense",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/expenses/" + args[0])
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses you participate in",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/expenses")
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check <expense-id>",
		Short: "Verify an expense's split sums to its total",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			checkSplit(args[0])
		},
	}

	expenseCmd.AddCommand(getCmd, listCmd, checkCmd)
	rootCmd.AddCommand(expenseCmd)

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show your balance summary",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/dashboard")
		},
	}
	rootCmd.AddCommand(dashboardCmd)

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check API health",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/health")
		},
	}
	rootCmd.AddCommand(healthCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func login(email, password string) {
	payload, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Login FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(result.Token)
}

func checkSplit(expenseID string) {
	body := fetch("/api/v1/expenses/" + expenseID)

	var expense struct {
		TotalAmount decimal.Decimal `json:"total_amount"`
		Split       []struct {
			UserID string          `json:"user_id"`
			Amount decimal.Decimal `json:"amount"`
		} `json:"split"`
	}
	if err := json.Unmarshal(body, &expense); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	sum := decimal.Zero
	for _, m := range expense.Split {
		sum = sum.Add(m.Amount)
	}

	if !sum.Equal(expense.TotalAmount) {
		fmt.Printf("Split check FAILED\nAllocated: %s\nTotal:     %s\n", sum, expense.TotalAmount)
		os.Exit(1)
	}

	fmt.Printf("Split check PASSED\nMembers: %d\nTotal:   %s\n", len(expense.Split), expense.TotalAmount)
}

func getJSON(path string) {
	body := fetch(path)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}

func fetch(path string) []byte {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}
