// Package main implements the banditctl CLI for manual operations against
// the banditd HTTP server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the banditd HTTP server
	serverURL string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "banditctl",
	Short: "CLI for banditd HTTP server operations",
	Long: `banditctl is a command-line interface for interacting with the banditd HTTP server.
It provides commands for managing bandit experiments and driving the
select/reward loop by hand.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "banditd server URL")
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(rewardCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(healthCmd)
}

var (
	createAlgorithm string
	createEpsilon   float64
	createC         float64
	createSeed      uint64
)

// createCmd creates a new experiment
var createCmd = &cobra.Command{
	Use:   "create <name> <arm> <arm> [arm...]",
	Short: "Create a new bandit experiment",
	Long: `Create a new bandit experiment with the given arms.

Examples:
  # Thompson Sampling over three banner variants
  banditctl create homepage_banner A B C --algorithm thompson_sampling

  # Epsilon-greedy with 20% exploration
  banditctl create cta_copy buy_now get_started --algorithm epsilon_greedy --epsilon 0.2

  # UCB1 with a fixed seed for reproducible selection
  banditctl create layout grid list --algorithm ucb --seed 42`,
	Args: cobra.MinimumNArgs(3),
	RunE: runCreate,
}

// selectCmd asks the server to select an arm
var selectCmd = &cobra.Command{
	Use:   "select <name>",
	Short: "Select an arm for an experiment",
	Args:  cobra.ExactArgs(1),
	RunE:  runSelect,
}

// rewardCmd reports a reward for an arm
var rewardCmd = &cobra.Command{
	Use:   "reward <name> <arm-index> <reward>",
	Short: "Report a reward for a previously selected arm",
	Args:  cobra.ExactArgs(3),
	RunE:  runReward,
}

// statsCmd fetches experiment statistics
var statsCmd = &cobra.Command{
	Use:   "stats <name>",
	Short: "Show statistics for an experiment",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

// listCmd lists all experiments
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all experiments",
	RunE:  runList,
}

// deleteCmd deletes an experiment
var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete an experiment",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check banditd server health",
	RunE:  runHealth,
}

func init() {
	createCmd.Flags().StringVar(&createAlgorithm, "algorithm", "thompson_sampling", "algorithm: epsilon_greedy, thompson_sampling, or ucb")
	createCmd.Flags().Float64Var(&createEpsilon, "epsilon", 0.1, "exploration rate for epsilon_greedy")
	createCmd.Flags().Float64Var(&createC, "c", 1.0, "exploration constant for ucb")
	createCmd.Flags().Uint64Var(&createSeed, "seed", 0, "random seed (0 picks one)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	body := map[string]any{
		"name":      args[0],
		"arms":      args[1:],
		"algorithm": createAlgorithm,
		"epsilon":   createEpsilon,
		"c":         createC,
	}
	if createSeed != 0 {
		body["seed"] = createSeed
	}
	return doJSON(http.MethodPost, "/api/v1/experiments", body)
}

func runSelect(cmd *cobra.Command, args []string) error {
	return doJSON(http.MethodPost, "/api/v1/experiments/"+args[0]+"/select", nil)
}

func runReward(cmd *cobra.Command, args []string) error {
	armIndex, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid arm index %q: %w", args[1], err)
	}
	reward, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid reward %q: %w", args[2], err)
	}
	return doJSON(http.MethodPost, "/api/v1/experiments/"+args[0]+"/reward", map[string]any{
		"arm_index": armIndex,
		"reward":    reward,
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	return doJSON(http.MethodGet, "/api/v1/experiments/"+args[0]+"/stats", nil)
}

func runList(cmd *cobra.Command, args []string) error {
	return doJSON(http.MethodGet, "/api/v1/experiments", nil)
}

func runDelete(cmd *cobra.Command, args []string) error {
	return doJSON(http.MethodDelete, "/api/v1/experiments/"+args[0], nil)
}

func runHealth(cmd *cobra.Command, args []string) error {
	return doJSON(http.MethodGet, "/health", nil)
}

// doJSON performs one request against the server and pretty-prints the JSON
// response to stdout. Non-2xx responses become errors carrying the body.
func doJSON(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, serverURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed (is banditd running at %s?): %w", serverURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %s: %s", resp.Status, bytes.TrimSpace(data))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}
