// ShootFlow CLI - talk to a running daemon from the terminal.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shootflow/shootflow/internal/core"
)

var (
	serverURL string
	version   = "0.1.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sf",
		Short: "ShootFlow - production assistant for fashion shoots",
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8090", "daemon address")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(actionsCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func client() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

func post(path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := client().Post(serverURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("is the daemon running? %w", err)
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func get(path string, out interface{}) error {
	resp, err := client().Get(serverURL + path)
	if err != nil {
		return fmt.Errorf("is the daemon running? %w", err)
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func decode(resp *http.Response, out interface{}) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return fmt.Errorf("%s", e.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return json.Unmarshal(data, out)
}

// loadSnapshot reads a production snapshot file, or returns an empty one.
func loadSnapshot(path string) (core.AssistantContext, error) {
	var snapshot core.AssistantContext
	if path == "" {
		return snapshot, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return snapshot, err
	}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return snapshot, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return snapshot, nil
}

func askCmd() *cobra.Command {
	var snapshotPath string
	var kit string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}
			if kit != "" {
				snapshot.CurrentKit = core.Kit(kit)
			}

			payload := map[string]interface{}{
				"text":     strings.Join(args, " "),
				"sender":   "user",
				"snapshot": snapshot,
			}
			var resp core.AssistantResponse
			if err := post("/api/v1/assistant/message", payload, &resp); err != nil {
				return err
			}

			fmt.Printf("[%s, confidence %.2f]\n\n%s\n", resp.Intent, resp.Confidence, resp.Content)
			if len(resp.Actions) > 0 {
				fmt.Println()
				for _, a := range resp.Actions {
					fmt.Printf("  -> %s (%s)\n", a.Label, a.ActionID)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "production snapshot JSON file")
	cmd.Flags().StringVar(&kit, "kit", "", "current kit for classification bias")
	return cmd
}

func scanCmd() *cobra.Command {
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a risk scan over a production snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}

			var report struct {
				Risks []core.Risk `json:"risks"`
			}
			if err := post("/api/v1/risk/scan", snapshot, &report); err != nil {
				return err
			}

			if len(report.Risks) == 0 {
				fmt.Println("No risks detected.")
				return nil
			}
			for _, risk := range report.Risks {
				fmt.Printf("[%s] %s: %s\n", strings.ToUpper(string(risk.Severity)), risk.Category, risk.Description)
				if risk.Action != "" {
					fmt.Printf("       %s\n", risk.Action)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "production snapshot JSON file")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status map[string]interface{}
			if err := get("/api/v1/status", &status); err != nil {
				return err
			}
			fmt.Printf("status: %v\nuptime: %v\n", status["status"], status["uptime"])
			return nil
		},
	}
}

func actionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List registered assistant actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var targets []struct {
				ActionID string `json:"action_id"`
				Route    string `json:"route"`
				Label    string `json:"label"`
			}
			if err := get("/api/v1/actions", &targets); err != nil {
				return err
			}
			for _, t := range targets {
				fmt.Printf("%-18s %-24s %s\n", t.ActionID, t.Route, t.Label)
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sf %s\n", version)
		},
	}
}
