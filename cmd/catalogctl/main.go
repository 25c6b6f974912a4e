package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// catalogctl is an operator CLI for the artifact-catalog HTTP API. It is a
// thin client: all authorization happens server-side against the caller's
// token, so a staff token will see approvals rejected just like in the UI.

var (
	serverURL string
	token     string
)

func main() {
	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Operator CLI for the artifact catalog",
	}

	root.PersistentFlags().StringVar(&serverURL, "server", envOr("CATALOG_SERVER", "http://localhost:8080"), "server base URL")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("CATALOG_TOKEN"), "session token")

	root.AddCommand(listCmd())
	root.AddCommand(approveCmd())
	root.AddCommand(deleteCmd())
	root.AddCommand(activityCmd())
	root.AddCommand(statsCmd())

	if err := root.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func request(method, path string, out interface{}) error {
	req, err := http.NewRequest(method, strings.TrimRight(serverURL, "/")+path, nil)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(body)))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type artifact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	ViewCount int64     `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List artifacts visible to your role",
		RunE: func(cmd *cobra.Command, args []string) error {
			var artifacts []artifact
			if err := request(http.MethodGet, "/api/artifacts", &artifacts); err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSTATUS\tVIEWS\tCREATED")
			for _, a := range artifacts {
				status := a.Status
				if status == "pending" {
					status = color.YellowString(status)
				} else {
					status = color.GreenString(status)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					a.ID, a.Name, status, a.ViewCount, a.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
}

func approveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve [artifact-id]",
		Short: "Approve a pending artifact (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var a artifact
			if err := request(http.MethodPost, "/api/artifacts/"+args[0]+"/approve", &a); err != nil {
				return err
			}
			color.Green("Approved %s (%s)", a.Name, a.ID)
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [artifact-id]",
		Short: "Delete an artifact (admin only, irreversible)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := request(http.MethodDelete, "/api/artifacts/"+args[0], nil); err != nil {
				return err
			}
			color.Green("Deleted %s", args[0])
			return nil
		},
	}
}

type activityEntry struct {
	UserEmail string    `json:"user_email"`
	Role      string    `json:"role"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

func activityCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the activity log, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/admin/activity"
			if limit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, limit)
			}
			var entries []activityEntry
			if err := request(http.MethodGet, path, &entries); err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tWHO\tROLE\tACTION\tDETAILS")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.CreatedAt.Format(time.RFC3339), e.UserEmail, e.Role, e.Action, e.Details)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to fetch")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats struct {
				Artifacts  int   `json:"artifacts"`
				Categories int   `json:"categories"`
				TotalViews int64 `json:"total_views"`
				WithImages int   `json:"with_images"`
			}
			if err := request(http.MethodGet, "/api/admin/stats", &stats); err != nil {
				return err
			}

			fmt.Printf("Artifacts:   %d\n", stats.Artifacts)
			fmt.Printf("Categories:  %d\n", stats.Categories)
			fmt.Printf("Total views: %d\n", stats.TotalViews)
			fmt.Printf("With images: %d\n", stats.WithImages)
			return nil
		},
	}
}
