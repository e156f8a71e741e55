package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/5G-MAG/m1-dashboard/internal/af"
	"github.com/5G-MAG/m1-dashboard/internal/auth"
	"github.com/5G-MAG/m1-dashboard/internal/dashboard"
)

const annotationNoConfig = "no-config"

// terminalTable keeps the rows a command produced so they can be printed
// once the flow has finished.
type terminalTable struct {
	mu   sync.Mutex
	rows []dashboard.Row
}

func (t *terminalTable) Rows() []dashboard.Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]dashboard.Row(nil), t.rows...)
}

func (t *terminalTable) AddRow(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, dashboard.Row{SessionID: sessionID, Policies: dashboard.PolicyChecking})
}

func (t *terminalTable) RemoveRow(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, row := range t.rows {
		if row.SessionID == sessionID {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return true
		}
	}
	return false
}

func (t *terminalTable) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = nil
}

func (t *terminalTable) SetPolicyAvailability(sessionID string, enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if t.rows[i].SessionID == sessionID {
			t.rows[i].Policies = dashboard.PolicyDisabled
			if enabled {
				t.rows[i].Policies = dashboard.PolicyEnabled
			}
		}
	}
}

func (t *terminalTable) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tDYNAMIC POLICIES")
	for _, row := range t.Rows() {
		fmt.Fprintf(tw, "%s\t%s\n", row.SessionID, row.Policies)
	}
	return tw.Flush()
}

type consoleNotifier struct {
	out io.Writer
}

func (n *consoleNotifier) Notify(alert dashboard.Alert) {
	printAlert(n.out, &alert)
}

func (n *consoleNotifier) SetStatus(text string) {
	fmt.Fprintln(n.out, text)
}

func printAlert(w io.Writer, alert *dashboard.Alert) {
	if alert == nil {
		return
	}
	line := fmt.Sprintf("[%s] %s", strings.ToUpper(string(alert.Level)), alert.Title)
	if alert.Text != "" {
		line += ": " + alert.Text
	}
	fmt.Fprintln(w, line)
}

// printResult writes the outcome of a flow and reports error alerts as a
// failed command.
func printResult(w io.Writer, res dashboard.Result) error {
	printAlert(w, res.Alert)
	if res.OpenURL != "" {
		fmt.Fprintln(w, res.OpenURL)
	}
	for _, choice := range res.Choices {
		fmt.Fprintln(w, choice)
	}
	if res.Alert != nil && res.Alert.Level == dashboard.LevelError {
		return fmt.Errorf("%s", res.Alert.Title)
	}
	return nil
}

func promptConfirm(in *bufio.Reader, out io.Writer) dashboard.ConfirmFunc {
	return func(_ context.Context, c dashboard.Confirmation) bool {
		fmt.Fprintf(out, "%s %s [y/N] ", c.Title, c.Text)
		answer, _ := in.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}

func promptChoice(in *bufio.Reader, out io.Writer) dashboard.ChooseFunc {
	return func(_ context.Context, c dashboard.Choice) (string, bool) {
		fmt.Fprintln(out, c.Title)
		for i, option := range c.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, option)
		}
		fmt.Fprint(out, "> ")
		answer, _ := in.ReadString('\n')
		n, err := strconv.Atoi(strings.TrimSpace(answer))
		if err != nil || n < 1 || n > len(c.Options) {
			return "", false
		}
		return c.Options[n-1], true
	}
}

func (app *application) newCLIController() (*dashboard.Controller, *terminalTable, *consoleNotifier, error) {
	client, err := app.newClient()
	if err != nil {
		return nil, nil, nil, err
	}
	table := &terminalTable{}
	notifier := &consoleNotifier{out: app.stdout}
	return dashboard.NewController(client, table, notifier), table, notifier, nil
}

func (app *application) sessionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List, create or delete provisioning sessions",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List provisioning sessions and their dynamic policy support",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			controller, table, _, err := app.newCLIController()
			if err != nil {
				return err
			}
			if err := printResult(app.stdout, controller.LoadAllSessions(cmd.Context())); err != nil {
				return err
			}
			return table.Print(app.stdout)
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a provisioning session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			controller, _, _, err := app.newCLIController()
			if err != nil {
				return err
			}
			return printResult(app.stdout, controller.CreateSession(cmd.Context()))
		},
	}

	var assumeYes bool
	remove := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a provisioning session with all its resources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			controller, _, _, err := app.newCLIController()
			if err != nil {
				return err
			}
			confirm := promptConfirm(bufio.NewReader(cmd.InOrStdin()), app.stdout)
			if assumeYes {
				confirm = dashboard.AlwaysConfirm
			}
			return printResult(app.stdout, controller.DeleteSession(cmd.Context(), args[0], confirm))
		},
	}
	remove.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	var metricsAssumeYes bool
	metrics := &cobra.Command{
		Use:   "delete-metrics <session-id>",
		Short: "Pick and delete a metrics reporting configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			controller, _, _, err := app.newCLIController()
			if err != nil {
				return err
			}
			in := bufio.NewReader(cmd.InOrStdin())
			confirm := promptConfirm(in, app.stdout)
			if metricsAssumeYes {
				confirm = dashboard.AlwaysConfirm
			}
			choose := promptChoice(in, app.stdout)
			return printResult(app.stdout, controller.DeleteMetrics(cmd.Context(), args[0], choose, confirm))
		},
	}
	metrics.Flags().BoolVarP(&metricsAssumeYes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(list, create, remove, metrics)
	return cmd
}

func (app *application) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the connection with the Application Function once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.newClient()
			if err != nil {
				return err
			}
			// A single probe only reports. The purge on outage belongs to the
			// server's poller.
			if err := client.CheckConnection(cmd.Context()); err != nil {
				if af.IsHTTPError(err) {
					fmt.Fprintln(app.stdout, dashboard.StatusDisconnected)
				} else {
					fmt.Fprintln(app.stdout, dashboard.StatusInterrupted)
				}
				return err
			}
			fmt.Fprintln(app.stdout, dashboard.StatusConnected)
			return nil
		},
	}
}

func hashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "hash-password <password>",
		Short:       "Print a bcrypt hash for auth.password_hash",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationNoConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
