package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/ledgerlogic/internal/adapter/http/dto"
	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/infrastructure/auth"
	"github.com/iho/ledgerlogic/internal/infrastructure/config"
	"github.com/iho/ledgerlogic/internal/infrastructure/logger"
	"github.com/iho/ledgerlogic/internal/infrastructure/postgres"
)

type options struct {
	baseURL string
	token   string
	timeout time.Duration
	output  string
}

func (o *options) client() *client {
	return newClient(strings.TrimRight(o.baseURL, "/"), o.token, o.timeout)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "LedgerLogic CLI tool",
		Long:          `A command line interface for the LedgerLogic accounting API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("LEDGER_URL", "http://localhost:8080"), "Base URL of the LedgerLogic API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("LEDGER_TOKEN"), "Bearer token")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "Output format: table or json")

	rootCmd.AddCommand(
		accountsCmd(opts),
		journalCmd(opts),
		ledgerCmd(opts),
		statementCmd(opts),
		ratiosCmd(opts),
		migrateCmd(),
		tokenCmd(),
	)

	return rootCmd
}

func accountsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Chart of accounts",
	}

	var (
		category   string
		activeOnly bool
		limit      int
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if category != "" {
				q.Set("category", category)
			}
			if activeOnly {
				q.Set("active", "true")
			}
			q.Set("limit", strconv.Itoa(limit))

			var accounts []*dto.AccountResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/accounts", q, nil, &accounts); err != nil {
				return err
			}
			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), accounts)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NUMBER\tNAME\tCATEGORY\tSIDE\tACTIVE\tID")
			for _, a := range accounts {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\t%s\n", a.Number, truncate(a.Name, 32), a.Category, a.NormalSide, a.Active, a.ID)
			}
			return tw.Flush()
		},
	}
	listCmd.Flags().StringVar(&category, "category", "", "Filter by category")
	listCmd.Flags().BoolVar(&activeOnly, "active", false, "Only active accounts")
	listCmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of accounts")

	var req dto.CreateAccountRequest
	var initial string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if initial != "" {
				d, err := decimal.NewFromString(initial)
				if err != nil {
					return fmt.Errorf("invalid initial balance %q", initial)
				}
				req.InitialBalance = d
			}

			var account dto.AccountResponse
			if err := opts.client().do(cmd.Context(), http.MethodPost, "/api/v1/accounts", nil, &req, &account); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), account)
		},
	}
	createCmd.Flags().Int64Var(&req.Number, "number", 0, "Account number")
	createCmd.Flags().StringVar(&req.Name, "name", "", "Account name")
	createCmd.Flags().StringVar(&req.Description, "description", "", "Description")
	createCmd.Flags().StringVar(&req.Category, "category", "", "asset, liability, equity, revenue or expense")
	createCmd.Flags().StringVar(&req.Subcategory, "subcategory", "", "Subcategory used by ratios")
	createCmd.Flags().StringVar(&req.NormalSide, "normal-side", "", "debit or credit (defaults from category)")
	createCmd.Flags().StringVar(&initial, "initial-balance", "", "Initial balance")
	createCmd.Flags().IntVar(&req.Order, "order", 0, "Display order")
	_ = createCmd.MarkFlagRequired("number")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("category")

	cmd.AddCommand(listCmd, createCmd,
		accountActionCmd(opts, "activate", "Activate an account"),
		accountActionCmd(opts, "deactivate", "Deactivate an account"),
	)
	return cmd
}

func accountActionCmd(opts *options, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <account-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var account dto.AccountResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/" + action
			if err := opts.client().do(cmd.Context(), http.MethodPost, path, nil, nil, &account); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %d %s: active=%t\n", account.Number, account.Name, account.Active)
			return nil
		},
	}
}

func journalCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Journal groups and entries",
	}

	var (
		description string
		lines       []string
	)
	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a journal group for review",
		Example: `  ledgerctl journal submit --description "Owner investment" \
    --line 01J...CASH:2024-01-01:1000:0 --line 01J...EQUITY:2024-01-01:0:1000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.SubmitGroupRequest{Description: description}
			for _, l := range lines {
				line, err := parseLine(l)
				if err != nil {
					return err
				}
				req.Lines = append(req.Lines, line)
			}

			var group dto.GroupResponse
			if err := opts.client().do(cmd.Context(), http.MethodPost, "/api/v1/journal/groups", nil, &req, &group); err != nil {
				return err
			}
			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), group)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "group %s %s: debit=%s credit=%s\n", group.ID, group.Status, group.TotalDebit, group.TotalCredit)
			return nil
		},
	}
	submitCmd.Flags().StringVar(&description, "description", "", "Group description")
	submitCmd.Flags().StringArrayVar(&lines, "line", nil, "Line as account:date:debit:credit (repeatable)")
	_ = submitCmd.MarkFlagRequired("line")

	approveCmd := &cobra.Command{
		Use:   "approve <group-id>",
		Short: "Approve a pending group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reviewGroup(cmd, opts, args[0], "approve", "")
		},
	}

	var reason string
	rejectCmd := &cobra.Command{
		Use:   "reject <group-id>",
		Short: "Reject a pending group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reviewGroup(cmd, opts, args[0], "reject", reason)
		},
	}
	rejectCmd.Flags().StringVar(&reason, "reason", "", "Rejection reason")

	commentCmd := &cobra.Command{
		Use:   "comment <entry-id> <comment>",
		Short: "Attach a comment to an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entry dto.EntryResponse
			path := "/api/v1/journal/entries/" + url.PathEscape(args[0]) + "/comment"
			if err := opts.client().do(cmd.Context(), http.MethodPost, path, nil, &dto.CommentRequest{Comment: args[1]}, &entry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "entry %s: %s\n", entry.ID, entry.Comment)
			return nil
		},
	}

	cmd.AddCommand(submitCmd, approveCmd, rejectCmd, commentCmd)
	return cmd
}

func reviewGroup(cmd *cobra.Command, opts *options, id, action, reason string) error {
	var body any
	if reason != "" {
		body = &dto.ReviewRequest{Reason: reason}
	}

	var group dto.GroupResponse
	path := "/api/v1/journal/groups/" + url.PathEscape(id) + "/" + action
	if err := opts.client().do(cmd.Context(), http.MethodPost, path, nil, body, &group); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "group %s %s by %s\n", group.ID, group.Status, group.ReviewedBy)
	return nil
}

// parseLine reads account:date:debit:credit. Empty amounts are zero.
func parseLine(s string) (dto.JournalLineRequest, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return dto.JournalLineRequest{}, fmt.Errorf("invalid line %q: want account:date:debit:credit", s)
	}

	amount := func(v string) (decimal.Decimal, error) {
		if v == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid amount %q in line %q", v, s)
		}
		return d, nil
	}

	debit, err := amount(parts[2])
	if err != nil {
		return dto.JournalLineRequest{}, err
	}
	credit, err := amount(parts[3])
	if err != nil {
		return dto.JournalLineRequest{}, err
	}

	return dto.JournalLineRequest{
		AccountID: parts[0],
		Date:      parts[1],
		Debit:     debit,
		Credit:    credit,
	}, nil
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	var start, end string
	showCmd := &cobra.Command{
		Use:   "show <account-id>",
		Short: "Show the ledger of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ledger dto.LedgerResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/ledger"
			if err := opts.client().do(cmd.Context(), http.MethodGet, path, rangeQuery(start, end), nil, &ledger); err != nil {
				return err
			}
			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), ledger)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "%d %s\topening\t%s\n", ledger.Account.Number, ledger.Account.Name, ledger.OpeningBalance)
			fmt.Fprintln(tw, "DATE\tDEBIT\tCREDIT\tBALANCE\tGROUP")
			for _, row := range ledger.Rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", row.Date, row.Debit, row.Credit, row.Balance, row.GroupID)
			}
			fmt.Fprintf(tw, "\t\t\t%s\tending\n", ledger.EndingBalance)
			return tw.Flush()
		},
	}
	addRangeFlags(showCmd, &start, &end)

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkConsistency(cmd, opts)
		},
	}

	cmd.AddCommand(showCmd, consistencyCmd)
	return cmd
}

func checkConsistency(cmd *cobra.Command, opts *options) error {
	var report dto.ConsistencyResponse
	err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil, nil, &report)

	var apiErr *apiError
	switch {
	case err == nil:
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict:
		if jerr := json.Unmarshal(apiErr.Body, &report); jerr != nil {
			return err
		}
	default:
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total debit:  %s\nTotal credit: %s\nDifference:   %s\n", report.TotalDebit, report.TotalCredit, report.Difference)
	if !report.Consistent {
		fmt.Fprintln(out, "Consistency check FAILED")
		return errors.New("ledger is inconsistent")
	}
	fmt.Fprintln(out, "Consistency check PASSED")
	return nil
}

func statementCmd(opts *options) *cobra.Command {
	var start, end, kind string
	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Build a financial statement",
		Long:  `Kinds: totals, trial-balance, income, balance-sheet, retained-earnings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, ok := statementPaths[kind]
			if !ok {
				return fmt.Errorf("unknown statement kind %q", kind)
			}

			var out json.RawMessage
			if err := opts.client().do(cmd.Context(), http.MethodGet, path, rangeQuery(start, end), nil, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	addRangeFlags(cmd, &start, &end)
	cmd.Flags().StringVar(&kind, "kind", "totals", "Statement kind")
	return cmd
}

var statementPaths = map[string]string{
	"totals":            "/api/v1/statements",
	"trial-balance":     "/api/v1/statements/trial-balance",
	"income":            "/api/v1/statements/income",
	"balance-sheet":     "/api/v1/statements/balance-sheet",
	"retained-earnings": "/api/v1/statements/retained-earnings",
}

func ratiosCmd(opts *options) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "ratios",
		Short: "Compute financial ratios",
		RunE: func(cmd *cobra.Command, args []string) error {
			var ratios []dto.RatioResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/ratios", rangeQuery(start, end), nil, &ratios); err != nil {
				return err
			}
			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), ratios)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RATIO\tVALUE\tSIGNAL")
			for _, r := range ratios {
				value := "n/a"
				if r.Value != nil {
					value = r.Value.StringFixed(4)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, value, r.Signal)
			}
			return tw.Flush()
		},
	}
	addRangeFlags(cmd, &start, &end)
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	run := func(fn func(*postgres.Migrator) error) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Output: os.Stderr, Service: "ledgerctl"})

		m, err := postgres.NewMigrator(cfg.MigrationsPath, cfg.DatabaseURL, log)
		if err != nil {
			return err
		}
		defer m.Close()

		return fn(m)
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(m *postgres.Migrator) error { return m.Up() })
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(m *postgres.Migrator) error { return m.Down(steps) })
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		userID string
		email  string
		role   string
		secret string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("a signing secret is required (--secret or JWT_SECRET)")
			}

			token, err := auth.NewJWTManager(secret, ttl).Generate(&domain.User{
				ID:    userID,
				Email: email,
				Role:  domain.Role(role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "User ID (token subject)")
	cmd.Flags().StringVar(&email, "email", "", "User email")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleViewer), "viewer, accountant, manager or admin")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func addRangeFlags(cmd *cobra.Command, start, end *string) {
	cmd.Flags().StringVar(start, "start", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(end, "end", "", "Range end (YYYY-MM-DD)")
}

func rangeQuery(start, end string) url.Values {
	q := url.Values{}
	if start != "" {
		q.Set("start", start)
	}
	if end != "" {
		q.Set("end", end)
	}
	return q
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
