package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/drydotai/dry-go/client"
	"github.com/drydotai/dry-go/internal/config"
)

var serverURL string
var debug bool

const callTimeout = 30 * time.Second

// assistTimeout covers prompt and report, where the server composes an
// answer before responding.
const assistTimeout = 120 * time.Second

func dbg(v any) {
	if !debug {
		return
	}
	log.Debug().Interface("data", v).Msg("debug output")
}

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dry",
		Short: "Dry.ai CLI for natural-language structured data",
		Long: `dry talks to the Dry.ai service: create spaces, add types and items,
search, and run free-form instructions - all in natural language.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.InitLogger()
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				_ = os.Setenv("DRY_AI_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	defaultServer := getEnv(client.EnvServer, client.DefaultServerURL)
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "Base URL of the Dry.ai service")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	// Sub-commands
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newCreateSpaceCmd())
	rootCmd.AddCommand(newGetSpaceCmd())
	rootCmd.AddCommand(newUpdateSpaceCmd())
	rootCmd.AddCommand(newDeleteSpaceCmd())
	rootCmd.AddCommand(newAddTypeCmd())
	rootCmd.AddCommand(newAddItemCmd())
	rootCmd.AddCommand(newAddFolderCmd())
	rootCmd.AddCommand(newGetTypeCmd())
	rootCmd.AddCommand(newGetFolderCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newPromptCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newUpdateItemCmd())
	rootCmd.AddCommand(newUpdateItemsCmd())
	rootCmd.AddCommand(newDeleteItemCmd())
	rootCmd.AddCommand(newDeleteItemsCmd())

	return rootCmd
}

// ------------------------- Authentication --------------------------

func newLoginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with an email verification code",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			// No call timeout here: the flow waits on the user typing the
			// code, and each HTTP request is bounded by the client anyway.
			ctx := cmd.Context()

			ch, err := c.Auth().Authenticate(ctx, email)
			if err != nil {
				log.Error().Err(err).Str("email", email).Msg("login failed")
				return err
			}
			if ch.Satisfied() {
				fmt.Printf("Already signed in as %s\n", ch.Email)
				return nil
			}

			fmt.Printf("Enter the verification code sent to %s: ", email)
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read verification code: %w", err)
			}

			cred, err := c.Auth().SubmitCode(ctx, ch, strings.TrimSpace(line))
			if err != nil {
				log.Error().Err(err).Str("email", email).Msg("verification failed")
				return err
			}
			fmt.Printf("Signed in as %s\n", cred.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the cached credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			if err := c.Auth().SignOut(); err != nil {
				return err
			}
			fmt.Println("Signed out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show whether a usable credential is available",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			if !c.Auth().Authenticated() {
				fmt.Println("Not signed in")
				return nil
			}
			fmt.Println("Signed in")
			return nil
		},
	}
}

// ---------------------------- Spaces --------------------------------

func newCreateSpaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-space <description...>",
		Short: "Create a space from a natural-language description",
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.Join(args, " ")
			if description == "" {
				return fmt.Errorf("a natural-language description is required")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			space, err := c.CreateSpace(ctx, description)
			if err != nil {
				log.Error().Err(err).Msg("create space failed")
				return err
			}

			dbg(space.Fields())
			fmt.Printf("Space created: %s (%s)\n", space.ID(), space.Name())
			if space.URL() != "" {
				fmt.Println(space.URL())
			}
			return nil
		},
	}
	return cmd
}

func newGetSpaceCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "get-space [query...]",
		Short: "Look up a space by natural-language query or by --id",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if id == "" && query == "" {
				return fmt.Errorf("either --id or a natural-language query must be provided")
			}
			if id != "" && query != "" {
				return fmt.Errorf("provide only one of --id or a query, not both")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			var space *client.Space
			if id != "" {
				space, err = c.GetSpaceByID(ctx, id)
			} else {
				space, err = c.GetSpace(ctx, query)
			}
			if err != nil {
				log.Error().Err(err).Msg("get space failed")
				return err
			}

			printJSON(space.Fields())
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Space ID (mutually exclusive with a query)")
	return cmd
}

func newUpdateSpaceCmd() *cobra.Command {
	var spaceID string

	cmd := &cobra.Command{
		Use:   "update-space <instruction...>",
		Short: "Apply a natural-language instruction to a space",
		RunE: func(cmd *cobra.Command, args []string) error {
			instruction := strings.Join(args, " ")
			if spaceID == "" {
				return fmt.Errorf("--space is required")
			}
			if instruction == "" {
				return fmt.Errorf("a natural-language instruction is required")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			space := c.Space(spaceID)
			if err := space.Update(ctx, instruction); err != nil {
				log.Error().Err(err).Str("space", spaceID).Msg("update space failed")
				return err
			}
			printJSON(space.Fields())
			return nil
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "Space ID (required)")
	_ = cmd.MarkFlagRequired("space")
	return cmd
}

func newDeleteSpaceCmd() *cobra.Command {
	var spaceID string

	cmd := &cobra.Command{
		Use:   "delete-space",
		Short: "Delete a space",
		RunE: func(cmd *cobra.Command, args []string) error {
			if spaceID == "" {
				return fmt.Errorf("--space is required")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			if err := c.Space(spaceID).Delete(ctx); err != nil {
				log.Error().Err(err).Str("space", spaceID).Msg("delete space failed")
				return err
			}
			fmt.Println("Space deleted")
			return nil
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "Space ID (required)")
	_ = cmd.MarkFlagRequired("space")
	return cmd
}

// ------------------------ Types and items ---------------------------

func newAddTypeCmd() *cobra.Command {
	var spaceID string

	cmd := &cobra.Command{
		Use:   "add-type <description...>",
		Short: "Create a type in a space, e.g. \"Task with title, status, priority\"",
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.Join(args, " ")
			if spaceID == "" {
				return fmt.Errorf("--space is required")
			}
			if description == "" {
				return fmt.Errorf("a natural-language description is required")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			typ, err := c.Space(spaceID).AddType(ctx, description)
			if err != nil {
				log.Error().Err(err).Str("space", spaceID).Msg("add type failed")
				return err
			}

			dbg(typ.Fields())
			fmt.Printf("Type created: %s (%s)\n", typ.ID(), typ.Name())
			if names := typ.FieldNames(); len(names) > 0 {
				fmt.Printf("Fields: %s\n", strings.Join(names, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "Space ID (required)")
	_ = cmd.MarkFlagRequired("space")
	return cmd
}

func newAddItemCmd() *cobra.Command {
	var spaceID string

	cmd := &cobra.Command{
		Use:   "add-item <description...>",
		Short: "Create an item in a space from a natural-language description",
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.Join(args, " ")
			if spaceID == "" {
				return fmt.Errorf("--space is required")
			}
			if description == "" {
				return fmt.Errorf("a natural-language description is required")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			item, err := c.Space(spaceID).AddItem(ctx, description)
			if err != nil {
				log.Error().Err(err).Str("space", spaceID).Msg("add item failed")
				return err
			}

			dbg(item.Fields())
			fmt.Printf("Item created: %s (%s)\n", item.ID(), item.Name())
			return nil
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "Space ID (required)")
	_ = cmd.MarkFlagRequired("space")
	return cmd
}

func newAddFolderCmd() *cobra.Command {
	var spaceID string

	cmd := &cobra.Command{
		Use:   "add-folder <description...>",
		Short: "Create a folder in a space",
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.Join(args, " ")
			if spaceID == "" {
				return fmt.Errorf("--space is required")
			}
			if description == "" {
				return fmt.Errorf("a natural-language description is required")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			folder, err := c.Space(spaceID).AddFolder(ctx, description)
			if err != nil {
				log.Error().Err(err).Str("space", spaceID).Msg("add folder failed")
				return err
			}
			fmt.Printf("Folder created: %s (%s)\n", folder.ID(), folder.Name())
			return nil
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "Space ID (required)")
	_ = cmd.MarkFlagRequired("space")
	return cmd
}

func newGetTypeCmd() *cobra.Command {
	var spaceID, name string

	cmd := &cobra.Command{
		Use:   "get-type",
		Short: "Look up a type in a space by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			if spaceID == "" || name == "" {
				return fmt.Errorf("--space and --name are required")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			typ, err := c.Space(spaceID).GetType(ctx, name)
			if err != nil {
				log.Error().Err(err).Str("space", spaceID).Str("name", name).Msg("get type failed")
				return err
			}
			printJSON(typ.Fields())
			return nil
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "Space ID (required)")
	cmd.Flags().StringVar(&name, "name", "", "Type name (required)")
	_ = cmd.MarkFlagRequired("space")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newGetFolderCmd() *cobra.Command {
	var spaceID, name string

	cmd := &cobra.Command{
		Use:   "get-folder",
		Short: "Look up a folder in a space by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			if spaceID == "" || name == "" {
				return fmt.Errorf("--space and --name are required")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			folder, err := c.Space(spaceID).GetFolder(ctx, name)
			if err != nil {
				log.Error().Err(err).Str("space", spaceID).Str("name", name).Msg("get folder failed")
				return err
			}
			printJSON(folder.Fields())
			return nil
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "Space ID (required)")
	cmd.Flags().StringVar(&name, "name", "", "Folder name (required)")
	_ = cmd.MarkFlagRequired("space")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var spaceID string

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search a space with a natural-language query",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if spaceID == "" {
				return fmt.Errorf("--space is required")
			}
			if query == "" {
				return fmt.Errorf("a natural-language query is required")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			start := time.Now()
			results, err := c.Space(spaceID).Search(ctx, query)
			if err != nil {
				log.Error().Err(err).Str("space", spaceID).Msg("search failed")
				return err
			}
			items, err := results.Collect(ctx)
			if err != nil {
				log.Error().Err(err).Str("space", spaceID).Msg("search pagination failed")
				return err
			}

			log.Debug().
				Str("space", spaceID).
				Int("count", len(items)).
				Dur("elapsed", time.Since(start)).
				Msg("search completed")

			// Full JSON so scripted callers can parse the result without
			// knowing the Go client types.
			printJSON(itemFields(items))
			return nil
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "Space ID (required)")
	_ = cmd.MarkFlagRequired("space")
	return cmd
}

func newPromptCmd() *cobra.Command {
	var spaceID string

	cmd := &cobra.Command{
		Use:   "prompt <instruction...>",
		Short: "Run a free-form instruction against a space",
		RunE: func(cmd *cobra.Command, args []string) error {
			instruction := strings.Join(args, " ")
			if spaceID == "" {
				return fmt.Errorf("--space is required")
			}
			if instruction == "" {
				return fmt.Errorf("a natural-language instruction is required")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), assistTimeout)
			defer cancel()

			items, err := c.Space(spaceID).Prompt(ctx, instruction)
			if err != nil {
				log.Error().Err(err).Str("space", spaceID).Msg("prompt failed")
				return err
			}
			printJSON(itemFields(items))
			return nil
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "Space ID (required)")
	_ = cmd.MarkFlagRequired("space")
	return cmd
}

func newReportCmd() *cobra.Command {
	var spaceID string

	cmd := &cobra.Command{
		Use:   "report <instruction...>",
		Short: "Compose a report over a space's contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			instruction := strings.Join(args, " ")
			if spaceID == "" {
				return fmt.Errorf("--space is required")
			}
			if instruction == "" {
				return fmt.Errorf("a natural-language instruction is required")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), assistTimeout)
			defer cancel()

			report, err := c.Space(spaceID).Report(ctx, instruction)
			if err != nil {
				log.Error().Err(err).Str("space", spaceID).Msg("report failed")
				return err
			}
			fmt.Println(report)
			return nil
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "Space ID (required)")
	_ = cmd.MarkFlagRequired("space")
	return cmd
}

func newUpdateItemCmd() *cobra.Command {
	var itemID string

	cmd := &cobra.Command{
		Use:   "update-item <instruction...>",
		Short: "Apply a natural-language instruction to one item",
		RunE: func(cmd *cobra.Command, args []string) error {
			instruction := strings.Join(args, " ")
			if itemID == "" {
				return fmt.Errorf("--item is required")
			}
			if instruction == "" {
				return fmt.Errorf("a natural-language instruction is required")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			item := c.Item(itemID)
			if err := item.Update(ctx, instruction); err != nil {
				log.Error().Err(err).Str("item", itemID).Msg("update item failed")
				return err
			}
			printJSON(item.Fields())
			return nil
		},
	}

	cmd.Flags().StringVar(&itemID, "item", "", "Item ID (required)")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

func newUpdateItemsCmd() *cobra.Command {
	var spaceID string

	cmd := &cobra.Command{
		Use:   "update-items <instruction...>",
		Short: "Apply a natural-language instruction across a space's items",
		RunE: func(cmd *cobra.Command, args []string) error {
			instruction := strings.Join(args, " ")
			if spaceID == "" {
				return fmt.Errorf("--space is required")
			}
			if instruction == "" {
				return fmt.Errorf("a natural-language instruction is required")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			items, err := c.Space(spaceID).UpdateItems(ctx, instruction)
			if err != nil {
				log.Error().Err(err).Str("space", spaceID).Msg("update items failed")
				return err
			}
			printJSON(itemFields(items))
			return nil
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "Space ID (required)")
	_ = cmd.MarkFlagRequired("space")
	return cmd
}

func newDeleteItemCmd() *cobra.Command {
	var itemID string

	cmd := &cobra.Command{
		Use:   "delete-item",
		Short: "Delete one item",
		RunE: func(cmd *cobra.Command, args []string) error {
			if itemID == "" {
				return fmt.Errorf("--item is required")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			if err := c.Item(itemID).Delete(ctx); err != nil {
				log.Error().Err(err).Str("item", itemID).Msg("delete item failed")
				return err
			}
			fmt.Println("Item deleted")
			return nil
		},
	}

	cmd.Flags().StringVar(&itemID, "item", "", "Item ID (required)")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

func newDeleteItemsCmd() *cobra.Command {
	var spaceID string

	cmd := &cobra.Command{
		Use:   "delete-items <query...>",
		Short: "Delete every item in a space matching a natural-language query",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if spaceID == "" {
				return fmt.Errorf("--space is required")
			}
			if query == "" {
				return fmt.Errorf("a natural-language query is required")
			}

			c, err := buildClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			n, err := c.Space(spaceID).DeleteItems(ctx, query)
			if err != nil {
				log.Error().Err(err).Str("space", spaceID).Msg("delete items failed")
				return err
			}
			fmt.Printf("Deleted %d items\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "Space ID (required)")
	_ = cmd.MarkFlagRequired("space")
	return cmd
}

// ---------------------------- Helpers -------------------------------

func buildClient() (*client.Client, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	opts := append(cfg.ClientOptions(), client.WithServerURL(serverURL))
	return client.New(opts...)
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func itemFields(items []*client.Item) []client.Fields {
	out := make([]client.Fields, len(items))
	for i, it := range items {
		out[i] = it.Fields()
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
