package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"strings"
	"syscall"

	"github.com/honganh1206/guideme/inference"
	"github.com/honganh1206/guideme/server"
	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func chatHandler(cfg *config) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		chatContext, err := cmd.Flags().GetStringToString("context")
		if err != nil {
			return err
		}

		useTUI, err := cmd.Flags().GetBool("tui")
		if err != nil {
			return err
		}

		ctxFields := make(map[string]any, len(chatContext))
		for k, v := range chatContext {
			ctxFields[k] = v
		}

		client := cfg.apiClient()

		if len(args) == 0 {
			if useTUI {
				return tui(cmd.Context(), client, ctxFields)
			}
			return interactive(cmd.Context(), client, ctxFields, cmd.InOrStdin(), cfg.stdout)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		resp, err := client.SendChatMessage(ctx, strings.Join(args, " "), ctxFields)
		if err != nil {
			return err
		}

		reply, err := chatReply(resp)
		if err != nil {
			return err
		}

		fmt.Fprintln(cfg.stdout, reply)
		return nil
	}
}

func guestHandler(cfg *config) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		resp, err := cfg.apiClient().CreateGuestSession(ctx)
		if err != nil {
			return err
		}

		return printTable(cfg.stdout, resp)
	}
}

// credentialsFromFlags only includes the flags the user actually set.
func credentialsFromFlags(cmd *cobra.Command) map[string]any {
	creds := make(map[string]any)
	for _, name := range []string{"username", "email", "password"} {
		if cmd.Flags().Changed(name) {
			value, _ := cmd.Flags().GetString(name)
			creds[name] = value
		}
	}
	return creds
}

func signupHandler(cfg *config) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		resp, err := cfg.apiClient().Signup(ctx, credentialsFromFlags(cmd))
		if err != nil {
			return err
		}

		return printTable(cfg.stdout, resp)
	}
}

func loginHandler(cfg *config) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		creds := credentialsFromFlags(cmd)
		if _, ok := creds["username"]; !ok {
			if _, ok := creds["email"]; !ok {
				return errors.New("one of --username or --email is required")
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		resp, err := cfg.apiClient().Login(ctx, creds)
		if err != nil {
			return err
		}

		return printBox(cfg.stdout, "Login Successful", resp)
	}
}

func logoutHandler(cfg *config) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		token, err := cmd.Flags().GetString("token")
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		resp, err := cfg.apiClient().Logout(ctx, token)
		if err != nil {
			return err
		}

		return printTable(cfg.stdout, resp)
	}
}

func serveHandler(cfg *config) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		addr, err := cmd.Flags().GetString("addr")
		if err != nil {
			return err
		}
		maxTokens, err := cmd.Flags().GetInt64("max-tokens")
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger := cfg.logger()

		model, err := inference.Init(ctx, inference.ModelConfig{
			Provider:  cfg.v.GetString("provider"),
			Model:     cfg.v.GetString("model"),
			MaxTokens: maxTokens,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize model: %w", err)
		}
		logger.Info().Str("model", model.Name()).Msg("chat replies enabled")

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}

		return server.Serve(ctx, ln, server.Config{
			DataDir: cfg.dataDir(),
			Model:   model,
			Logger:  logger,
		})
	}
}

func modelHandler(cfg *config) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		name, err := cmd.Flags().GetString("provider")
		if err != nil {
			return err
		}

		provider := inference.ProviderName(name)
		models := inference.ListAvailableModels(provider)

		if len(models) > 0 {
			fmt.Fprintf(cfg.stdout, "Available models for %s:\n", provider)
			for _, model := range models {
				fmt.Fprintf(cfg.stdout, "  - %s\n", model)
			}
		} else {
			fmt.Fprintf(cfg.stdout, "No models to choose for provider %q; replies use the demo echo\n", provider)
		}

		return nil
	}
}

func NewCLI() *cobra.Command {
	return newCLI(newConfig())
}

func newCLI(cfg *config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "guideme",
		Short:         "Client and backend for the GuideMe chat assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfg.cfgFile, "config", "", "config file (default is $HOME/.guideme.yaml)")
	rootCmd.PersistentFlags().StringVar(&cfg.envPath, "env", ".env", "Path to .env file")
	rootCmd.PersistentFlags().String("host", "", "Host name used to pick the API (default is this machine's host name)")
	rootCmd.PersistentFlags().String("base-url", "", "Talk to this API base URL instead of resolving one from the host")
	rootCmd.PersistentFlags().BoolVar(&cfg.verbose, "verbose", false, "Enable verbose output")

	cfg.v.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	cfg.v.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))

	chatCmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send a chat message, or start an interactive chat when no message is given",
		RunE:  chatHandler(cfg),
	}
	chatCmd.Flags().StringToStringP("context", "c", nil, "Extra fields sent with each message (key=value)")
	chatCmd.Flags().Bool("tui", false, "Use the terminal UI for interactive chat")

	guestCmd := &cobra.Command{
		Use:   "guest",
		Short: "Create a guest session",
		Args:  cobra.NoArgs,
		RunE:  guestHandler(cfg),
	}

	signupCmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE:  signupHandler(cfg),
	}
	signupCmd.Flags().StringP("username", "u", "", "Username")
	signupCmd.Flags().StringP("email", "e", "", "Email address")
	signupCmd.Flags().StringP("password", "p", "", "Password")
	signupCmd.MarkFlagRequired("username")
	signupCmd.MarkFlagRequired("password")

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to an existing account",
		Args:  cobra.NoArgs,
		RunE:  loginHandler(cfg),
	}
	loginCmd.Flags().StringP("username", "u", "", "Username")
	loginCmd.Flags().StringP("email", "e", "", "Email address")
	loginCmd.Flags().StringP("password", "p", "", "Password")
	loginCmd.MarkFlagRequired("password")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Revoke a session token",
		Args:  cobra.NoArgs,
		RunE:  logoutHandler(cfg),
	}
	logoutCmd.Flags().StringP("token", "t", "", "Session token to revoke")
	logoutCmd.MarkFlagRequired("token")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the GuideMe backend",
		Args:  cobra.NoArgs,
		RunE:  serveHandler(cfg),
	}
	serveCmd.Flags().String("addr", ":5000", "Address to listen on")
	serveCmd.Flags().String("data-dir", "", "Directory for the user and session stores (default is $HOME/.guideme)")
	serveCmd.Flags().String("provider", inference.DemoProvider, "Chat provider (demo, anthropic, google)")
	serveCmd.Flags().String("model", "", "Model to use (depends on selected provider)")
	serveCmd.Flags().Int64("max-tokens", 1024, "Maximum number of tokens in a reply")
	cfg.v.BindPFlag("data_dir", serveCmd.Flags().Lookup("data-dir"))
	cfg.v.BindPFlag("provider", serveCmd.Flags().Lookup("provider"))
	cfg.v.BindPFlag("model", serveCmd.Flags().Lookup("model"))

	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "List available models for the selected provider",
		Args:  cobra.NoArgs,
		RunE:  modelHandler(cfg),
	}
	modelCmd.Flags().String("provider", inference.AnthropicProvider, "Provider (anthropic, google)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of guideme",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cfg.stdout, "GuideMe version %s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
		},
	}

	rootCmd.AddCommand(chatCmd, guestCmd, signupCmd, loginCmd, logoutCmd, serveCmd, modelCmd, versionCmd)

	return rootCmd
}
