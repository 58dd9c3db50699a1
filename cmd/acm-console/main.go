// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Command acm-console is a terminal prototype of a multicluster management console:
// clusters, identities, roles and virtual machines, with client-side impersonation.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/kuklas/acm-user-interface-sub002/internal/clierr"
	"github.com/kuklas/acm-user-interface-sub002/internal/config"
	"github.com/kuklas/acm-user-interface-sub002/internal/mockdata"
	"github.com/kuklas/acm-user-interface-sub002/internal/navigation"
	"github.com/kuklas/acm-user-interface-sub002/internal/scope"
	"github.com/kuklas/acm-user-interface-sub002/internal/viewctx"
	"github.com/kuklas/acm-user-interface-sub002/pkg/queries"
)

var (
	// BuildTag is set during build
	BuildTag = "dev"
	// BuildDate is set during build
	BuildDate = "unknown"
)

// fallbackActor is shown when neither the config nor kubeconfig names a user.
const fallbackActor = "kube:admin"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "acm-console",
	Short: "Browse a mock multicluster console in your terminal",
	Long: `acm-console - browse a mock multicluster console in your terminal

acm-console shows clusters, instance types, virtual machines, identities and
role assignments from built-in mock data. Nothing is sent to a cluster.

It provides commands for:

  - Browsing the console interactively (default)
  - Printing the navigation menu for a perspective or impersonated user
  - Listing mock records, optionally as an impersonated user
  - Listing every route and the page it renders

Environment Variables:
  ACM_CONSOLE_CONFIG               Path to the config file (default: .acm-console/config.yaml)
  ACM_CONSOLE_ACTOR                Signed-in user name (default: from kubeconfig)
  ACM_CONSOLE_PERSPECTIVE          Initial perspective (default: fleet-management)
  ACM_CONSOLE_IMPERSONATION_DELAY  Simulated impersonation round trip (default: 800ms)
  ACM_CONSOLE_LOG_DIR              Session log directory (default: .acm-console/logs)
  ACM_CONSOLE_LOG_LEVEL            Log level (default: info)
  ACM_CONSOLE_KUBECONFIG           Kubeconfig read for the default user name
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runUI,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, clierr.Pretty(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "acm-console version %s (built %s)\n", BuildTag, BuildDate)
		},
	})

	// Add completion command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for acm-console.

Bash:
  $ source <(acm-console completion bash)
  # Or add to ~/.bashrc:
  $ acm-console completion bash >> ~/.bashrc

Zsh:
  $ source <(acm-console completion zsh)
  # Or install to fpath:
  $ acm-console completion zsh > "${fpath[1]}/_acm-console"

Fish:
  $ acm-console completion fish | source
  # Or install:
  $ acm-console completion fish > ~/.config/fish/completions/acm-console.fish

PowerShell:
  PS> acm-console completion powershell | Out-String | Invoke-Expression
`,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return clierr.Validation(fmt.Errorf("unsupported shell: %s", args[0]))
			}
		},
	})
}

// session bundles everything a command needs, built once from the config.
type session struct {
	cfg      config.Config
	log      zerolog.Logger
	actor    viewctx.Actor
	catalog  *mockdata.Catalog
	filter   *scope.Filter
	queries  *queries.QueryStore
	resolver *navigation.Resolver
}

// newSession loads config and mock data. Events are logged to stderr at the
// configured level.
func newSession() (*session, error) {
	cfg, err := config.Load(configPath, nil)
	if err != nil {
		return nil, clierr.Validation(err)
	}
	return newSessionFromConfig(cfg, stderrLogger(cfg.Level()))
}

func newSessionFromConfig(cfg config.Config, log zerolog.Logger) (*session, error) {
	catalog, err := mockdata.Load()
	if err != nil {
		return nil, fmt.Errorf("load mock data: %w", err)
	}
	filter, err := cfg.ScopeFilter()
	if err != nil {
		return nil, clierr.Validation(err)
	}
	store, err := cfg.QueryStore()
	if err != nil {
		return nil, clierr.Validation(err)
	}

	actor := cfg.Actor
	if actor == "" {
		actor = kubeconfigUser(cfg.Kubeconfig)
	}

	return &session{
		cfg:      cfg,
		log:      log,
		actor:    viewctx.Actor{Name: actor},
		catalog:  catalog,
		filter:   filter,
		queries:  store,
		resolver: navigation.NewResolver(),
	}, nil
}

// kubeconfigUser returns the user of the current kubeconfig context. The file is
// only read; no cluster is contacted.
func kubeconfigUser(path string) string {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if path != "" {
		loadingRules.ExplicitPath = path
	}
	configOverrides := &clientcmd.ConfigOverrides{}
	kubeConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, configOverrides)

	rawConfig, err := kubeConfig.RawConfig()
	if err != nil {
		return fallbackActor
	}
	kctx, ok := rawConfig.Contexts[rawConfig.CurrentContext]
	if !ok || kctx.AuthInfo == "" {
		return fallbackActor
	}
	// OpenShift names users "kube:admin/api-host:6443".
	user, _, _ := strings.Cut(kctx.AuthInfo, "/")
	return user
}

// stderrLogger is used by the non-interactive commands.
func stderrLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
}

// viewAs returns the snapshot seen by user with groups. An empty user means the
// signed-in actor.
func (s *session) viewAs(user string, groups []string) viewctx.Snapshot {
	store := viewctx.New(s.actor, viewctx.WithDelay(0), viewctx.WithLogger(s.log))
	if t, ok := store.StartImpersonation(user, groups); ok {
		store.Complete(t)
	}
	return store.Snapshot()
}
