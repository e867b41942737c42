package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"eups-setup/internal/app"
)

type unsetupOptions struct {
	Path   string
	Shell  string
	Format string
}

func newUnsetupCommand() *cobra.Command {
	opts := unsetupOptions{}
	cmd := &cobra.Command{
		Use:   "unsetup <product>",
		Short: "Print the commands that undo a product's setup",
		Args:  argsRange(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnsetup(commandContext(cmd), cmd, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.Path, "path", "Z", "", "Colon-separated product roots (default EUPS_PATH)")
	cmd.Flags().StringVar(&opts.Shell, "shell", "", "Shell syntax to emit: sh or csh (default from SHELL)")
	cmd.Flags().StringVar(&opts.Format, "format", app.FormatScript, "Output format: script or yaml")
	_ = viper.BindPFlag("path", cmd.Flags().Lookup("path"))
	_ = viper.BindPFlag("shell", cmd.Flags().Lookup("shell"))
	return cmd
}

func runUnsetup(ctx context.Context, cmd *cobra.Command, opts unsetupOptions, product string) error {
	result, err := newAppService().Unsetup(ctx, app.UnsetupRequest{
		Product: product,
		Path:    resolveString(cmd, opts.Path, "path", "path"),
		Shell:   resolveString(cmd, opts.Shell, "shell", "shell"),
		Format:  opts.Format,
	})
	fmt.Fprint(cmd.OutOrStdout(), result.Output)
	return err
}
