package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"eups-setup/internal/app"
)

type setupOptions struct {
	Flavor     string
	Path       string
	ProductDir string
	Just       bool
	Shell      string
	Format     string
}

func newSetupCommand() *cobra.Command {
	opts := setupOptions{}
	cmd := &cobra.Command{
		Use:   "setup <product> [version]",
		Short: "Print the commands that set up a product and its dependencies",
		Args:  argsRange(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(commandContext(cmd), cmd, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.Flavor, "flavor", "f", "", "Flavor to set up (default EUPS_FLAVOR)")
	cmd.Flags().StringVarP(&opts.Path, "path", "Z", "", "Colon-separated product roots (default EUPS_PATH)")
	cmd.Flags().StringVarP(&opts.ProductDir, "root", "r", "", "Set up the product found in this directory")
	cmd.Flags().BoolVarP(&opts.Just, "just", "j", false, "Skip dependencies of the product")
	cmd.Flags().StringVar(&opts.Shell, "shell", "", "Shell syntax to emit: sh or csh (default from SHELL)")
	cmd.Flags().StringVar(&opts.Format, "format", app.FormatScript, "Output format: script or yaml")
	_ = viper.BindPFlag("flavor", cmd.Flags().Lookup("flavor"))
	_ = viper.BindPFlag("path", cmd.Flags().Lookup("path"))
	_ = viper.BindPFlag("shell", cmd.Flags().Lookup("shell"))
	return cmd
}

func runSetup(ctx context.Context, cmd *cobra.Command, opts setupOptions, args []string) error {
	req := app.SetupRequest{
		Product:    args[0],
		Flavor:     resolveString(cmd, opts.Flavor, "flavor", "flavor"),
		Path:       resolveString(cmd, opts.Path, "path", "path"),
		ProductDir: opts.ProductDir,
		Just:       opts.Just,
		Shell:      resolveString(cmd, opts.Shell, "shell", "shell"),
		Format:     opts.Format,
	}
	if len(args) > 1 {
		req.Version = args[1]
	}
	result, err := newAppService().Setup(ctx, req)
	fmt.Fprint(cmd.OutOrStdout(), result.Output)
	return err
}
