package cli

import (
	"context"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"eups-setup/internal/app"
)

type listOptions struct {
	Flavor string
	Path   string
}

func newListCommand() *cobra.Command {
	opts := listOptions{}
	cmd := &cobra.Command{
		Use:   "list <product>",
		Short: "List the declared versions of a product",
		Args:  argsRange(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(commandContext(cmd), cmd, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.Flavor, "flavor", "f", "", "Flavor to check chains against (default EUPS_FLAVOR)")
	cmd.Flags().StringVarP(&opts.Path, "path", "Z", "", "Colon-separated product roots (default EUPS_PATH)")
	_ = viper.BindPFlag("flavor", cmd.Flags().Lookup("flavor"))
	_ = viper.BindPFlag("path", cmd.Flags().Lookup("path"))
	return cmd
}

func runList(ctx context.Context, cmd *cobra.Command, opts listOptions, product string) error {
	result, err := newAppService().List(ctx, app.ListRequest{
		Product: product,
		Flavor:  resolveString(cmd, opts.Flavor, "flavor", "flavor"),
		Path:    resolveString(cmd, opts.Path, "path", "path"),
	})
	if err != nil {
		return err
	}
	renderList(cmd.OutOrStdout(), result)
	return nil
}

func renderList(w io.Writer, result app.ListResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Version", "Root", "Current", "Setup"})
	for _, entry := range result.Entries {
		table.Append([]string{entry.Version, entry.Root, marker(entry.Current, "current"), marker(entry.Setup, "setup")})
	}
	table.Render()
}

func marker(set bool, label string) string {
	if set {
		return label
	}
	return ""
}
