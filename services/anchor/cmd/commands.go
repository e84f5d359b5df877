package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/redbco/redb-driverhub/pkg/config"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/engine"
)

var objectKinds = []string{
	string(plugin.KindTable), string(plugin.KindView), string(plugin.KindFunction),
	string(plugin.KindProcedure), string(plugin.KindTrigger), string(plugin.KindIndex),
}

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Inspect registered driver plugins",
}

var listPluginsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered plugins",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp := server.Plugins("")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tENGINE\tVERSIONS\tDRIVER\tFEATURES")
		for _, d := range resp.Plugins {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Engine, d.Range(), d.Artifact.FileName(), strings.Join(d.Capabilities.Names(), ","))
		}
		return w.Flush()
	},
}

var resolvePluginsCmd = &cobra.Command{
	Use:   "resolve [engine]",
	Short: "Show the plugins serving an engine in preference order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp := server.Plugins(args[0])
		if len(resp.Plugins) == 0 {
			return fmt.Errorf("no plugin serves engine %q", args[0])
		}
		return printJSON(resp)
	},
}

var enginesParadigm string

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List known engines and the plugins serving them",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp := server.Engines(enginesParadigm)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ENGINE\tNAME\tPARADIGMS\tPLUGINS")
		for _, e := range resp.Engines {
			paradigms := make([]string, len(e.Paradigms))
			for i, p := range e.Paradigms {
				paradigms[i] = string(p)
			}
			plugins := strings.Join(e.Plugins, ",")
			if plugins == "" {
				plugins = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Name, strings.Join(paradigms, ","), plugins)
		}
		return w.Flush()
	},
}

var testFlags connectFlags

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test a connection without keeping it open",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp := server.TestConnection(cmd.Context(), testFlags.request())
		return result(resp, resp.Response)
	},
}

var (
	execFlags connectFlags
	execOpts  struct {
		schema      string
		transaction bool
		maxRows     int
	}
)

var execCmd = &cobra.Command{
	Use:   "exec [sql]",
	Short: "Execute one SQL statement",
	Long: `Execute one SQL statement and print the result as JSON.

Statement failures are reported inside the result rather than as a command error.

Examples:
  driverhub exec -e postgres -H db.internal -d app -u app -p keyring:app "SELECT now()"
  driverhub exec --profile orders --max-rows 100 "SELECT * FROM orders"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := execFlags.open(cmd)
		if err != nil {
			return err
		}
		resp := server.Execute(cmd.Context(), engine.ExecuteRequest{
			ConnectionID:    id,
			SQL:             args[0],
			Schema:          execOpts.schema,
			NeedTransaction: execOpts.transaction,
			MaxRows:         execOpts.maxRows,
		})
		if err := result(resp, resp.Response); err != nil {
			return err
		}
		if !resp.Result.Success {
			return fmt.Errorf("statement failed")
		}
		return nil
	},
}

var (
	metaFlags  connectFlags
	metaScope  engine.ObjectRequest
	metaFilter string
)

var metaCmd = &cobra.Command{
	Use:       "meta [kind]",
	Short:     "List database objects of a kind",
	Long:      "List tables, views, functions, procedures, triggers or the indexes of a table (--name).",
	Args:      cobra.ExactArgs(1),
	ValidArgs: objectKinds,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := metaFlags.open(cmd)
		if err != nil {
			return err
		}
		req := metaScope
		req.ConnectionID, req.Kind, req.Name = id, plugin.ObjectKind(args[0]), metaFilter
		resp := server.ListObjects(cmd.Context(), req)
		return result(resp, resp.Response)
	},
}

var (
	describeFlags connectFlags
	describeScope engine.ObjectRequest
)

var describeCmd = &cobra.Command{
	Use:   "describe [table]",
	Short: "Show columns, keys and indexes of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := describeFlags.open(cmd)
		if err != nil {
			return err
		}
		req := describeScope
		req.ConnectionID, req.Name = id, args[0]
		resp := server.DescribeTable(cmd.Context(), req)
		return result(resp, resp.Response)
	},
}

var (
	ddlFlags connectFlags
	ddlScope engine.ObjectRequest
)

var ddlCmd = &cobra.Command{
	Use:       "ddl [kind] [name]",
	Short:     "Print the definition of an object",
	Args:      cobra.ExactArgs(2),
	ValidArgs: objectKinds,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ddlFlags.open(cmd)
		if err != nil {
			return err
		}
		req := ddlScope
		req.ConnectionID, req.Kind, req.Name = id, plugin.ObjectKind(args[0]), args[1]
		resp := server.DDL(cmd.Context(), req)
		if !resp.Success {
			return result(resp, resp.Response)
		}
		fmt.Println(resp.DDL)
		return nil
	},
}

var (
	dropFlags connectFlags
	dropScope engine.ObjectRequest
)

var dropCmd = &cobra.Command{
	Use:       "drop [kind] [name]",
	Short:     "Drop an object",
	Long:      "Drop an object. Triggers and indexes on engines that scope them to a table need --table.",
	Args:      cobra.ExactArgs(2),
	ValidArgs: objectKinds,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := dropFlags.open(cmd)
		if err != nil {
			return err
		}
		req := dropScope
		req.ConnectionID, req.Kind, req.Name = id, plugin.ObjectKind(args[0]), args[1]
		resp := server.DropObject(cmd.Context(), req)
		if err := result(resp, resp.Response); err != nil {
			return err
		}
		if !resp.Result.Success {
			return fmt.Errorf("drop failed")
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var initConfigCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a default configuration file if none exists",
	Annotations: map[string]string{"skipSetup": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		written, err := config.Init(configFile)
		if err != nil {
			return err
		}
		if written {
			fmt.Printf("Wrote %s\n", configFile)
		} else {
			fmt.Printf("%s already exists\n", configFile)
		}
		return nil
	},
}

func scopeFlags(cmd *cobra.Command, req *engine.ObjectRequest) {
	cmd.Flags().StringVar(&req.Catalog, "catalog", "", "Catalog (database) to inspect")
	cmd.Flags().StringVar(&req.Schema, "schema", "", "Schema to inspect (session default when empty)")
}

func setupCommands() {
	pluginsCmd.AddCommand(listPluginsCmd, resolvePluginsCmd, enginesCmd)
	enginesCmd.Flags().StringVar(&enginesParadigm, "paradigm", "", "Only engines supporting this paradigm (relational, columnar)")

	testFlags.register(testCmd)

	execFlags.register(execCmd)
	execCmd.Flags().StringVar(&execOpts.schema, "schema", "", "Switch to schema before executing")
	execCmd.Flags().BoolVar(&execOpts.transaction, "transaction", false, "Run the statement in its own transaction")
	execCmd.Flags().IntVar(&execOpts.maxRows, "max-rows", 0, "Cap the rows returned (config default when 0)")

	metaFlags.register(metaCmd)
	scopeFlags(metaCmd, &metaScope)
	metaCmd.Flags().StringVar(&metaFilter, "name", "", "Object name filter; the table for indexes and triggers")

	describeFlags.register(describeCmd)
	scopeFlags(describeCmd, &describeScope)

	ddlFlags.register(ddlCmd)
	scopeFlags(ddlCmd, &ddlScope)
	ddlCmd.Flags().StringVar(&ddlScope.Table, "table", "", "Owning table for triggers and indexes")

	dropFlags.register(dropCmd)
	scopeFlags(dropCmd, &dropScope)
	dropCmd.Flags().StringVar(&dropScope.Table, "table", "", "Owning table for triggers and indexes")

	configCmd.AddCommand(initConfigCmd)

	rootCmd.AddCommand(pluginsCmd, testCmd, execCmd, metaCmd, describeCmd, ddlCmd, dropCmd, configCmd)
}
