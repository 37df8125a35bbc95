package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-farm/internal/server"
	"github.com/joeblew999/plat-farm/internal/service"
)

// Options defines all CLI flags and env vars for the farm server.
// Flags: --host, --port, --data-dir, --web-dir, --farms-file
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, SERVICE_WEB_DIR, SERVICE_FARMS_FILE
type Options struct {
	Host      string `doc:"Host to bind to" default:"0.0.0.0"`
	Port      int    `doc:"Port to listen on" short:"p" default:"8087"`
	DataDir   string `doc:"Directory for data files" default:".data"`
	WebDir    string `doc:"Path to web/ directory" default:"web"`
	FarmsFile string `doc:"YAML farm roster (built-in seed roster if empty)" default:""`
}

func newServer(opts *Options) (*server.Server, error) {
	return server.New(server.Config{
		Host:      opts.Host,
		Port:      fmt.Sprintf("%d", opts.Port),
		DataDir:   opts.DataDir,
		WebDir:    opts.WebDir,
		FarmsFile: opts.FarmsFile,
	})
}

func loadRoster(opts *Options) ([]service.Farm, error) {
	if opts.FarmsFile != "" {
		return service.LoadFarmsFile(opts.FarmsFile)
	}
	return service.SeedFarms(), nil
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		hooks.OnStart(func() {
			srv, err := newServer(opts)
			if err != nil {
				log.Fatalf("Startup error: %v", err)
			}

			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("plat-farm API server starting...\n")
			fmt.Printf("  Server:  %s\n", baseURL)
			fmt.Printf("  Farms:   %d loaded\n", srv.FarmCount())
			fmt.Println()
			fmt.Printf("  Pages:   %s/farms, %s/farm/{id}\n", baseURL, baseURL)
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Println()

			if err := http.ListenAndServe(addr, srv); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		})
	})

	cli.Root().Use = "farm"
	cli.Root().Short = "Farm and field data service with map layer sessions"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv, err := newServer(opts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// farms subcommand: print the loaded roster without starting the server
	farmsCmd := &cobra.Command{
		Use:   "farms",
		Short: "List the loaded farm roster",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			roster, err := loadRoster(opts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			farms, err := service.NewFarmService(roster)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tOWNER\tACRES\tLOCATION\tFIELDS")
			for _, f := range farms.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s County, %s\t%d\n",
					f.ID, f.Name, f.Owner, f.Acres, f.County, f.State, len(f.Fields))
			}
			w.Flush()
		}),
	}
	cli.Root().AddCommand(farmsCmd)

	cli.Run()
}
