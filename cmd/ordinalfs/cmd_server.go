package main

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ordinalfs/ordinalfs/app/routes"
	"github.com/ordinalfs/ordinalfs/pkg/app"
	"github.com/ordinalfs/ordinalfs/pkg/router"
)

// ordinalfs run / serve — boots the HTTP server with the service's own
// routes registered directly (this CLI ships with exactly one project).
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the HTTP server (alias: serve)",
	RunE: func(cmd *cobra.Command, args []string) error {
		app.New().Routes(routes.RegisterAPI).Run()
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		app.New().Routes(routes.RegisterAPI).Run()
		return nil
	},
}

// ordinalfs route:list — build the router the same way serve does and
// print its named routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := router.New()
		routes.RegisterAPI(r)
		printRouteTable(r.Routes())
		return nil
	},
}

func printRouteTable(infos []router.RouteInfo) {
	if len(infos) == 0 {
		fmt.Println("No named routes registered.")
		return
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Path != infos[j].Path {
			return infos[i].Path < infos[j].Path
		}
		return infos[i].Method < infos[j].Method
	})
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	w.Flush() //nolint:errcheck
}

// ordinalfs build — compile the server binary.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the ordinalfs server binary (outputs ./ordinalfs)",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Building ordinalfs…")
		c := exec.Command("go", "build", "-o", "ordinalfs", "./cmd/server")
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("build failed: %w", err)
		}
		fmt.Println("built: ./ordinalfs")
		return nil
	},
}
