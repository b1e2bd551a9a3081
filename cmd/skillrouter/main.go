package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/vgardrinier/a2a-marketplace/config"
	"github.com/vgardrinier/a2a-marketplace/internal/app"
)

var version = "dev"

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	root := newRootCmd()
	root.PersistentFlags().AddGoFlagSet(goflag.CommandLine)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "skillrouter",
		Short:         "Route a task to the catalog skills, tools or workers that fit the current project",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newDetectCmd(),
		newSolveCmd(),
		newResolveCmd(),
		newMatchCmd(),
		newCatalogCmd(),
		newWorkersCmd(),
		newConfigCmd(),
		newMCPCmd(),
	)
	return root
}

// openApp 命令执行时再初始化，避免 --help 打开数据库
func openApp() (*app.App, error) {
	cfg := config.GetConfig()
	// 单次命令不需要热加载
	cfg.Catalog.Watch = false
	return app.New(cfg)
}
