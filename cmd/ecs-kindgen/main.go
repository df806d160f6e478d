// Command ecs-kindgen writes the Kind, Clone and Update methods of ECS
// components. A struct opts in with an //ecs:component line in its doc comment:
//
//	//ecs:component
//	type Position struct{ X, Y float32 }
//
// Run it through go generate from the package directory:
//
//	//go:generate go run github.com/plus3/keystone/cmd/ecs-kindgen
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
)

func main() {
	dir := flag.String("dir", ".", "Package directory to scan.")
	output := flag.String("output", "components_ecs.go", "Output file name, relative to -dir.")
	qualify := flag.Bool("qualify", false, "Prefix kind names with the package name.")
	verbose := flag.Bool("v", false, "Verbose logging.")
	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync()

	if err := run(logger, *dir, *output, *qualify); err != nil {
		logger.Error("generation failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

func run(logger *zap.Logger, dir, output string, qualify bool) error {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return fmt.Errorf("load package: %w", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return fmt.Errorf("package %s has errors", dir)
	}
	if len(pkgs) != 1 {
		return fmt.Errorf("expected one package in %s, found %d", dir, len(pkgs))
	}
	pkg := pkgs[0]

	components, err := componentTypes(pkg.Syntax)
	if err != nil {
		return err
	}
	if len(components) == 0 {
		logger.Info("no components found", zap.String("package", pkg.PkgPath))
		return nil
	}

	prefix := ""
	if qualify {
		prefix = pkg.Name + "."
	}
	src, err := generate(pkg.Name, prefix, components)
	if err != nil {
		return err
	}

	names := make([]string, len(components))
	for i, c := range components {
		names[i] = c.Name
	}

	path := filepath.Join(dir, output)
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Info("wrote components",
		zap.String("package", pkg.PkgPath),
		zap.String("file", path),
		zap.Strings("components", names),
	)
	return nil
}
