package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"ZhaoYaoJing/internal/diagnose"
	"ZhaoYaoJing/pkg/cli"
)

func main() {
	// 解析命令行参数
	parser := cli.NewParser()
	if err := parser.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			parser.PrintUsage(os.Stdout)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n\n", err)
		parser.PrintUsage(os.Stderr)
		os.Exit(1)
	}

	runner := diagnose.NewRunner(parser.Options)
	os.Exit(runner.Run())
}
