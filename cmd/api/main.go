// Package main は tasks API サーバーのエントリーポイントです。
package main

import (
	"fmt"
	"os"
)

// version はビルド時に -ldflags で設定されます。
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
