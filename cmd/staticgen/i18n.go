// Package main provides localization for the staticgen CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Publish rendered pages of a web application as static files.": "Webアプリケーションが描画したページを静的ファイルとして公開します。",

		// Version command
		"staticgen version %s": "staticgen バージョン %s",

		// Argument errors
		"no paths given":                        "パスが指定されていません",
		"--content-file needs exactly one path": "--content-file にはパスを1つだけ指定してください",

		// Resolve command
		"(outside the web root)": "(Webルートの外側)",
	})
}
