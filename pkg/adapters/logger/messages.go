package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Batch level messages (info)
		"Publishing %d paths":                            "%d 件のパスを公開中",
		"Deleting %d paths":                              "%d 件のパスを削除中",
		"Finished %s: %d of %d paths succeeded in %d ms": "%s 完了: %d / %d 件成功 (%d ms)",
		"Summary saved to %s":                            "サマリーを %s に保存しました",
		"Metrics saved to %s":                            "メトリクスを %s に保存しました",
		"Interrupted, shutting down...":                  "中断されました。シャットダウン中...",

		// Publisher (debug)
		"Fetching content for %s":   "%s のコンテンツを取得中",
		"Creating directory %s":     "ディレクトリ %s を作成中",
		"Staged %s":                 "一時ファイル %s を作成しました",
		"Published %s (%d bytes)":   "%s を公開しました (%d バイト)",
		"Deleted %s":                "%s を削除しました",
		"Nothing to delete at %s":   "%s に削除対象はありません",
		"Kept directory %s: %s":     "ディレクトリ %s を残しました: %s",
		"Pruned empty directory %s": "空のディレクトリ %s を削除しました",

		// Rendering
		"Rendering %s":                       "%s を描画中",
		"Fetching %s":                        "%s を取得中",
		"Navigating to %s":                   "%s へ移動中",
		"Render of %s returned status %d":    "%s の描画がステータス %d を返しました",
		"Launching browser in headless mode": "ヘッドレスモードでブラウザを起動中",
		"Launching browser in visible mode":  "表示モードでブラウザを起動中",
		"Browser closed":                     "ブラウザを閉じました",

		// Warnings
		"No server name configured, using %s": "サーバー名が設定されていないため %s を使用します",
		"Interrupted before %s":               "%s の前で中断されました",

		// Errors
		"Failed to %s %s: %s":          "%[2]s の %[1]s に失敗しました: %[3]s",
		"Stopping after first failure": "最初の失敗で停止します",
		"%s failed: %s":                "%s に失敗しました: %s",
	})
}
