package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Open/close
		"opened stream %d: %dx%d, %d frames at %d/%d fps": "ストリーム %d を開きました: %dx%d, %d フレーム (%d/%d fps)",
		"open failed: %s": "オープンに失敗しました: %s",
		"closing reader":  "リーダーを閉じています",

		// Decoder setup
		"decoder open failed for stream %d: %s": "ストリーム %d のデコーダー起動に失敗しました: %s",

		// Seek/resync state machine
		"seek issued to frame %d":                     "フレーム %d へのシークを要求しました",
		"landing accepted at frame %d":                "フレーム %d への着地を受理しました",
		"landing rejected at frame %d, walking back":  "フレーム %d への着地を拒否しました。手前に遡ります",
		"no PTS ever observed, falling back to DTS for timing": "PTS が一度も観測されなかったため、タイミング基準を DTS に切り替えます",

		// Stall recovery
		"decode stall right after seeking to frame %d, walking back to %d": "フレーム %d へのシーク直後にデコードが停止しました。%d まで遡ります",
		"stall declared, retry %d/%d, re-seeking to target frame %d":       "デコード停止と判断し、リトライ %d/%d としてフレーム %d へ再シークします",
	})
}
