package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

var scriptExts = map[string]bool{".sql": true, ".pks": true, ".pkb": true, ".tps": true, ".tpb": true}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range edgeSeeds {
		f.Add([]byte(s))
	}
}

// edgeSeeds are inputs that stress recovery and the lexer's line modes.
var edgeSeeds = []string{
	"",
	"/",
	"/\n/\n",
	"BEGIN",
	"BEGIN NULL; END",
	"CREATE",
	"CREATE PACKAGE p IS\n  x NUMBER\nEND;\n/\n",
	"CREATE PACKAGE p IS 123 bad; END p;\n/\n",
	"DECLARE x NUMBER := ((1 + 2) * 3; BEGIN NULL; END;\n/\n",
	"BEGIN x := 'unterminated; END;\n/\n",
	"/* open comment\nBEGIN NULL; END;\n",
	"REM remark\nPROMPT hello /\nSET DEFINE OFF\n",
	"$IF $$debug $THEN x := 1; $END\n",
	"BEGIN <<outer>> LOOP EXIT outer; END LOOP; END;\n/\n",
	"CREATE TYPE t AS VARRAY(10) OF NUMBER;\n/\n",
	"q'[text]' \"Quoted Ident\" 1.5e-3 .5 1..2 =>",
	"\xef\xbb\xbfBEGIN NULL; END;\r\n/\r\n",
	"\xff\xfe\x00garbage\x00",
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все скрипты
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !scriptExts[filepath.Ext(path)] {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
}

func clamp(src []byte, limit int) []byte {
	if len(src) <= limit {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:limit]...)
}
